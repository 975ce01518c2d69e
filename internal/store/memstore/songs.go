package memstore

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

type Songs struct {
	mu   sync.Mutex
	byID map[string]*model.Song
}

func NewSongs() *Songs {
	return &Songs{byID: make(map[string]*model.Song)}
}

func cloneSong(s *model.Song) *model.Song {
	cp := *s
	return &cp
}

func (s *Songs) FindByID(ctx context.Context, id string) (*model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("song not found")
	}
	return cloneSong(song), nil
}

func (s *Songs) FindByIDs(ctx context.Context, ids []string) ([]*model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := s.byID[id]; ok {
			out = append(out, cloneSong(song))
		}
	}
	return out, nil
}

// FindByFilters returns every matching song, capped at q.SongCount when
// positive; a count larger than the pool returns the whole pool (spec §8
// boundary behavior).
func (s *Songs) FindByFilters(ctx context.Context, q store.SongFilterQuery) ([]*model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*model.Song
	for _, song := range s.byID {
		if !q.IncludeNiche && song.Niche {
			continue
		}
		if q.Genre != "" && song.Genre != q.Genre {
			continue
		}
		if q.ArtistName != "" && song.Artist != q.ArtistName {
			continue
		}
		if q.YearMin != 0 && song.Year < q.YearMin {
			continue
		}
		if q.YearMax != 0 && song.Year > q.YearMax {
			continue
		}
		matched = append(matched, cloneSong(song))
	}

	shuffleSongs(matched)

	if q.SongCount > 0 && len(matched) > q.SongCount {
		matched = matched[:q.SongCount]
	}
	return matched, nil
}

func (s *Songs) FindSimilar(ctx context.Context, q store.SimilarQuery) ([]*model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*model.Song
	for _, song := range s.byID {
		if song.ID == q.ExcludeSongID {
			continue
		}
		sameGenre := q.Genre != "" && song.Genre == q.Genre
		inYearRange := q.YearMin == 0 && q.YearMax == 0
		if q.YearMin != 0 && song.Year < q.YearMin {
			inYearRange = false
		}
		if q.YearMax != 0 && song.Year > q.YearMax {
			inYearRange = false
		}
		if !sameGenre && !inYearRange {
			continue
		}
		matched = append(matched, cloneSong(song))
	}

	shuffleSongs(matched)

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *Songs) GetRandom(ctx context.Context, count int, includeNiche bool) ([]*model.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pool []*model.Song
	for _, song := range s.byID {
		if !includeNiche && song.Niche {
			continue
		}
		pool = append(pool, cloneSong(song))
	}
	shuffleSongs(pool)
	if count > 0 && len(pool) > count {
		pool = pool[:count]
	}
	return pool, nil
}

func (s *Songs) Create(ctx context.Context, song *model.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[song.ID]; exists {
		return apperrors.Conflict("song id already in use")
	}
	s.byID[song.ID] = cloneSong(song)
	return nil
}

func (s *Songs) Update(ctx context.Context, song *model.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[song.ID]; !ok {
		return apperrors.NotFound("song not found")
	}
	s.byID[song.ID] = cloneSong(song)
	return nil
}

func (s *Songs) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperrors.NotFound("song not found")
	}
	delete(s.byID, id)
	return nil
}

func shuffleSongs(items []*model.Song) {
	for i := len(items) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
