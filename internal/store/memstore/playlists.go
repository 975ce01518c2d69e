package memstore

import (
	"context"
	"sync"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
)

type Playlists struct {
	mu   sync.Mutex
	byID map[string]*model.Playlist
}

func NewPlaylists() *Playlists {
	return &Playlists{byID: make(map[string]*model.Playlist)}
}

func clonePlaylist(p *model.Playlist) *model.Playlist {
	cp := *p
	cp.SongIDs = append([]string(nil), p.SongIDs...)
	return &cp
}

func (s *Playlists) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("playlist not found")
	}
	return clonePlaylist(p), nil
}

func (s *Playlists) Create(ctx context.Context, playlist *model.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[playlist.ID]; exists {
		return apperrors.Conflict("playlist id already in use")
	}
	s.byID[playlist.ID] = clonePlaylist(playlist)
	return nil
}

func (s *Playlists) Update(ctx context.Context, playlist *model.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[playlist.ID]; !ok {
		return apperrors.NotFound("playlist not found")
	}
	s.byID[playlist.ID] = clonePlaylist(playlist)
	return nil
}

func (s *Playlists) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperrors.NotFound("playlist not found")
	}
	delete(s.byID, id)
	return nil
}

func (s *Playlists) SetSongs(ctx context.Context, playlistID string, songIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[playlistID]
	if !ok {
		return apperrors.NotFound("playlist not found")
	}
	p.SongIDs = append([]string(nil), songIDs...)
	return nil
}
