package memstore

import (
	"context"
	"sync"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

type Players struct {
	mu   sync.Mutex
	byID map[string]*model.Player
}

func NewPlayers() *Players {
	return &Players{byID: make(map[string]*model.Player)}
}

func clonePlayer(p *model.Player) *model.Player {
	cp := *p
	return &cp
}

func (s *Players) FindByID(ctx context.Context, id string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("player not found")
	}
	return clonePlayer(p), nil
}

func (s *Players) FindByRoom(ctx context.Context, roomID string) ([]*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Player
	for _, p := range s.byID {
		if p.RoomID == roomID {
			out = append(out, clonePlayer(p))
		}
	}
	return out, nil
}

func (s *Players) FindByRoomAndName(ctx context.Context, roomID, name string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.RoomID == roomID && p.Name == name {
			return clonePlayer(p), nil
		}
	}
	return nil, apperrors.NotFound("player not found")
}

func (s *Players) CountConnected(ctx context.Context, roomID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.byID {
		if p.RoomID == roomID && p.Connected {
			n++
		}
	}
	return n, nil
}

// Create enforces the (roomId, name) uniqueness invariant (spec §3, §8
// property 7) under the repository's single lock.
func (s *Players) Create(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.byID {
		if p.RoomID == player.RoomID && p.Name == player.Name {
			return apperrors.Conflict("player name already taken in this room")
		}
	}
	if _, exists := s.byID[player.ID]; exists {
		return apperrors.Conflict("player id already in use")
	}

	s.byID[player.ID] = clonePlayer(player)
	return nil
}

func (s *Players) Update(ctx context.Context, id string, patch store.PlayerPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return apperrors.NotFound("player not found")
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Connected != nil {
		p.Connected = *patch.Connected
	}
	if patch.Score != nil {
		p.Score = *patch.Score
	}
	if patch.RoundScore != nil {
		p.RoundScore = *patch.RoundScore
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.IsLockedOut != nil {
		p.IsLockedOut = *patch.IsLockedOut
	}
	return nil
}

func (s *Players) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperrors.NotFound("player not found")
	}
	delete(s.byID, id)
	return nil
}

func (s *Players) DeleteByRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.byID {
		if p.RoomID == roomID {
			delete(s.byID, id)
		}
	}
	return nil
}

func (s *Players) ResetScores(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.RoomID == roomID {
			p.Score = 0
			p.RoundScore = 0
		}
	}
	return nil
}
