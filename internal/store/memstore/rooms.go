// Package memstore implements the store interfaces entirely in memory,
// guarded by a mutex per repository. It is the default runtime backing:
// spec §1's non-goals explicitly exclude persisting in-flight gameplay
// state across restarts, so an in-memory store is not a shortcut but the
// intended shape for ephemeral rooms. Uniqueness invariants (room code,
// player name within a room) are enforced here with a single advisory
// lock per repository, satisfying spec §5's "simultaneous create calls
// cannot both succeed" requirement.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

type Rooms struct {
	mu    sync.Mutex
	byID  map[string]*model.Room
	codes map[string]string // code -> id, live rooms only
}

func NewRooms() *Rooms {
	return &Rooms{
		byID:  make(map[string]*model.Room),
		codes: make(map[string]string),
	}
}

func cloneRoom(r *model.Room) *model.Room {
	cp := *r
	return &cp
}

func (s *Rooms) FindByID(ctx context.Context, id string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("room not found")
	}
	return cloneRoom(r), nil
}

func (s *Rooms) FindByCode(ctx context.Context, code string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.codes[code]
	if !ok {
		return nil, apperrors.NotFound("room not found")
	}
	return cloneRoom(s.byID[id]), nil
}

func (s *Rooms) FindByStatus(ctx context.Context, status model.RoomStatus) ([]*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Room
	for _, r := range s.byID {
		if r.Status == status {
			out = append(out, cloneRoom(r))
		}
	}
	return out, nil
}

func (s *Rooms) Create(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.codes[room.Code]; exists {
		return apperrors.Conflict("room code already in use")
	}
	if _, exists := s.byID[room.ID]; exists {
		return apperrors.Conflict("room id already in use")
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	s.byID[room.ID] = cloneRoom(room)
	s.codes[room.Code] = room.ID
	return nil
}

func (s *Rooms) Update(ctx context.Context, id string, patch store.RoomPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return apperrors.NotFound("room not found")
	}
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.MaxPlayers != nil {
		r.MaxPlayers = *patch.MaxPlayers
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (s *Rooms) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return apperrors.NotFound("room not found")
	}
	delete(s.codes, r.Code)
	delete(s.byID, id)
	return nil
}

func (s *Rooms) GetMasterToken(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return "", apperrors.NotFound("room not found")
	}
	return r.MasterToken, nil
}
