package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
)

type Sessions struct {
	mu   sync.Mutex
	byID map[string]*model.Session
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*model.Session)}
}

func cloneSession(s *model.Session) *model.Session {
	cp := *s
	return &cp
}

func (s *Sessions) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFound("session not found")
	}
	return cloneSession(sess), nil
}

func (s *Sessions) FindByRoom(ctx context.Context, roomID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.byID {
		if sess.RoomID == roomID {
			return cloneSession(sess), nil
		}
	}
	return nil, apperrors.NotFound("session not found")
}

func (s *Sessions) Create(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[session.ID]; exists {
		return apperrors.Conflict("session id already in use")
	}
	s.byID[session.ID] = cloneSession(session)
	return nil
}

func (s *Sessions) Update(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[session.ID]; !ok {
		return apperrors.NotFound("session not found")
	}
	s.byID[session.ID] = cloneSession(session)
	return nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperrors.NotFound("session not found")
	}
	delete(s.byID, id)
	return nil
}

func (s *Sessions) EndSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return apperrors.NotFound("session not found")
	}
	now := time.Now()
	sess.Status = model.SessionFinished
	sess.EndedAt = &now
	return nil
}

func (s *Sessions) NextRound(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return apperrors.NotFound("session not found")
	}
	sess.CurrentRoundIndex++
	sess.CurrentSongIndex = 0
	return nil
}

func (s *Sessions) NextSong(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return apperrors.NotFound("session not found")
	}
	sess.CurrentSongIndex++
	return nil
}
