package memstore

import (
	"context"
	"testing"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
)

func TestSessionsFindByRoom(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions()
	_ = sessions.Create(ctx, &model.Session{ID: "sess1", RoomID: "r1", Status: model.SessionPlaying})

	got, err := sessions.FindByRoom(ctx, "r1")
	if err != nil {
		t.Fatalf("find by room: %v", err)
	}
	if got.ID != "sess1" {
		t.Fatalf("expected sess1, got %s", got.ID)
	}

	if _, err := sessions.FindByRoom(ctx, "missing-room"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatal("expected not-found for an unknown room")
	}
}

func TestSessionsEndSessionSetsStatusAndEndedAt(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions()
	_ = sessions.Create(ctx, &model.Session{ID: "sess1", RoomID: "r1", Status: model.SessionPlaying})

	if err := sessions.EndSession(ctx, "sess1"); err != nil {
		t.Fatalf("end session: %v", err)
	}

	got, _ := sessions.FindByID(ctx, "sess1")
	if got.Status != model.SessionFinished {
		t.Fatalf("expected status finished, got %s", got.Status)
	}
	if got.EndedAt == nil {
		t.Fatal("expected EndedAt to be set")
	}
}

func TestSessionsNextRoundResetsSongIndex(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions()
	_ = sessions.Create(ctx, &model.Session{ID: "sess1", RoomID: "r1", CurrentRoundIndex: 0, CurrentSongIndex: 3})

	if err := sessions.NextRound(ctx, "sess1"); err != nil {
		t.Fatalf("next round: %v", err)
	}

	got, _ := sessions.FindByID(ctx, "sess1")
	if got.CurrentRoundIndex != 1 {
		t.Fatalf("expected round index 1, got %d", got.CurrentRoundIndex)
	}
	if got.CurrentSongIndex != 0 {
		t.Fatalf("expected song index reset to 0, got %d", got.CurrentSongIndex)
	}
}

func TestSessionsNextSongIncrements(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions()
	_ = sessions.Create(ctx, &model.Session{ID: "sess1", RoomID: "r1", CurrentSongIndex: 1})

	if err := sessions.NextSong(ctx, "sess1"); err != nil {
		t.Fatalf("next song: %v", err)
	}

	got, _ := sessions.FindByID(ctx, "sess1")
	if got.CurrentSongIndex != 2 {
		t.Fatalf("expected song index 2, got %d", got.CurrentSongIndex)
	}
}
