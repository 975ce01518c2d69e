package memstore

import (
	"context"
	"testing"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

func TestPlayersCreateRejectsDuplicateNameWithinRoom(t *testing.T) {
	ctx := context.Background()
	players := NewPlayers()

	if err := players.Create(ctx, &model.Player{ID: "p1", RoomID: "r1", Name: "Alice"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := players.Create(ctx, &model.Player{ID: "p2", RoomID: "r1", Name: "Alice"})
	if !apperrors.Is(err, apperrors.KindConflict) {
		t.Fatalf("expected a conflict for a duplicate name within the same room, got %v", err)
	}

	if err := players.Create(ctx, &model.Player{ID: "p3", RoomID: "r2", Name: "Alice"}); err != nil {
		t.Fatalf("expected the same name to be allowed in a different room, got %v", err)
	}
}

func TestPlayersCountConnected(t *testing.T) {
	ctx := context.Background()
	players := NewPlayers()
	_ = players.Create(ctx, &model.Player{ID: "p1", RoomID: "r1", Name: "Alice", Connected: true})
	_ = players.Create(ctx, &model.Player{ID: "p2", RoomID: "r1", Name: "Bob", Connected: false})
	_ = players.Create(ctx, &model.Player{ID: "p3", RoomID: "r1", Name: "Carl", Connected: true})

	n, err := players.CountConnected(ctx, "r1")
	if err != nil {
		t.Fatalf("count connected: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 connected players, got %d", n)
	}
}

func TestPlayersUpdateAppliesOnlySetFields(t *testing.T) {
	ctx := context.Background()
	players := NewPlayers()
	_ = players.Create(ctx, &model.Player{ID: "p1", RoomID: "r1", Name: "Alice", Score: 0})

	score := 10
	if err := players.Update(ctx, "p1", store.PlayerPatch{Score: &score}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := players.FindByID(ctx, "p1")
	if got.Score != 10 {
		t.Fatalf("expected score 10, got %d", got.Score)
	}
	if got.Name != "Alice" {
		t.Fatalf("expected name to remain unset-untouched, got %q", got.Name)
	}
}

func TestPlayersDeleteByRoom(t *testing.T) {
	ctx := context.Background()
	players := NewPlayers()
	_ = players.Create(ctx, &model.Player{ID: "p1", RoomID: "r1", Name: "Alice"})
	_ = players.Create(ctx, &model.Player{ID: "p2", RoomID: "r2", Name: "Bob"})

	if err := players.DeleteByRoom(ctx, "r1"); err != nil {
		t.Fatalf("delete by room: %v", err)
	}

	if _, err := players.FindByID(ctx, "p1"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatal("expected alice to be deleted")
	}
	if _, err := players.FindByID(ctx, "p2"); err != nil {
		t.Fatal("expected bob in a different room to remain")
	}
}

func TestPlayersResetScores(t *testing.T) {
	ctx := context.Background()
	players := NewPlayers()
	_ = players.Create(ctx, &model.Player{ID: "p1", RoomID: "r1", Name: "Alice", Score: 20, RoundScore: 5})

	if err := players.ResetScores(ctx, "r1"); err != nil {
		t.Fatalf("reset scores: %v", err)
	}

	got, _ := players.FindByID(ctx, "p1")
	if got.Score != 0 || got.RoundScore != 0 {
		t.Fatalf("expected scores reset to 0, got score=%d roundScore=%d", got.Score, got.RoundScore)
	}
}
