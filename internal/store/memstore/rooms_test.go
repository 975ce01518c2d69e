package memstore

import (
	"context"
	"testing"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
)

func TestRoomsCreateAndFind(t *testing.T) {
	ctx := context.Background()
	rooms := NewRooms()

	room := &model.Room{ID: "r1", Code: "ABCD", Status: model.RoomLobby}
	if err := rooms.Create(ctx, room); err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := rooms.FindByID(ctx, "r1")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Code != "ABCD" {
		t.Fatalf("expected code ABCD, got %s", byID.Code)
	}

	byCode, err := rooms.FindByCode(ctx, "ABCD")
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if byCode.ID != "r1" {
		t.Fatalf("expected id r1, got %s", byCode.ID)
	}
}

func TestRoomsCreateDuplicateCodeConflicts(t *testing.T) {
	ctx := context.Background()
	rooms := NewRooms()

	if err := rooms.Create(ctx, &model.Room{ID: "r1", Code: "ABCD"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := rooms.Create(ctx, &model.Room{ID: "r2", Code: "ABCD"})
	if !apperrors.Is(err, apperrors.KindConflict) {
		t.Fatalf("expected a conflict error for duplicate code, got %v", err)
	}
}

func TestRoomsFindByIDNotFound(t *testing.T) {
	ctx := context.Background()
	rooms := NewRooms()

	_, err := rooms.FindByID(ctx, "missing")
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestRoomsUpdateAndDeleteClearsCode(t *testing.T) {
	ctx := context.Background()
	rooms := NewRooms()
	_ = rooms.Create(ctx, &model.Room{ID: "r1", Code: "ABCD", Status: model.RoomLobby})

	playing := model.RoomPlaying
	if err := rooms.Update(ctx, "r1", store.RoomPatch{Status: &playing}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := rooms.FindByID(ctx, "r1")
	if got.Status != model.RoomPlaying {
		t.Fatalf("expected status playing, got %s", got.Status)
	}

	if err := rooms.Delete(ctx, "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := rooms.FindByCode(ctx, "ABCD"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatal("expected deleted room's code to be released")
	}
}
