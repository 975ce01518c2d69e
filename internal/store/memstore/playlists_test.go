package memstore

import (
	"context"
	"testing"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
)

func TestPlaylistsCreateAndFind(t *testing.T) {
	ctx := context.Background()
	playlists := NewPlaylists()

	if err := playlists.Create(ctx, &model.Playlist{ID: "pl1", Name: "80s Rock", SongIDs: []string{"s1", "s2"}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := playlists.FindByID(ctx, "pl1")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Name != "80s Rock" || len(got.SongIDs) != 2 {
		t.Fatalf("unexpected playlist: %#v", got)
	}
}

func TestPlaylistsSetSongsReplacesList(t *testing.T) {
	ctx := context.Background()
	playlists := NewPlaylists()
	_ = playlists.Create(ctx, &model.Playlist{ID: "pl1", SongIDs: []string{"s1"}})

	if err := playlists.SetSongs(ctx, "pl1", []string{"s2", "s3", "s4"}); err != nil {
		t.Fatalf("set songs: %v", err)
	}

	got, _ := playlists.FindByID(ctx, "pl1")
	if len(got.SongIDs) != 3 || got.SongIDs[0] != "s2" {
		t.Fatalf("expected songs replaced, got %v", got.SongIDs)
	}
}

func TestPlaylistsFindByIDClonesSongIDsSlice(t *testing.T) {
	ctx := context.Background()
	playlists := NewPlaylists()
	_ = playlists.Create(ctx, &model.Playlist{ID: "pl1", SongIDs: []string{"s1", "s2"}})

	got, _ := playlists.FindByID(ctx, "pl1")
	got.SongIDs[0] = "mutated"

	again, _ := playlists.FindByID(ctx, "pl1")
	if again.SongIDs[0] != "s1" {
		t.Fatalf("expected internal storage unaffected by caller mutation, got %v", again.SongIDs)
	}
}

func TestPlaylistsDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	playlists := NewPlaylists()

	if err := playlists.Delete(ctx, "missing"); !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected not-found deleting a missing playlist, got %v", err)
	}
}
