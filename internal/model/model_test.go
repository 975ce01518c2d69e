package model

import "testing"

func TestRoomMutableOnlyInLobby(t *testing.T) {
	r := &Room{Status: RoomLobby}
	if !r.Mutable() {
		t.Fatal("expected a lobby room to be mutable")
	}

	r.Status = RoomPlaying
	if r.Mutable() {
		t.Fatal("expected a playing room to be frozen")
	}
}

func TestNewRoundSongInitializesMaps(t *testing.T) {
	song := &Song{ID: "s1", Title: "Title"}
	params := ModeParams{}

	rs := NewRoundSong(0, song, params)

	if rs.Status != SongPending {
		t.Fatalf("expected status pending, got %s", rs.Status)
	}
	if rs.LockedOutPlayerIDs == nil || rs.BuzzTimestamps == nil || rs.AnsweredTypes == nil {
		t.Fatal("expected all bookkeeping maps to be initialized, not nil")
	}
	if rs.Song != song {
		t.Fatal("expected the song pointer to be carried through")
	}
}
