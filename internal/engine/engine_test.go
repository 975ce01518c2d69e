package engine

import (
	"context"
	"testing"
	"time"

	"github.com/adrienmarquer/blindtest/internal/media"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/modes"
	"github.com/adrienmarquer/blindtest/internal/paramresolver"
	"github.com/adrienmarquer/blindtest/internal/store/memstore"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

func newTestEngine(t *testing.T) (*Engine, func()) {
	t.Helper()
	repos := memstore.New()

	song := &model.Song{ID: "song-1", Title: "Song One", Artist: "Artist One"}
	if err := repos.Songs.Create(context.Background(), song); err != nil {
		t.Fatalf("seed song: %v", err)
	}

	room := &model.Room{ID: "room-1", Code: "ABCD", Status: model.RoomLobby}

	e := New(room, Config{
		Modes:          modes.Default(),
		Media:          media.Default(),
		Repos:          repos,
		SystemDefaults: paramresolver.SystemDefaults(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	return e, func() {
		e.Stop()
		cancel()
	}
}

func msg(t *testing.T, msgType string, payload any) transport.Message {
	t.Helper()
	m, err := transport.Encode(msgType, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", msgType, err)
	}
	return m
}

// waitForEvent drains ev until one of the given types arrives, failing the
// test if none shows up before the timeout. It returns the matching event.
func waitForEvent(t *testing.T, ev <-chan Event, timeout time.Duration, types ...string) Event {
	t.Helper()
	deadline := time.After(timeout)
	want := make(map[string]bool, len(types))
	for _, ty := range types {
		want[ty] = true
	}
	for {
		select {
		case e, ok := <-ev:
			if !ok {
				t.Fatalf("event channel closed while waiting for %v", types)
			}
			if want[e.Type] {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for one of %v", types)
		}
	}
}

func TestEngineJoinAndStartGame(t *testing.T) {
	e, stop := newTestEngine(t)
	defer stop()

	alice := transport.Identity{RoomID: "room-1", PlayerID: "alice-id"}
	master := transport.Identity{RoomID: "room-1", PlayerID: "master", IsMaster: true}

	e.Submit(alice, msg(t, "player:join", map[string]string{"name": "Alice"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	e.Submit(transport.Identity{RoomID: "room-1", PlayerID: "bob-id"}, msg(t, "player:join", map[string]string{"name": "Bob"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	e.Submit(master, msg(t, "player:join", map[string]string{"name": "Master"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	reply := make(chan error, 1)
	go func() {
		reply <- e.StartGame(context.Background(), []model.RoundConfig{
			{ModeType: modes.FastBuzz, MediaType: "music"},
		})
	}()

	waitForEvent(t, e.Events(), time.Second, "game:started")
	waitForEvent(t, e.Events(), time.Second, "round:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")

	select {
	case err := <-reply:
		if err != nil {
			t.Fatalf("start game: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for StartGame to reply")
	}
}

func TestEngineRejectsStartWithoutEnoughPlayers(t *testing.T) {
	e, stop := newTestEngine(t)
	defer stop()

	alice := transport.Identity{RoomID: "room-1", PlayerID: "alice-id"}
	e.Submit(alice, msg(t, "player:join", map[string]string{"name": "Alice"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	err := e.StartGame(context.Background(), []model.RoundConfig{
		{ModeType: modes.FastBuzz, MediaType: "music"},
	})
	if err == nil {
		t.Fatal("expected an error starting with only one connected player")
	}
}

func TestEngineBuzzAndMasterValidatedAnswer(t *testing.T) {
	e, stop := newTestEngine(t)
	defer stop()

	alice := transport.Identity{RoomID: "room-1", PlayerID: "alice-id"}
	bob := transport.Identity{RoomID: "room-1", PlayerID: "bob-id"}
	master := transport.Identity{RoomID: "room-1", PlayerID: "master", IsMaster: true}

	e.Submit(alice, msg(t, "player:join", map[string]string{"name": "Alice"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")
	e.Submit(bob, msg(t, "player:join", map[string]string{"name": "Bob"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")
	e.Submit(master, msg(t, "player:join", map[string]string{"name": "Master"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	go func() {
		_ = e.StartGame(context.Background(), []model.RoundConfig{
			{ModeType: modes.FastBuzz, MediaType: "music"},
		})
	}()
	waitForEvent(t, e.Events(), time.Second, "game:started")
	waitForEvent(t, e.Events(), time.Second, "round:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")

	e.Submit(alice, msg(t, "player:buzz", map[string]any{"songIndex": 0, "timestamp": int64(100)}))
	waitForEvent(t, e.Events(), time.Second, "player:buzzed")
	waitForEvent(t, e.Events(), time.Second, "player:buzzed")

	e.Submit(master, msg(t, "player:answer", map[string]any{"songIndex": 0, "type": "title", "value": "correct"}))
	resultEv := waitForEvent(t, e.Events(), time.Second, "answer:result")
	result, ok := resultEv.Payload.(AnswerResultPayload)
	if !ok {
		t.Fatalf("expected AnswerResultPayload, got %T", resultEv.Payload)
	}
	if !result.IsCorrect || result.PlayerID != "alice-id" {
		t.Fatalf("expected alice to be credited with a correct answer, got %#v", result)
	}

	waitForEvent(t, e.Events(), time.Second, "song:ended")
}

func TestEngineBetweenRoundsWaitsForMasterAdvance(t *testing.T) {
	repos := memstore.New()
	song1 := &model.Song{ID: "song-1", Title: "Song One", Artist: "Artist One"}
	song2 := &model.Song{ID: "song-2", Title: "Song Two", Artist: "Artist Two"}
	if err := repos.Songs.Create(context.Background(), song1); err != nil {
		t.Fatalf("seed song1: %v", err)
	}
	if err := repos.Songs.Create(context.Background(), song2); err != nil {
		t.Fatalf("seed song2: %v", err)
	}

	room := &model.Room{ID: "room-1", Code: "ABCD", Status: model.RoomLobby}
	e := New(room, Config{
		Modes:          modes.Default(),
		Media:          media.Default(),
		Repos:          repos,
		SystemDefaults: paramresolver.SystemDefaults(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		e.Stop()
		cancel()
	}()
	go e.Run(ctx)

	alice := transport.Identity{RoomID: "room-1", PlayerID: "alice-id"}
	bob := transport.Identity{RoomID: "room-1", PlayerID: "bob-id"}
	master := transport.Identity{RoomID: "room-1", PlayerID: "master", IsMaster: true}

	e.Submit(alice, msg(t, "player:join", map[string]string{"name": "Alice"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")
	e.Submit(bob, msg(t, "player:join", map[string]string{"name": "Bob"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")
	e.Submit(master, msg(t, "player:join", map[string]string{"name": "Master"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	go func() {
		_ = e.StartGame(context.Background(), []model.RoundConfig{
			{ModeType: modes.FastBuzz, MediaType: "music", SongIDs: []string{"song-1"}},
			{ModeType: modes.FastBuzz, MediaType: "music", SongIDs: []string{"song-2"}},
		})
	}()
	waitForEvent(t, e.Events(), time.Second, "game:started")
	waitForEvent(t, e.Events(), time.Second, "round:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")

	// Master skips the only song in round 0, ending the round.
	e.Submit(master, msg(t, "game:skip", map[string]any{}))
	waitForEvent(t, e.Events(), time.Second, "song:ended")
	waitForEvent(t, e.Events(), time.Second, "round:ended")
	waitForEvent(t, e.Events(), time.Second, "round:between")

	// Round 1 must not start on its own: no round:started/song:started
	// arrives until a master game:advance is submitted.
	select {
	case ev := <-e.Events():
		t.Fatalf("expected no further events while holding in between_rounds, got %s", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}

	// A non-master advance attempt is rejected and does not resume play.
	e.Submit(alice, msg(t, "game:advance", map[string]any{}))
	errEv := waitForEvent(t, e.Events(), time.Second, "error")
	if _, ok := errEv.Payload.(ErrorPayload); !ok {
		t.Fatalf("expected ErrorPayload, got %T", errEv.Payload)
	}

	e.Submit(master, msg(t, "game:advance", map[string]any{}))
	waitForEvent(t, e.Events(), time.Second, "round:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")
	waitForEvent(t, e.Events(), time.Second, "song:started")
}

func TestEngineUnknownMessageTypeEmitsTransportError(t *testing.T) {
	e, stop := newTestEngine(t)
	defer stop()

	alice := transport.Identity{RoomID: "room-1", PlayerID: "alice-id"}
	e.Submit(alice, msg(t, "player:join", map[string]string{"name": "Alice"}))
	waitForEvent(t, e.Events(), time.Second, "player:joined")

	e.Submit(alice, msg(t, "bogus:message", map[string]any{}))
	errEv := waitForEvent(t, e.Events(), time.Second, "error")
	payload, ok := errEv.Payload.(ErrorPayload)
	if !ok {
		t.Fatalf("expected ErrorPayload, got %T", errEv.Payload)
	}
	if payload.Message == "" {
		t.Fatal("expected a non-empty transport error message")
	}
}
