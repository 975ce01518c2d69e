// Package hub implements the Room Hub (spec §4.2): the registry of active
// rooms, routing inbound connections to the right Game Engine and fanning
// its outbound events out to every socket bound to that room. This mirrors
// the teacher's GameManager/Hub split in celebrity.go, generalized from one
// channel set per concern to the Engine's single typed action/event pair.
package hub

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/adrienmarquer/blindtest/internal/engine"
	"github.com/adrienmarquer/blindtest/internal/media"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/modes"
	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

// bundle is one room's engine plus the sockets currently bound to it.
type bundle struct {
	engine  *engine.Engine
	cancel  context.CancelFunc
	mu      sync.Mutex
	sockets map[transport.Socket]bool

	lastActive time.Time
}

// Config bundles the dependencies every room's Engine needs (spec §9 Open
// Questions: ReconnectGrace resolved as a config value).
type Config struct {
	Modes          *modes.Registry
	Media          *media.Registry
	Repos          store.Repositories
	SystemDefaults model.ModeParams
	ReconnectGrace time.Duration
	Logf           func(format string, args ...any)
}

// Hub is the process-wide registry of room bundles.
type Hub struct {
	cfg Config

	mu     sync.Mutex
	rooms  map[string]*bundle
}

func New(cfg Config) *Hub {
	if cfg.Logf == nil {
		cfg.Logf = func(string, ...any) {}
	}
	if cfg.ReconnectGrace <= 0 {
		cfg.ReconnectGrace = 30 * time.Second
	}
	h := &Hub{cfg: cfg, rooms: make(map[string]*bundle)}
	go h.reapLoop()
	return h
}

func (h *Hub) logf(format string, args ...any) { h.cfg.Logf(format, args...) }

// getOrStartEngine returns the running Engine for roomID, starting one if
// this is the first socket to reach it. The caller must already have
// resolved the room record (spec §6.2 is an out-of-scope HTTP collaborator;
// the Hub only drives the Engine once a Room exists).
func (h *Hub) getOrStartEngine(room *model.Room) *bundle {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.rooms[room.ID]; ok {
		return b
	}

	ctx, cancel := context.WithCancel(context.Background())
	eng := engine.New(room, engine.Config{
		Modes:          h.cfg.Modes,
		Media:          h.cfg.Media,
		Repos:          h.cfg.Repos,
		SystemDefaults: h.cfg.SystemDefaults,
		ReconnectGrace: h.cfg.ReconnectGrace,
		Logf:           h.cfg.Logf,
	})
	b := &bundle{
		engine:     eng,
		cancel:     cancel,
		sockets:    make(map[transport.Socket]bool),
		lastActive: time.Now(),
	}
	h.rooms[room.ID] = b

	go eng.Run(ctx)
	go h.pump(room.ID, b)

	return b
}

// pump drains one room's Engine.Events() and fans each out to every bound
// socket matching its audience (spec §4.2 broadcast, §5/§8 per-recipient
// ordering guarantee — a single goroutine per room preserves emission
// order since Engine.Events() is itself an ordered channel).
func (h *Hub) pump(roomID string, b *bundle) {
	for ev := range b.engine.Events() {
		msg, err := transport.Encode(ev.Type, ev.Payload)
		if err != nil {
			h.logf("HUB: failed to encode event %s for room %s: %v", ev.Type, roomID, err)
			continue
		}

		b.mu.Lock()
		for sock := range b.sockets {
			if !matches(ev.Audience, sock.Identity()) {
				continue
			}
			if err := sock.Send(msg); err != nil {
				h.logf("HUB: send failed room=%s player=%s: %v", roomID, sock.Identity().PlayerID, err)
			}
		}
		b.mu.Unlock()
	}

	h.mu.Lock()
	delete(h.rooms, roomID)
	h.mu.Unlock()
}

func matches(a engine.Audience, id transport.Identity) bool {
	switch a.Kind {
	case engine.AudienceAll:
		return true
	case engine.AudienceMaster:
		return id.IsMaster
	case engine.AudiencePlayers:
		return !id.IsMaster
	case engine.AudiencePlayer:
		return id.PlayerID == a.PlayerID
	case engine.AudienceExcept:
		return id.PlayerID != a.PlayerID
	default:
		return false
	}
}

// Attach binds sock to room, starting the room's Engine if needed, and
// notifies the Engine a socket is now live (spec §4.2 attach).
func (h *Hub) Attach(room *model.Room, sock transport.Socket) {
	b := h.getOrStartEngine(room)

	b.mu.Lock()
	b.sockets[sock] = true
	b.lastActive = time.Now()
	b.mu.Unlock()

	b.engine.AttachSocket(sock.Identity())
}

// Detach unbinds sock from its room. Per spec §4.1, the player row is never
// deleted here — only the socket set shrinks; the Engine marks the player
// disconnected so a later Attach with the same playerId can reconnect.
func (h *Hub) Detach(roomID string, sock transport.Socket) {
	h.mu.Lock()
	b, ok := h.rooms[roomID]
	h.mu.Unlock()
	if !ok {
		return
	}

	b.mu.Lock()
	delete(b.sockets, sock)
	b.lastActive = time.Now()
	b.mu.Unlock()

	b.engine.DetachSocket(sock.Identity())
}

// Submit forwards a decoded inbound message to roomID's Engine.
func (h *Hub) Submit(roomID string, sock transport.Socket, msg transport.Message) {
	h.mu.Lock()
	b, ok := h.rooms[roomID]
	h.mu.Unlock()
	if !ok {
		return
	}
	b.mu.Lock()
	b.lastActive = time.Now()
	b.mu.Unlock()
	b.engine.Submit(sock.Identity(), msg)
}

// StartGame is the HTTP "game start" collaborator's entry point into the
// room's Engine (spec §6.2).
func (h *Hub) StartGame(ctx context.Context, roomID string, configs []model.RoundConfig) error {
	h.mu.Lock()
	b, ok := h.rooms[roomID]
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return b.engine.StartGame(ctx, configs)
}

// Stop tears down roomID's Engine, e.g. once Housekeeping deletes the room.
func (h *Hub) Stop(roomID string) {
	h.mu.Lock()
	b, ok := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()
	if ok {
		b.engine.Stop()
		b.cancel()
	}
}

// RoomCode generates a 4-char join code (spec §3: unique across live rooms).
// Collision detection against the repository is the caller's (HTTP
// collaborator's) responsibility; this only produces the random candidate,
// following the teacher's crypto/rand newGameID pattern.
func RoomCode() string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I ambiguity
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic("hub: crypto/rand failure: " + err.Error())
	}
	out := make([]byte, 4)
	for i := range out {
		out[i] = letters[int(buf[i])%len(letters)]
	}
	return string(out)
}
