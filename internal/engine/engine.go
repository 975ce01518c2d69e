// Package engine implements the Game Engine (spec §4.3): one instance per
// room, owning all mutable gameplay state as the room's single writer. All
// external triggers — client messages, timer firings, attach/detach
// notifications — are delivered as actions to a FIFO inbox and processed
// strictly one at a time, so nothing inside the Engine needs a lock (spec
// §5). This mirrors the teacher's per-hub `run()` select-loop in
// celebrity.go, generalised from a single channel set to one typed inbox.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/media"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/modes"
	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

// Config bundles the deployment-wide values the Engine needs but does not
// own: the Mode/Media registries, repository bundle, system ModeParams
// defaults, and the reconnection grace period (§9 Open Questions, resolved
// as a config value per SPEC_FULL §2.1).
type Config struct {
	Modes          *modes.Registry
	Media          *media.Registry
	Repos          store.Repositories
	SystemDefaults model.ModeParams
	ReconnectGrace time.Duration
	Logf           func(format string, args ...any)
}

// Engine is the per-room authoritative state machine.
type Engine struct {
	cfg Config

	room    *model.Room
	session *model.Session
	rounds  []*model.Round

	players     map[string]*model.Player
	playerOrder []string // join order, for deterministic roster listing

	timing               songTiming
	currentSongStartedAt time.Time

	// pendingRoundIdx is the round waiting to start while room.Status is
	// between_rounds; -1 when nothing is queued (spec §4.3.1/§4.3.6: the
	// between_rounds -> playing transition only fires on a master advance).
	pendingRoundIdx int

	inbox chan action
	out   chan Event
	quit  chan struct{}
}

// New builds an Engine for room. The caller must call Run in its own
// goroutine before sending any action.
func New(room *model.Room, cfg Config) *Engine {
	if cfg.Logf == nil {
		cfg.Logf = func(string, ...any) {}
	}
	return &Engine{
		cfg:             cfg,
		room:            room,
		players:         make(map[string]*model.Player),
		pendingRoundIdx: -1,
		inbox:           make(chan action, 64),
		out:             make(chan Event, 64),
		quit:            make(chan struct{}),
	}
}

// Events is the Engine's outbound stream; the Hub ranges over it to fan out
// to sockets and must keep draining it for the room's lifetime.
func (e *Engine) Events() <-chan Event { return e.out }

// RoomID is a convenience accessor for Hub bookkeeping.
func (e *Engine) RoomID() string { return e.room.ID }

// Run drains the inbox until Stop is called or ctx is cancelled. Each action
// is dispatched inside a recover guard so a single bad event logs an
// InternalError instead of killing the room (spec §7 propagation policy).
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			e.teardown()
			return
		case <-e.quit:
			e.teardown()
			return
		case a := <-e.inbox:
			e.dispatchSafely(a)
		}
	}
}

// Stop requests the run loop to cancel remaining timers and exit. Per spec
// §5, the Engine drains its inbox (pending actions are discarded; a caller
// waiting on a reply gets a StateError) and cancels all timers before
// releasing the room slot.
func (e *Engine) Stop() {
	select {
	case <-e.quit:
	default:
		close(e.quit)
	}
}

func (e *Engine) teardown() {
	e.cancelSongTimer()
	e.cancelAnswerTimer()
	for drained := false; !drained; {
		select {
		case a := <-e.inbox:
			if a.reply != nil {
				a.reply <- apperrors.State("room is shutting down")
			}
		default:
			drained = true
		}
	}
	close(e.out)
}

func (e *Engine) dispatchSafely(a action) {
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.Internal(fmt.Errorf("engine: panic handling %s: %v", a.Kind, r))
			e.logf("ENGINE: recovered panic room=%s action=%s err=%v", e.room.ID, a.Kind, err)
			e.emitError(a.Identity.PlayerID, err)
		}
	}()
	e.dispatch(a)
}

func (e *Engine) dispatch(a action) {
	switch a.Kind {
	case actionAttach:
		e.handleAttach(a.Identity)
	case actionDetach:
		e.handleDetach(a.Identity)
	case actionJoin:
		e.handleJoin(a.Identity, a.Msg)
	case actionLeave:
		e.handleLeave(a.Identity)
	case actionKick:
		e.handleKick(a.Identity, a.Msg)
	case actionSync:
		e.handleSync(a.Identity)
	case actionBuzz:
		e.handleBuzz(a.Identity, a.Msg)
	case actionAnswer:
		e.handleAnswer(a.Identity, a.Msg)
	case actionPause:
		e.handlePause(a.Identity)
	case actionResume:
		e.handleResume(a.Identity)
	case actionSkip:
		e.handleSkip(a.Identity)
	case actionAdvance:
		e.handleAdvance(a.Identity)
	case actionStart:
		err := e.handleStartGame(a.startConfigs)
		if a.reply != nil {
			a.reply <- err
		}
	case actionSongFire:
		e.handleSongTimeout(a.epoch)
	case actionAnsFire:
		e.handleAnswerTimeout(a.epoch)
	default:
		e.logf("ENGINE: unknown action kind %s", a.Kind)
		e.emitError(a.Identity.PlayerID, apperrors.Transport("unknown message type: "+string(a.Kind)))
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.cfg.Logf != nil {
		e.cfg.Logf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// --- inbound API used by the Hub ---

// Submit enqueues a decoded wire message from identity's socket.
func (e *Engine) Submit(identity transport.Identity, msg transport.Message) {
	e.enqueue(action{Kind: actionKind(msg.Type), Identity: identity, Msg: msg})
}

// AttachSocket notifies the Engine that a new or reconnecting socket is now
// bound to the room.
func (e *Engine) AttachSocket(identity transport.Identity) {
	e.enqueue(action{Kind: actionAttach, Identity: identity})
}

// DetachSocket notifies the Engine that identity's socket has gone away.
func (e *Engine) DetachSocket(identity transport.Identity) {
	e.enqueue(action{Kind: actionDetach, Identity: identity})
}

// StartGame materialises the session and its rounds from configs and begins
// play. It is invoked by the HTTP "game start" collaborator (§6.2), not the
// message channel, but is serialised through the same inbox.
func (e *Engine) StartGame(ctx context.Context, configs []model.RoundConfig) error {
	reply := make(chan error, 1)
	e.enqueue(action{Kind: actionStart, startConfigs: configs, reply: reply})
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) enqueue(a action) {
	select {
	case e.inbox <- a:
	case <-e.quit:
	}
}

func (e *Engine) emit(ev Event) {
	select {
	case e.out <- ev:
	case <-e.quit:
	}
}

func (e *Engine) emitError(playerID string, err *apperrors.Error) {
	audience := MasterOnly()
	if playerID != "" {
		audience = OnlyPlayer(playerID)
	}
	e.emit(Event{
		Type:     "error",
		Audience: audience,
		Payload:  ErrorPayload{Code: err.Code(), Message: err.Message},
	})
}
