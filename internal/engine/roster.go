package engine

import (
	"context"
	"strings"
	"time"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

func playerConnectPatch(connected bool) store.PlayerPatch {
	return store.PlayerPatch{Connected: &connected}
}

// handleAttach runs whenever a socket (re)binds to the room. A known
// playerId reconnecting within grace is reported as player:reconnected; an
// unknown one just gets the current snapshot and is expected to follow up
// with player:join.
func (e *Engine) handleAttach(id transport.Identity) {
	e.emit(Event{Type: "connected", Audience: OnlyPlayer(id.PlayerID), Payload: ConnectedPayload{RoomID: e.room.ID}})

	if p, ok := e.players[id.PlayerID]; ok {
		wasConnected := p.Connected
		p.Connected = true
		e.saveRosterAsync(p)
		if !wasConnected {
			e.emit(Event{
				Type:     "player:reconnected",
				Audience: All(),
				Payload:  PlayerReconnectedPayload{PlayerID: p.ID, PlayerName: p.Name},
			})
		}
	}

	e.sendSnapshot(id.PlayerID)
}

func (e *Engine) handleDetach(id transport.Identity) {
	p, ok := e.players[id.PlayerID]
	if !ok {
		return
	}
	p.Connected = false
	e.saveRosterAsync(p)
	e.emit(Event{
		Type:     "player:disconnected",
		Audience: All(),
		Payload:  PlayerDisconnectedPayload{PlayerID: p.ID, PlayerName: p.Name},
	})
}

// handleJoin assigns identity's socket a new Player in this room (spec §6.1
// player:join). Reconnection of an already-known playerId is handled by
// handleAttach instead; a join for an id already present is rejected.
func (e *Engine) handleJoin(id transport.Identity, msg transport.Message) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := transport.Decode(msg, &payload); err != nil {
		e.emitError(id.PlayerID, apperrors.Transport("malformed player:join payload"))
		return
	}

	name := strings.TrimSpace(payload.Name)
	if len(name) < model.PlayerNameMinLen || len(name) > model.PlayerNameMaxLen ||
		strings.ContainsAny(name, "<>") {
		e.emitError(id.PlayerID, apperrors.Validation("invalid player name"))
		return
	}
	if !e.room.Mutable() {
		e.emitError(id.PlayerID, apperrors.State("room is not accepting new players"))
		return
	}
	if _, ok := e.players[id.PlayerID]; ok {
		e.emitError(id.PlayerID, apperrors.Conflict("player already joined"))
		return
	}
	for _, p := range e.players {
		if strings.EqualFold(p.Name, name) {
			e.emitError(id.PlayerID, apperrors.Conflict("player name already taken in this room"))
			return
		}
	}
	if id.IsMaster {
		for _, p := range e.players {
			if p.Role == model.RoleMaster {
				e.emitError(id.PlayerID, apperrors.Conflict("room already has a master"))
				return
			}
		}
	}

	role := model.RolePlayer
	if id.IsMaster {
		role = model.RoleMaster
	}
	player := &model.Player{
		ID:        id.PlayerID,
		RoomID:    e.room.ID,
		Name:      name,
		Role:      role,
		Connected: true,
	}
	e.players[player.ID] = player
	e.playerOrder = append(e.playerOrder, player.ID)
	e.saveRosterAsync(player)

	e.emit(Event{
		Type:     "player:joined",
		Audience: All(),
		Payload: PlayerJoinedPayload{
			Player: publicPlayer(player),
			Room:   e.roomSnapshot(),
		},
	})
}

func (e *Engine) handleLeave(id transport.Identity) {
	p, ok := e.players[id.PlayerID]
	if !ok {
		return
	}
	delete(e.players, p.ID)
	e.removeFromOrder(p.ID)

	e.emit(Event{
		Type:     "player:left",
		Audience: All(),
		Payload: PlayerLeftPayload{
			PlayerID:         p.ID,
			PlayerName:       p.Name,
			RemainingPlayers: e.connectedPlayerCount(),
		},
	})
}

// handleKick is master-only (spec §6.1 player:kick).
func (e *Engine) handleKick(id transport.Identity, msg transport.Message) {
	if !id.IsMaster {
		e.emitError(id.PlayerID, apperrors.Auth("only the master may kick players"))
		return
	}
	var payload struct {
		PlayerID string `json:"playerId"`
	}
	if err := transport.Decode(msg, &payload); err != nil {
		e.emitError(id.PlayerID, apperrors.Transport("malformed player:kick payload"))
		return
	}
	p, ok := e.players[payload.PlayerID]
	if !ok {
		e.emitError(id.PlayerID, apperrors.NotFound("player not found"))
		return
	}

	delete(e.players, p.ID)
	e.removeFromOrder(p.ID)

	e.emit(Event{
		Type:     "player:kicked",
		Audience: OnlyPlayer(p.ID),
		Payload:  PlayerKickedPayload{Reason: "kicked by master"},
	})
	e.emit(Event{
		Type:     "player:left",
		Audience: ExceptPlayer(p.ID),
		Payload: PlayerLeftPayload{
			PlayerID:         p.ID,
			PlayerName:       p.Name,
			RemainingPlayers: e.connectedPlayerCount(),
		},
	})
}

func (e *Engine) handleSync(id transport.Identity) {
	e.sendSnapshot(id.PlayerID)
}

func (e *Engine) removeFromOrder(id string) {
	for i, pid := range e.playerOrder {
		if pid == id {
			e.playerOrder = append(e.playerOrder[:i], e.playerOrder[i+1:]...)
			return
		}
	}
}

func (e *Engine) connectedPlayerCount() int {
	n := 0
	for _, p := range e.players {
		if p.Connected && p.Role == model.RolePlayer {
			n++
		}
	}
	return n
}

// saveRosterAsync persists the roster mutation via the repository contract.
// Per spec §5, storage I/O must not block the room; the call is fire-and-
// forget from a helper goroutine, logged on failure rather than retried (the
// in-memory roster stays authoritative for gameplay regardless of outcome).
func (e *Engine) saveRosterAsync(p *model.Player) {
	snapshot := *p
	repos := e.cfg.Repos
	logf := e.logf
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.Players.Create(ctx, &snapshot); err != nil {
			if !apperrors.Is(err, apperrors.KindConflict) {
				logf("STORE: player create failed for %s: %v", snapshot.ID, err)
				return
			}
			connected := snapshot.Connected
			if uerr := repos.Players.Update(ctx, snapshot.ID, playerConnectPatch(connected)); uerr != nil {
				logf("STORE: player update failed for %s: %v", snapshot.ID, uerr)
			}
		}
	}()
}

func (e *Engine) roomSnapshot() RoomSnapshot {
	return RoomSnapshot{
		ID:     e.room.ID,
		Name:   e.room.Name,
		Code:   e.room.Code,
		Status: string(e.room.Status),
	}
}

func (e *Engine) publicPlayers() []PlayerPublic {
	out := make([]PlayerPublic, 0, len(e.playerOrder))
	for _, id := range e.playerOrder {
		if p, ok := e.players[id]; ok {
			out = append(out, publicPlayer(p))
		}
	}
	return out
}

func (e *Engine) currentRoundSnapshot() *CurrentRoundSnapshot {
	if e.session == nil || len(e.rounds) == 0 {
		return nil
	}
	idx := e.session.CurrentRoundIndex
	if idx < 0 || idx >= len(e.rounds) {
		return nil
	}
	round := e.rounds[idx]
	songIdx := e.session.CurrentSongIndex
	songStatus := ""
	if songIdx >= 0 && songIdx < len(round.Songs) {
		songStatus = string(round.Songs[songIdx].Status)
	}
	return &CurrentRoundSnapshot{
		RoundIndex: round.Index,
		ModeType:   round.ModeType,
		MediaType:  round.MediaType,
		SongIndex:  songIdx,
		SongStatus: songStatus,
	}
}

func (e *Engine) sendSnapshot(playerID string) {
	e.emit(Event{
		Type:     "state:synced",
		Audience: OnlyPlayer(playerID),
		Payload: StateSyncedPayload{
			Room:         e.roomSnapshot(),
			Players:      e.publicPlayers(),
			CurrentRound: e.currentRoundSnapshot(),
		},
	})
}
