package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/paramresolver"
	"github.com/adrienmarquer/blindtest/internal/score"
	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

// handleStartGame is the `lobby -> playing` transition (spec §4.3.1). It is
// reached through the inbox like any other action, but unlike gameplay
// messages it must read the song pool before the first song:started can be
// emitted, so — uniquely for this one setup action — it performs
// synchronous repository calls rather than the fire-and-forget pattern
// used elsewhere; this runs once per game, not on the gameplay hot path.
func (e *Engine) handleStartGame(configs []model.RoundConfig) error {
	if e.room.Status != model.RoomLobby {
		return apperrors.State("room is not in lobby")
	}
	if e.connectedPlayerCount() < 2 {
		return apperrors.State("at least 2 connected players are required to start")
	}
	if len(configs) == 0 {
		return apperrors.Validation("at least one round configuration is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rounds := make([]*model.Round, 0, len(configs))
	for i, cfg := range configs {
		if _, ok := e.cfg.Modes.Get(cfg.ModeType); !ok {
			return apperrors.Validation("unknown mode type: " + cfg.ModeType)
		}
		if _, ok := e.cfg.Media.Get(cfg.MediaType); !ok {
			return apperrors.Validation("unknown media type: " + cfg.MediaType)
		}

		songs, err := e.resolveSongPool(ctx, cfg)
		if err != nil {
			return err
		}
		if len(songs) == 0 {
			return apperrors.Validation("round has no songs available")
		}

		mode, _ := e.cfg.Modes.Get(cfg.ModeType)
		effectiveParams := paramresolver.Resolve(e.cfg.SystemDefaults, mode.DefaultParams(), cfg.Params)

		round := &model.Round{
			ID:          uuid.NewString(),
			SessionID:   "", // filled in once the Session id is known, below
			Index:       i,
			ModeType:    cfg.ModeType,
			MediaType:   cfg.MediaType,
			Params:      cfg.Params,
			SongFilters: cfg.SongFilters,
			Status:      model.RoundPending,
		}
		for j, song := range songs {
			round.Songs = append(round.Songs, model.NewRoundSong(j, song, effectiveParams))
		}
		if err := mode.StartRound(round); err != nil {
			return apperrors.Internal(err)
		}
		rounds = append(rounds, round)
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		RoomID:    e.room.ID,
		Status:    model.SessionPlaying,
		StartedAt: time.Now(),
	}
	for _, r := range rounds {
		r.SessionID = session.ID
	}

	for _, p := range e.players {
		p.Score = 0
		p.RoundScore = 0
	}

	e.session = session
	e.rounds = rounds
	e.room.Status = model.RoomPlaying

	if err := e.cfg.Repos.Sessions.Create(ctx, session); err != nil {
		e.logf("STORE: session create failed: %v", err)
	}
	playingStatus := model.RoomPlaying
	if err := e.cfg.Repos.Rooms.Update(ctx, e.room.ID, store.RoomPatch{Status: &playingStatus}); err != nil {
		e.logf("STORE: room status update failed: %v", err)
	}
	if err := e.cfg.Repos.Players.ResetScores(ctx, e.room.ID); err != nil {
		e.logf("STORE: reset scores failed: %v", err)
	}

	e.emit(Event{
		Type:     "game:started",
		Audience: All(),
		Payload: GameStartedPayload{
			Session: sessionSnapshot(session),
			Room:    e.roomSnapshot(),
		},
	})

	e.startRound(0)
	return nil
}

func sessionSnapshot(s *model.Session) SessionSnapshot {
	return SessionSnapshot{
		ID:                s.ID,
		Status:            string(s.Status),
		CurrentRoundIndex: s.CurrentRoundIndex,
	}
}

// resolveSongPool materialises the set of songs for a round: either the
// explicit SongIDs list, or a filtered draw from the library (spec §6.3
// Songs.findByFilters).
func (e *Engine) resolveSongPool(ctx context.Context, cfg model.RoundConfig) ([]*model.Song, error) {
	if len(cfg.SongIDs) > 0 {
		songs, err := e.cfg.Repos.Songs.FindByIDs(ctx, cfg.SongIDs)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		return songs, nil
	}

	q := store.SongFilterQuery{}
	if cfg.SongFilters != nil {
		q = store.SongFilterQuery{
			Genre:        cfg.SongFilters.Genre,
			YearMin:      cfg.SongFilters.YearMin,
			YearMax:      cfg.SongFilters.YearMax,
			ArtistName:   cfg.SongFilters.ArtistName,
			SongCount:    cfg.SongFilters.SongCount,
			IncludeNiche: cfg.SongFilters.IncludeNiche,
		}
	}
	songs, err := e.cfg.Repos.Songs.FindByFilters(ctx, q)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return songs, nil
}

// startRound begins round index idx: sets it active and starts its first
// song (spec §4.3.1, §4.3.2).
func (e *Engine) startRound(idx int) {
	round := e.rounds[idx]
	round.Status = model.RoundActive
	e.session.CurrentRoundIndex = idx
	e.session.CurrentSongIndex = 0

	e.emit(Event{
		Type:     "round:started",
		Audience: All(),
		Payload: RoundStartedPayload{
			RoundIndex: round.Index,
			ModeType:   round.ModeType,
			MediaType:  round.MediaType,
			SongCount:  len(round.Songs),
		},
	})

	e.startSong(round, 0)
}

// handlePause is the master-only `game:pause` action (spec §6.1).
func (e *Engine) handlePause(id transport.Identity) {
	if !id.IsMaster {
		e.emitError(id.PlayerID, apperrors.Auth("only the master may pause the game"))
		return
	}
	if e.session == nil || e.session.Status != model.SessionPlaying {
		e.emitError(id.PlayerID, apperrors.State("game is not playing"))
		return
	}
	e.session.Status = model.SessionPaused
	e.pauseSongTimer()
	e.pauseAnswerTimer()
	e.emit(Event{Type: "game:paused", Audience: All(), Payload: SimplePayload{}})
}

// handleResume is the master-only `game:resume` action; it re-arms
// whichever timer was paused with its preserved remaining duration (spec §8:
// pause/resume preserves remaining song time).
func (e *Engine) handleResume(id transport.Identity) {
	if !id.IsMaster {
		e.emitError(id.PlayerID, apperrors.Auth("only the master may resume the game"))
		return
	}
	if e.session == nil || e.session.Status != model.SessionPaused {
		e.emitError(id.PlayerID, apperrors.State("game is not paused"))
		return
	}
	e.session.Status = model.SessionPlaying
	e.resumeSongTimer()
	e.resumeAnswerTimer()
	e.emit(Event{Type: "game:resumed", Audience: All(), Payload: SimplePayload{}})
}

// handleSkip is the master-only `game:skip` action: forces the current song
// to finished (spec §4.3.2 "master skip").
func (e *Engine) handleSkip(id transport.Identity) {
	if !id.IsMaster {
		e.emitError(id.PlayerID, apperrors.Auth("only the master may skip"))
		return
	}
	rs := e.currentRoundSong()
	if rs == nil {
		e.emitError(id.PlayerID, apperrors.State("no song is currently active"))
		return
	}
	e.emit(Event{Type: "game:skipped", Audience: All(), Payload: SimplePayload{}})
	e.endSong(rs)
}

// endRound ranks the just-finished round and either ends the session or
// moves the room to between_rounds, queuing the next round until the master
// sends game:advance (spec §4.3.6).
func (e *Engine) endRound(round *model.Round) {
	round.Status = model.RoundFinished

	entries := make([]score.Entry, 0, len(e.players))
	for _, p := range e.players {
		if p.Role != model.RolePlayer {
			continue
		}
		entries = append(entries, score.Entry{PlayerID: p.ID, Score: p.RoundScore})
	}
	ranked := score.Rank(entries)

	scores := make([]PlayerRoundScore, 0, len(ranked))
	for _, r := range ranked {
		p := e.players[r.PlayerID]
		scores = append(scores, PlayerRoundScore{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      r.Score,
			Rank:       r.Rank,
		})
	}

	e.emit(Event{
		Type:     "round:ended",
		Audience: All(),
		Payload:  RoundEndedPayload{RoundIndex: round.Index, Scores: scores},
	})

	nextIdx := round.Index + 1
	if nextIdx >= len(e.rounds) {
		e.endSession()
		return
	}

	for _, p := range e.players {
		p.RoundScore = 0
	}

	e.room.Status = model.RoomBetweenRounds
	e.pendingRoundIdx = nextIdx
	next := e.rounds[nextIdx]
	e.emit(Event{
		Type:     "round:between",
		Audience: All(),
		Payload: RoundBetweenPayload{
			CompletedRoundIndex: round.Index,
			NextRoundIndex:      next.Index,
			NextRoundMode:       next.ModeType,
			NextRoundMedia:      next.MediaType,
			Scores:              scores,
		},
	})
}

// handleAdvance is the master-only `game:advance` action that resumes play
// out of between_rounds into the round queued by endRound (spec §4.3.1:
// "between_rounds -> playing (master advances / auto-advance timer)").
func (e *Engine) handleAdvance(id transport.Identity) {
	if !id.IsMaster {
		e.emitError(id.PlayerID, apperrors.Auth("only the master may advance to the next round"))
		return
	}
	if e.room.Status != model.RoomBetweenRounds || e.pendingRoundIdx < 0 {
		e.emitError(id.PlayerID, apperrors.State("no round is waiting to advance"))
		return
	}
	idx := e.pendingRoundIdx
	e.pendingRoundIdx = -1
	e.room.Status = model.RoomPlaying
	e.startRound(idx)
}

func (e *Engine) endSession() {
	e.session.Status = model.SessionFinished
	now := time.Now()
	e.session.EndedAt = &now
	e.room.Status = model.RoomFinished

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.cfg.Repos.Sessions.EndSession(ctx, e.session.ID); err != nil {
			e.logf("STORE: end session failed: %v", err)
		}
		finished := model.RoomFinished
		if err := e.cfg.Repos.Rooms.Update(ctx, e.room.ID, store.RoomPatch{Status: &finished}); err != nil {
			e.logf("STORE: room finish update failed: %v", err)
		}
	}()

	entries := make([]score.Entry, 0, len(e.players))
	for _, p := range e.players {
		if p.Role != model.RolePlayer {
			continue
		}
		entries = append(entries, score.Entry{PlayerID: p.ID, Score: p.Score})
	}
	ranked := score.Rank(entries)

	finals := make([]PlayerFinalScore, 0, len(ranked))
	for _, r := range ranked {
		p := e.players[r.PlayerID]
		finals = append(finals, PlayerFinalScore{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			TotalScore: r.Score,
			Rank:       r.Rank,
		})
	}

	e.emit(Event{
		Type:     "game:ended",
		Audience: All(),
		Payload:  GameEndedPayload{FinalScores: finals},
	})

	e.cancelAllSongTimers()
}

func (e *Engine) currentRoundSong() *model.RoundSong {
	if e.session == nil || len(e.rounds) == 0 {
		return nil
	}
	idx := e.session.CurrentRoundIndex
	if idx < 0 || idx >= len(e.rounds) {
		return nil
	}
	round := e.rounds[idx]
	si := e.session.CurrentSongIndex
	if si < 0 || si >= len(round.Songs) {
		return nil
	}
	return round.Songs[si]
}

func (e *Engine) currentRound() *model.Round {
	if e.session == nil || len(e.rounds) == 0 {
		return nil
	}
	idx := e.session.CurrentRoundIndex
	if idx < 0 || idx >= len(e.rounds) {
		return nil
	}
	return e.rounds[idx]
}
