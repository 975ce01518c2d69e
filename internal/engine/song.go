package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adrienmarquer/blindtest/internal/apperrors"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/modes"
	"github.com/adrienmarquer/blindtest/internal/paramresolver"
	"github.com/adrienmarquer/blindtest/internal/store"
	"github.com/adrienmarquer/blindtest/internal/transport"
)

// startSong begins round.Songs[idx] (spec §4.3.2 "start" transition).
func (e *Engine) startSong(round *model.Round, idx int) {
	rs := round.Songs[idx]
	rs.Status = model.SongPlaying
	e.currentSongStartedAt = time.Now()

	mode, ok := e.cfg.Modes.Get(round.ModeType)
	if !ok {
		e.logf("ENGINE: unknown mode %s starting song, aborting round", round.ModeType)
		return
	}

	pool := make([]*model.Song, 0, len(round.Songs))
	for _, other := range round.Songs {
		pool = append(pool, other.Song)
	}
	if err := mode.StartSong(rs, pool, round.MediaType); err != nil {
		e.logf("ENGINE: mode.StartSong failed: %v", err)
	}
	e.loadMediaContent(round, rs)

	e.armSongTimer(time.Duration(paramresolver.SongDuration(rs.Params)) * time.Second)

	masterPayload := SongStartedPayload{
		SongIndex:     rs.Index,
		Duration:      paramresolver.SongDuration(rs.Params),
		ClipStart:     int(rs.Song.ClipStart.Seconds()),
		AudioPlayback: "all",
		SongTitle:     rs.DisplayTitle,
		SongArtist:    rs.DisplayArtist,
	}
	playerPayload := masterPayload
	playerPayload.SongTitle = ""
	playerPayload.SongArtist = ""

	e.emit(Event{Type: "song:started", Audience: MasterOnly(), Payload: masterPayload})
	e.emit(Event{Type: "song:started", Audience: PlayersOnly(), Payload: playerPayload})
}

// loadMediaContent resolves round.MediaType's Handler and normalises rs.Song
// through it (spec §4.5). A handler that refuses (or an unregistered media
// type) leaves rs's display fields at their raw Song defaults.
func (e *Engine) loadMediaContent(round *model.Round, rs *model.RoundSong) {
	handler, ok := e.cfg.Media.Get(round.MediaType)
	if !ok {
		e.logf("MEDIA: no handler registered for %s, using raw song fields", round.MediaType)
		return
	}
	content, err := handler.LoadContent(rs.Song)
	if err != nil {
		e.logf("MEDIA: LoadContent failed for song=%s type=%s: %v", rs.Song.ID, round.MediaType, err)
		return
	}
	rs.DisplayTitle = content.Title
	rs.DisplayArtist = content.Artist
}

// handleBuzz is the `player:buzz` handler (spec §4.3.3).
func (e *Engine) handleBuzz(id transport.Identity, msg transport.Message) {
	var payload struct {
		SongIndex int   `json:"songIndex"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := transport.Decode(msg, &payload); err != nil {
		e.emitError(id.PlayerID, apperrors.Transport("malformed player:buzz payload"))
		return
	}

	round := e.currentRound()
	rs := e.currentRoundSong()
	if round == nil || rs == nil || rs.Index != payload.SongIndex {
		e.emitError(id.PlayerID, apperrors.State("no matching song is currently active"))
		return
	}
	if _, ok := e.players[id.PlayerID]; !ok {
		e.emitError(id.PlayerID, apperrors.NotFound("player not found"))
		return
	}

	mode, ok := e.cfg.Modes.Get(round.ModeType)
	if !ok {
		e.emitError(id.PlayerID, apperrors.Internal(nil))
		return
	}

	if !mode.CanBuzz(id.PlayerID, rs) {
		e.emit(Event{
			Type:     "buzz:rejected",
			Audience: OnlyPlayer(id.PlayerID),
			Payload:  BuzzRejectedPayload{PlayerID: id.PlayerID, Reason: "cannot buzz right now"},
		})
		return
	}

	buzzPayload := mode.GetBuzzPayload(rs)
	if buzzPayload == nil {
		e.emit(Event{
			Type:     "buzz:rejected",
			Audience: OnlyPlayer(id.PlayerID),
			Payload:  BuzzRejectedPayload{PlayerID: id.PlayerID, Reason: "buzzing is not available for this song"},
		})
		return
	}

	accepted := mode.HandleBuzz(id.PlayerID, rs, payload.Timestamp)
	if !accepted {
		e.emit(Event{
			Type:     "buzz:rejected",
			Audience: OnlyPlayer(id.PlayerID),
			Payload:  BuzzRejectedPayload{PlayerID: id.PlayerID, Reason: "an earlier buzz already won"},
		})
		return
	}

	if p, ok := e.players[id.PlayerID]; ok {
		p.Stats.BuzzesWon++
		p.IsActive = true
	}

	if mode.ShouldPauseOnBuzz() {
		e.pauseSongTimer()
	}
	e.armAnswerTimer(time.Duration(paramresolver.AnswerTimer(rs.Params)) * time.Second)

	var artistQ *Question
	if len(buzzPayload.ArtistChoices) > 0 {
		artistQ = &Question{Choices: buzzPayload.ArtistChoices}
	}

	base := PlayerBuzzedPayload{
		PlayerID:   id.PlayerID,
		PlayerName: playerName(e.players, id.PlayerID),
		SongIndex:  rs.Index,
		Timestamp:  payload.Timestamp,
	}
	e.emit(Event{Type: "player:buzzed", Audience: ExceptPlayer(id.PlayerID), Payload: base})

	withQuestion := base
	withQuestion.ArtistQuestion = artistQ
	e.emit(Event{Type: "player:buzzed", Audience: OnlyPlayer(id.PlayerID), Payload: withQuestion})
}

// handleAnswer is the `player:answer` handler (spec §4.3.4), covering both
// server-validated (choice/text) and master-validated (fast-buzz) modes.
func (e *Engine) handleAnswer(id transport.Identity, msg transport.Message) {
	var payload struct {
		SongIndex int    `json:"songIndex"`
		Type      string `json:"type"`
		Value     string `json:"value"`
	}
	if err := transport.Decode(msg, &payload); err != nil {
		e.emitError(id.PlayerID, apperrors.Transport("malformed player:answer payload"))
		return
	}

	round := e.currentRound()
	rs := e.currentRoundSong()
	if round == nil || rs == nil || rs.Index != payload.SongIndex {
		e.emitError(id.PlayerID, apperrors.State("no matching song is currently active"))
		return
	}
	answerType := model.AnswerType(payload.Type)
	if answerType != model.AnswerTitle && answerType != model.AnswerArtist {
		e.emitError(id.PlayerID, apperrors.Validation("answer type must be title or artist"))
		return
	}

	mode, ok := e.cfg.Modes.Get(round.ModeType)
	if !ok {
		e.emitError(id.PlayerID, apperrors.Internal(nil))
		return
	}

	effectivePlayerID, err := e.resolveAnswerSender(id, mode, rs)
	if err != nil {
		e.emitError(id.PlayerID, err)
		return
	}

	if e.hasAnswered(rs, effectivePlayerID, answerType) {
		e.emitError(id.PlayerID, apperrors.Conflict("already answered this question type for this song"))
		return
	}

	answer := &model.Answer{
		ID:             uuid.NewString(),
		PlayerID:       effectivePlayerID,
		RoundID:        round.ID,
		SongID:         rs.Song.ID,
		Type:           answerType,
		Value:          payload.Value,
		SubmittedAt:    time.Now().UnixMilli(),
		TimeToAnswerMS: time.Since(e.currentSongStartedAt).Milliseconds(),
	}

	e.applyAnswer(round, mode, rs, answer)
}

// resolveAnswerSender applies spec §4.3.4's sender rules: the master
// validates on behalf of the active player for manual-validation modes;
// buzz-exclusive modes require the sender to hold the active buzz; text
// input (no active player ever set) accepts any player in the roster.
func (e *Engine) resolveAnswerSender(id transport.Identity, mode modes.Mode, rs *model.RoundSong) (string, *apperrors.Error) {
	if mode.RequiresManualValidation() {
		if !id.IsMaster {
			return "", apperrors.Auth("only the master may validate answers in this mode")
		}
		if rs.ActivePlayerID == "" {
			return "", apperrors.State("no player is currently buzzed in")
		}
		return rs.ActivePlayerID, nil
	}
	if rs.ActivePlayerID != "" {
		if id.PlayerID != rs.ActivePlayerID {
			return "", apperrors.State("it is not your turn to answer")
		}
		return id.PlayerID, nil
	}
	if _, ok := e.players[id.PlayerID]; !ok {
		return "", apperrors.NotFound("player not found")
	}
	return id.PlayerID, nil
}

func (e *Engine) hasAnswered(rs *model.RoundSong, playerID string, t model.AnswerType) bool {
	types := rs.AnsweredTypes[playerID]
	return types != nil && types[t]
}

func (e *Engine) markAnswered(rs *model.RoundSong, playerID string, t model.AnswerType) {
	if rs.AnsweredTypes[playerID] == nil {
		rs.AnsweredTypes[playerID] = make(map[model.AnswerType]bool)
	}
	rs.AnsweredTypes[playerID][t] = true
}

// applyAnswer runs the Mode's pure rule evaluation and applies its result to
// the room's state: score, lockout, recorded answer, and follow-up prompts
// (spec §4.3.4).
func (e *Engine) applyAnswer(round *model.Round, mode modes.Mode, rs *model.RoundSong, answer *model.Answer) {
	result := mode.HandleAnswer(answer, rs)
	answer.IsCorrect = result.IsCorrect
	answer.PointsAwarded = result.PointsAwarded
	rs.Answers = append(rs.Answers, answer)
	e.markAnswered(rs, answer.PlayerID, answer.Type)

	if result.LockOutPlayer {
		rs.LockedOutPlayerIDs[answer.PlayerID] = true
	}

	if p, ok := e.players[answer.PlayerID]; ok {
		p.Score += result.PointsAwarded
		p.RoundScore += result.PointsAwarded
		if result.IsCorrect {
			p.Stats.AnswersCorrect++
		} else {
			p.Stats.AnswersWrong++
		}
		e.savePlayerScoreAsync(p)
	}

	e.emit(Event{
		Type:     "answer:result",
		Audience: All(),
		Payload: AnswerResultPayload{
			PlayerID:      answer.PlayerID,
			PlayerName:    playerName(e.players, answer.PlayerID),
			AnswerType:    string(answer.Type),
			IsCorrect:     result.IsCorrect,
			PointsAwarded: result.PointsAwarded,
		},
	})

	if result.ShouldShowArtistChoices && rs.ArtistQuestion != nil {
		e.emit(Event{
			Type:     "choices:artist",
			Audience: OnlyPlayer(answer.PlayerID),
			Payload:  ChoicesPayload{PlayerID: answer.PlayerID, Choices: rs.ArtistQuestion.Choices},
		})
	}
	if result.ShouldShowTitleChoices && rs.TitleQuestion != nil {
		e.emit(Event{
			Type:     "choices:title",
			Audience: OnlyPlayer(answer.PlayerID),
			Payload:  ChoicesPayload{PlayerID: answer.PlayerID, Choices: rs.TitleQuestion.Choices},
		})
	}

	if mode.ShouldEndSong(rs, e.connectedPlayerCount()) {
		e.endSong(rs)
		return
	}

	if result.LockOutPlayer {
		rs.ActivePlayerID = ""
		if p, ok := e.players[answer.PlayerID]; ok {
			p.IsActive = false
		}
		if paramresolver.AllowRebuzz(rs.Params) {
			rs.Status = model.SongPlaying
			e.cancelAnswerTimer()
			e.resumeSongTimer()
		} else {
			e.endSong(rs)
		}
	}
}

// endSong forces rs to finished and advances to the next song or round (spec
// §4.3.2 terminal transition, §4.3.6 round end).
func (e *Engine) endSong(rs *model.RoundSong) {
	if rs.Status == model.SongFinished {
		return
	}
	rs.Status = model.SongFinished
	rs.ActivePlayerID = ""
	e.cancelAllSongTimers()

	e.emit(Event{
		Type:     "song:ended",
		Audience: All(),
		Payload: SongEndedPayload{
			SongIndex:     rs.Index,
			CorrectTitle:  rs.DisplayTitle,
			CorrectArtist: rs.DisplayArtist,
		},
	})

	round := e.currentRound()
	nextIdx := rs.Index + 1
	if nextIdx < len(round.Songs) {
		e.session.CurrentSongIndex = nextIdx
		e.startSong(round, nextIdx)
		return
	}
	e.endRound(round)
}

// handleSongTimeout fires when the song deadline elapses without resolution
// (spec §4.3.5). A stale epoch (already superseded by a pause/resume or a
// new song) is ignored.
func (e *Engine) handleSongTimeout(epoch int) {
	if epoch != e.timing.songEpoch {
		return
	}
	rs := e.currentRoundSong()
	if rs == nil || rs.Status == model.SongFinished {
		return
	}
	e.endSong(rs)
}

// handleAnswerTimeout fires when the active player fails to answer in time;
// it is treated as a wrong answer from that player (spec §4.3.5).
func (e *Engine) handleAnswerTimeout(epoch int) {
	if epoch != e.timing.answerEpoch {
		return
	}
	round := e.currentRound()
	rs := e.currentRoundSong()
	if round == nil || rs == nil || rs.Status != model.SongAnswering {
		return
	}
	pid := rs.ActivePlayerID
	if pid == "" {
		return
	}
	mode, ok := e.cfg.Modes.Get(round.ModeType)
	if !ok {
		return
	}

	answerType := model.AnswerTitle
	if answered := rs.AnsweredTypes[pid]; answered != nil && !answered[model.AnswerArtist] {
		answerType = model.AnswerArtist
	}
	if e.hasAnswered(rs, pid, answerType) {
		return
	}

	answer := &model.Answer{
		ID:             uuid.NewString(),
		PlayerID:       pid,
		RoundID:        round.ID,
		SongID:         rs.Song.ID,
		Type:           answerType,
		Value:          "",
		SubmittedAt:    time.Now().UnixMilli(),
		TimeToAnswerMS: time.Since(e.currentSongStartedAt).Milliseconds(),
	}
	e.applyAnswer(round, mode, rs, answer)
}

func (e *Engine) savePlayerScoreAsync(p *model.Player) {
	score, roundScore, locked := p.Score, p.RoundScore, p.IsLockedOut
	id := p.ID
	repos := e.cfg.Repos
	logf := e.logf
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		patch := store.PlayerPatch{Score: &score, RoundScore: &roundScore, IsLockedOut: &locked}
		if err := repos.Players.Update(ctx, id, patch); err != nil {
			logf("STORE: player score update failed for %s: %v", id, err)
		}
	}()
}

func playerName(players map[string]*model.Player, id string) string {
	if p, ok := players[id]; ok {
		return p.Name
	}
	return ""
}
