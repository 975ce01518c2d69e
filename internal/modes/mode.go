// Package modes implements the Mode Registry and the four concrete gameplay
// rule handlers (spec §4.4). A Mode owns the rules for buzzing, answer
// validation, scoring, and song-end detection; the Game Engine drives state
// transitions and calls into the Mode at each decision point.
package modes

import "github.com/adrienmarquer/blindtest/internal/model"

// AnswerResult is the outcome of evaluating one submitted Answer (glossary).
type AnswerResult struct {
	IsCorrect               bool
	PointsAwarded           int
	Message                 string
	ShouldShowTitleChoices  bool
	ShouldShowArtistChoices bool
	LockOutPlayer           bool
}

// BuzzPayload is the extra data a Mode wants delivered to the buzzer only,
// as part of player:buzzed (spec §4.3.3). An empty payload means "nothing
// extra to send"; a nil payload rejects the buzz (see GetBuzzPayload).
type BuzzPayload struct {
	ArtistChoices []string
	TitleChoices  []string
}

// Mode is the contract every gameplay rule variant implements (spec §4.4).
type Mode interface {
	Name() string

	// DefaultParams is this mode's baseline ModeParams, the middle layer of
	// the Parameter Resolver's overlay (spec §4.8).
	DefaultParams() model.ModeParams

	// StartRound initialises per-round state. Most modes need nothing here;
	// it exists for modes that precompute round-scoped material.
	StartRound(round *model.Round) error

	// StartSong initialises per-song state on rs, including building
	// TitleQuestion/ArtistQuestion via the Answer Generator when the mode
	// needs multiple choice. songPool is the set of other songs in the
	// round's pool, used for distractor generation.
	StartSong(rs *model.RoundSong, songPool []*model.Song, mediaType string) error

	// CanBuzz reports whether playerID may buzz on rs right now, including
	// the lockout and song-status checks; the Engine relies on it for them.
	CanBuzz(playerID string, rs *model.RoundSong) bool

	// HandleBuzz is the default race-resolving buzz handler (spec §4.3.3).
	// Modes without buzzing (text-input) return false always.
	HandleBuzz(playerID string, rs *model.RoundSong, clientTS int64) bool

	// GetBuzzPayload returns the extra per-buzzer payload, or nil to reject
	// the buzz entirely (spec §4.4).
	GetBuzzPayload(rs *model.RoundSong) *BuzzPayload

	// HandleAnswer is pure rule evaluation; side effects on rs are limited
	// to bookkeeping (status, lockout), never score mutation — the Engine
	// applies the returned AnswerResult to the Player record.
	HandleAnswer(answer *model.Answer, rs *model.RoundSong) AnswerResult

	// ValidateAnswer is the string-comparison rule: case-insensitive exact
	// match for choice modes, Levenshtein-bounded match for text input.
	ValidateAnswer(submitted, correct string, rs *model.RoundSong) bool

	// ShouldEndSong decides whether rs is done after the latest event.
	ShouldEndSong(rs *model.RoundSong, activePlayerCount int) bool

	// ShouldPauseOnBuzz reports whether accepting a buzz pauses the song
	// timer.
	ShouldPauseOnBuzz() bool

	// RequiresManualValidation reports whether answers are master-validated
	// rather than server-validated (spec §4.3.4).
	RequiresManualValidation() bool
}
