package modes

import (
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/paramresolver"
)

// TextInputMode lets every player submit free-text title/artist guesses at
// any time, with no buzz and no lockout (spec §4.4 text-input, S4).
type TextInputMode struct{ base }

func NewTextInput() *TextInputMode { return &TextInputMode{} }

func (m *TextInputMode) Name() string { return TextInput }

func (m *TextInputMode) StartSong(rs *model.RoundSong, songPool []*model.Song, mediaType string) error {
	return nil
}

// CanBuzz/HandleBuzz: text-input has no buzz phase.
func (m *TextInputMode) CanBuzz(playerID string, rs *model.RoundSong) bool { return false }

func (m *TextInputMode) HandleBuzz(playerID string, rs *model.RoundSong, clientTS int64) bool {
	return false
}

func (m *TextInputMode) GetBuzzPayload(rs *model.RoundSong) *BuzzPayload { return nil }

func (m *TextInputMode) ValidateAnswer(submitted, correct string, rs *model.RoundSong) bool {
	return fuzzyMatch(submitted, correct, rs.Params)
}

// HandleAnswer awards pointsTitle/pointsArtist per correct submission; an
// empty string always fails even against an empty correct value (spec §8).
func (m *TextInputMode) HandleAnswer(answer *model.Answer, rs *model.RoundSong) AnswerResult {
	var correctValue string
	var points int
	if answer.Type == model.AnswerTitle {
		correctValue = rs.Song.Title
		points = paramresolver.PointsTitle(rs.Params)
	} else {
		correctValue = rs.Song.Artist
		points = paramresolver.PointsArtist(rs.Params)
	}

	if m.ValidateAnswer(answer.Value, correctValue, rs) {
		return AnswerResult{IsCorrect: true, PointsAwarded: points}
	}
	return AnswerResult{IsCorrect: false, PointsAwarded: 0}
}

// ShouldEndSong: text-input songs only end on timer expiry or master skip,
// both of which the Engine drives directly by forcing rs.Status.
func (m *TextInputMode) ShouldEndSong(rs *model.RoundSong, activePlayerCount int) bool {
	return rs.Status == model.SongFinished
}

func (m *TextInputMode) ShouldPauseOnBuzz() bool        { return false }
func (m *TextInputMode) RequiresManualValidation() bool { return false }
