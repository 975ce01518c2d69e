package modes

import (
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/paramresolver"
)

// FastBuzzMode is the master-validated mode: the master verbally judges the
// buzzer's spoken answer and reports "correct"/"wrong" (spec §4.4).
type FastBuzzMode struct{ base }

func NewFastBuzz() *FastBuzzMode { return &FastBuzzMode{} }

func (m *FastBuzzMode) Name() string { return FastBuzz }

func (m *FastBuzzMode) StartSong(rs *model.RoundSong, songPool []*model.Song, mediaType string) error {
	return nil
}

func (m *FastBuzzMode) GetBuzzPayload(rs *model.RoundSong) *BuzzPayload {
	return &BuzzPayload{}
}

// HandleAnswer treats value == "correct" as success (+pointsTitle);
// otherwise locks out the player and, if penaltyEnabled, applies
// -penaltyAmount (spec §4.4 fast-buzz truth table; S2, S5).
func (m *FastBuzzMode) HandleAnswer(answer *model.Answer, rs *model.RoundSong) AnswerResult {
	params := rs.Params
	if answer.Value == "correct" {
		return AnswerResult{
			IsCorrect:     true,
			PointsAwarded: paramresolver.PointsTitle(params),
		}
	}

	result := AnswerResult{
		IsCorrect:     false,
		PointsAwarded: 0,
		LockOutPlayer: true,
	}
	if paramresolver.PenaltyEnabled(params) {
		result.PointsAwarded = -paramresolver.PenaltyAmount(params)
	}
	return result
}

func (m *FastBuzzMode) ValidateAnswer(submitted, correct string, rs *model.RoundSong) bool {
	return submitted == "correct"
}

// ShouldEndSong returns true on a correct answer or once every connected
// player is locked out (spec §4.4, S5).
func (m *FastBuzzMode) ShouldEndSong(rs *model.RoundSong, activePlayerCount int) bool {
	if rs.Status == model.SongFinished {
		return true
	}
	if len(rs.Answers) > 0 && rs.Answers[len(rs.Answers)-1].IsCorrect {
		return true
	}
	return len(rs.LockedOutPlayerIDs) >= activePlayerCount
}

func (m *FastBuzzMode) ShouldPauseOnBuzz() bool        { return true }
func (m *FastBuzzMode) RequiresManualValidation() bool { return true }
