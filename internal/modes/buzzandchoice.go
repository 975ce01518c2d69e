package modes

import (
	"github.com/adrienmarquer/blindtest/internal/answergen"
	"github.com/adrienmarquer/blindtest/internal/model"
	"github.com/adrienmarquer/blindtest/internal/paramresolver"
)

// BuzzAndChoiceMode runs two sequential multiple-choice questions per buzz:
// artist first, title second (spec §4.4 buzz-and-choice truth table).
type BuzzAndChoiceMode struct{ base }

func NewBuzzAndChoice() *BuzzAndChoiceMode { return &BuzzAndChoiceMode{} }

func (m *BuzzAndChoiceMode) Name() string { return BuzzAndChoice }

func (m *BuzzAndChoiceMode) StartSong(rs *model.RoundSong, songPool []*model.Song, mediaType string) error {
	count := paramresolver.NumChoices(rs.Params)
	artistQ := answergen.Generate(rs.Song, songPool, count, answergen.KindArtist)
	titleQ := answergen.Generate(rs.Song, songPool, count, answergen.KindTitle)
	rs.ArtistQuestion = &model.Question{Correct: artistQ.Correct, Choices: artistQ.Choices}
	rs.TitleQuestion = &model.Question{Correct: titleQ.Correct, Choices: titleQ.Choices}
	return nil
}

func (m *BuzzAndChoiceMode) GetBuzzPayload(rs *model.RoundSong) *BuzzPayload {
	if rs.ArtistQuestion == nil {
		return nil
	}
	return &BuzzPayload{ArtistChoices: rs.ArtistQuestion.Choices}
}

func (m *BuzzAndChoiceMode) ValidateAnswer(submitted, correct string, rs *model.RoundSong) bool {
	return exactMatch(submitted, correct)
}

// artistAnswerFor finds the player's already-recorded artist answer for
// this song, if any.
func artistAnswerFor(playerID string, rs *model.RoundSong) (*model.Answer, bool) {
	for _, a := range rs.Answers {
		if a.PlayerID == playerID && a.Type == model.AnswerArtist {
			return a, true
		}
	}
	return nil, false
}

// HandleAnswer implements the buzz-and-choice truth table (spec §4.4, S3):
//
//	artist   title    points                    lockout
//	correct  correct  pointsArtist + pointsTitle no
//	correct  wrong    pointsArtist (already awd) yes
//	wrong    correct  0                          yes
//	wrong    wrong    optional penalty           yes
func (m *BuzzAndChoiceMode) HandleAnswer(answer *model.Answer, rs *model.RoundSong) AnswerResult {
	params := rs.Params

	if answer.Type == model.AnswerArtist {
		correct := rs.ArtistQuestion != nil && m.ValidateAnswer(answer.Value, rs.ArtistQuestion.Correct, rs)
		result := AnswerResult{
			IsCorrect:              correct,
			ShouldShowTitleChoices: true,
		}
		if correct {
			result.PointsAwarded = paramresolver.PointsArtist(params)
		}
		return result
	}

	// Title answer: artist must have already been attempted.
	titleCorrect := rs.TitleQuestion != nil && m.ValidateAnswer(answer.Value, rs.TitleQuestion.Correct, rs)
	artistCorrect := false
	if prev, ok := artistAnswerFor(answer.PlayerID, rs); ok {
		artistCorrect = prev.IsCorrect
	}

	switch {
	case artistCorrect && titleCorrect:
		return AnswerResult{
			IsCorrect:     true,
			PointsAwarded: paramresolver.PointsTitle(params),
			LockOutPlayer: false,
		}
	case artistCorrect && !titleCorrect:
		return AnswerResult{
			IsCorrect:     false,
			PointsAwarded: 0,
			LockOutPlayer: true,
		}
	case !artistCorrect && titleCorrect:
		return AnswerResult{
			IsCorrect:     true,
			PointsAwarded: 0,
			LockOutPlayer: true,
		}
	default:
		points := 0
		if paramresolver.PenaltyEnabled(params) {
			points = -paramresolver.PenaltyAmount(params)
		}
		return AnswerResult{
			IsCorrect:     false,
			PointsAwarded: points,
			LockOutPlayer: true,
		}
	}
}

// ShouldEndSong ends the song once the active player has answered both
// question types (spec §4.4), on top of the base lockout/finished checks.
func (m *BuzzAndChoiceMode) ShouldEndSong(rs *model.RoundSong, activePlayerCount int) bool {
	if rs.Status == model.SongFinished {
		return true
	}
	if len(rs.LockedOutPlayerIDs) >= activePlayerCount {
		return true
	}
	if rs.ActivePlayerID == "" {
		return false
	}
	answered := rs.AnsweredTypes[rs.ActivePlayerID]
	return answered[model.AnswerArtist] && answered[model.AnswerTitle]
}

func (m *BuzzAndChoiceMode) ShouldPauseOnBuzz() bool        { return true }
func (m *BuzzAndChoiceMode) RequiresManualValidation() bool { return false }
