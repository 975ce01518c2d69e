package modes

import (
	"testing"

	"github.com/adrienmarquer/blindtest/internal/model"
)

func paramsForChoice(artist, title, penalty int, penaltyEnabled bool) model.ModeParams {
	a, t, p, e := artist, title, penalty, penaltyEnabled
	return model.ModeParams{PointsArtist: &a, PointsTitle: &t, PenaltyAmount: &p, PenaltyEnabled: &e}
}

func TestBuzzAndChoiceHandleAnswerArtistCorrect(t *testing.T) {
	m := NewBuzzAndChoice()
	rs := newPlayingSong()
	rs.Params = paramsForChoice(1, 2, 0, false)
	rs.ArtistQuestion = &model.Question{Correct: "Queen"}

	result := m.HandleAnswer(&model.Answer{Type: model.AnswerArtist, Value: "queen"}, rs)

	if !result.IsCorrect || result.PointsAwarded != 1 || !result.ShouldShowTitleChoices {
		t.Fatalf("expected correct artist answer to award 1 point and unlock title choices, got %#v", result)
	}
}

func TestBuzzAndChoiceHandleAnswerBothCorrect(t *testing.T) {
	m := NewBuzzAndChoice()
	rs := newPlayingSong()
	rs.Params = paramsForChoice(1, 2, 0, false)
	rs.TitleQuestion = &model.Question{Correct: "Bohemian Rhapsody"}
	rs.Answers = append(rs.Answers, &model.Answer{PlayerID: "alice", Type: model.AnswerArtist, IsCorrect: true})

	result := m.HandleAnswer(&model.Answer{PlayerID: "alice", Type: model.AnswerTitle, Value: "Bohemian Rhapsody"}, rs)

	if !result.IsCorrect || result.PointsAwarded != 2 || result.LockOutPlayer {
		t.Fatalf("expected artist+title correct to award pointsTitle with no lockout, got %#v", result)
	}
}

func TestBuzzAndChoiceHandleAnswerArtistCorrectTitleWrong(t *testing.T) {
	m := NewBuzzAndChoice()
	rs := newPlayingSong()
	rs.Params = paramsForChoice(1, 2, 0, false)
	rs.TitleQuestion = &model.Question{Correct: "Bohemian Rhapsody"}
	rs.Answers = append(rs.Answers, &model.Answer{PlayerID: "alice", Type: model.AnswerArtist, IsCorrect: true})

	result := m.HandleAnswer(&model.Answer{PlayerID: "alice", Type: model.AnswerTitle, Value: "wrong title"}, rs)

	if result.IsCorrect || result.PointsAwarded != 0 || !result.LockOutPlayer {
		t.Fatalf("expected artist-correct/title-wrong to award 0 and lock out, got %#v", result)
	}
}

func TestBuzzAndChoiceHandleAnswerArtistWrongTitleCorrect(t *testing.T) {
	m := NewBuzzAndChoice()
	rs := newPlayingSong()
	rs.Params = paramsForChoice(1, 2, 0, false)
	rs.TitleQuestion = &model.Question{Correct: "Bohemian Rhapsody"}
	rs.Answers = append(rs.Answers, &model.Answer{PlayerID: "alice", Type: model.AnswerArtist, IsCorrect: false})

	result := m.HandleAnswer(&model.Answer{PlayerID: "alice", Type: model.AnswerTitle, Value: "Bohemian Rhapsody"}, rs)

	if !result.IsCorrect || result.PointsAwarded != 0 || !result.LockOutPlayer {
		t.Fatalf("expected artist-wrong/title-correct to award 0 points but count correct, got %#v", result)
	}
}

func TestBuzzAndChoiceHandleAnswerBothWrongWithPenalty(t *testing.T) {
	m := NewBuzzAndChoice()
	rs := newPlayingSong()
	rs.Params = paramsForChoice(1, 2, 3, true)
	rs.TitleQuestion = &model.Question{Correct: "Bohemian Rhapsody"}
	rs.Answers = append(rs.Answers, &model.Answer{PlayerID: "alice", Type: model.AnswerArtist, IsCorrect: false})

	result := m.HandleAnswer(&model.Answer{PlayerID: "alice", Type: model.AnswerTitle, Value: "nope"}, rs)

	if result.IsCorrect || result.PointsAwarded != -3 || !result.LockOutPlayer {
		t.Fatalf("expected both-wrong to apply the penalty and lock out, got %#v", result)
	}
}

func TestBuzzAndChoiceShouldEndSongRequiresBothAnswerTypes(t *testing.T) {
	m := NewBuzzAndChoice()
	rs := newPlayingSong()
	rs.ActivePlayerID = "alice"
	rs.AnsweredTypes["alice"] = map[model.AnswerType]bool{model.AnswerArtist: true}

	if m.ShouldEndSong(rs, 4) {
		t.Fatal("expected song to remain open until both artist and title are answered")
	}

	rs.AnsweredTypes["alice"][model.AnswerTitle] = true
	if !m.ShouldEndSong(rs, 4) {
		t.Fatal("expected song to end once both answer types are recorded")
	}
}

func TestPictureRoundReusesBuzzAndChoiceRules(t *testing.T) {
	m := NewPictureRound()
	if m.Name() != PictureRound {
		t.Fatalf("expected name %q, got %q", PictureRound, m.Name())
	}
	if m.ShouldPauseOnBuzz() != true || m.RequiresManualValidation() != false {
		t.Fatal("expected picture round to inherit buzz-and-choice's pause/validation behavior")
	}
}
