package modes

import (
	"testing"

	"github.com/adrienmarquer/blindtest/internal/model"
)

func paramsWithPenalty(title, penalty int, enabled bool) model.ModeParams {
	t := title
	p := penalty
	e := enabled
	return model.ModeParams{PointsTitle: &t, PenaltyAmount: &p, PenaltyEnabled: &e}
}

func TestFastBuzzHandleAnswerCorrect(t *testing.T) {
	m := NewFastBuzz()
	rs := newPlayingSong()
	rs.Params = paramsWithPenalty(2, 0, false)

	result := m.HandleAnswer(&model.Answer{Value: "correct"}, rs)

	if !result.IsCorrect || result.PointsAwarded != 2 {
		t.Fatalf("expected correct answer to award 2 points, got %#v", result)
	}
}

func TestFastBuzzHandleAnswerWrongWithPenalty(t *testing.T) {
	m := NewFastBuzz()
	rs := newPlayingSong()
	rs.Params = paramsWithPenalty(2, 1, true)

	result := m.HandleAnswer(&model.Answer{Value: "wrong"}, rs)

	if result.IsCorrect {
		t.Fatal("expected wrong answer to not be correct")
	}
	if !result.LockOutPlayer {
		t.Fatal("expected wrong answer to lock out the player")
	}
	if result.PointsAwarded != -1 {
		t.Fatalf("expected penalty of -1, got %d", result.PointsAwarded)
	}
}

func TestFastBuzzHandleAnswerWrongWithoutPenalty(t *testing.T) {
	m := NewFastBuzz()
	rs := newPlayingSong()
	rs.Params = paramsWithPenalty(2, 5, false)

	result := m.HandleAnswer(&model.Answer{Value: "wrong"}, rs)

	if result.PointsAwarded != 0 {
		t.Fatalf("expected no deduction when penalty disabled, got %d", result.PointsAwarded)
	}
}

func TestFastBuzzShouldEndSongOnCorrectAnswer(t *testing.T) {
	m := NewFastBuzz()
	rs := newPlayingSong()
	rs.Answers = append(rs.Answers, &model.Answer{IsCorrect: true})

	if !m.ShouldEndSong(rs, 4) {
		t.Fatal("expected song to end after a correct answer")
	}
}

func TestFastBuzzShouldEndSongOnFullLockout(t *testing.T) {
	m := NewFastBuzz()
	rs := newPlayingSong()
	rs.LockedOutPlayerIDs["alice"] = true
	rs.LockedOutPlayerIDs["bob"] = true

	if !m.ShouldEndSong(rs, 2) {
		t.Fatal("expected song to end once every active player is locked out")
	}
	if m.ShouldEndSong(rs, 3) {
		t.Fatal("expected song to remain open while an un-locked-out player can still buzz")
	}
}
