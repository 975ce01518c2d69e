package paramresolver

import (
	"testing"

	"github.com/adrienmarquer/blindtest/internal/model"
)

func TestResolveOverlayPrecedence(t *testing.T) {
	system := SystemDefaults()
	modeDefaults := model.ModeParams{AnswerTimer: intp(10)}
	roundParams := model.ModeParams{SongDuration: intp(45)}

	resolved := Resolve(system, modeDefaults, roundParams)

	if SongDuration(resolved) != 45 {
		t.Fatalf("expected round override to win for SongDuration, got %d", SongDuration(resolved))
	}
	if AnswerTimer(resolved) != 10 {
		t.Fatalf("expected mode default to win for AnswerTimer, got %d", AnswerTimer(resolved))
	}
	if NumChoices(resolved) != 4 {
		t.Fatalf("expected system default to survive for NumChoices, got %d", NumChoices(resolved))
	}
}

func TestResolveRoundOverridesMode(t *testing.T) {
	system := SystemDefaults()
	modeDefaults := model.ModeParams{PointsTitle: intp(2)}
	roundParams := model.ModeParams{PointsTitle: intp(5)}

	resolved := Resolve(system, modeDefaults, roundParams)

	if PointsTitle(resolved) != 5 {
		t.Fatalf("expected round param to override mode default, got %d", PointsTitle(resolved))
	}
}

func TestResolveEmptyOverridesKeepDefaults(t *testing.T) {
	resolved := Resolve(SystemDefaults(), model.ModeParams{}, model.ModeParams{})

	if !AllowRebuzz(resolved) {
		t.Fatal("expected AllowRebuzz to keep its system default of true")
	}
	if LevenshteinDistance(resolved) != 2 {
		t.Fatalf("expected LevenshteinDistance default of 2, got %d", LevenshteinDistance(resolved))
	}
}
