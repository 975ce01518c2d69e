// Package answergen implements the Answer Generator: the distractor policy
// for multiple-choice "title" and "artist" questions (spec §4.6).
package answergen

import (
	"crypto/rand"
	"math/big"

	"github.com/adrienmarquer/blindtest/internal/model"
)

// Kind is which field of a Song a Question asks about.
type Kind string

const (
	KindTitle  Kind = "title"
	KindArtist Kind = "artist"
)

func valueOf(s *model.Song, kind Kind) string {
	if kind == KindTitle {
		return s.Title
	}
	return s.Artist
}

// similarityWindow bounds the "near enough" release-year comparison used to
// build the similarity pool (spec §4.6 step 2).
const similarityWindow = 5

// Generate builds a shuffled choice set of size count for the given kind,
// with correct as the right answer and pool as the candidate songs to draw
// distractors from (spec §4.6, steps 1-5).
func Generate(correct *model.Song, pool []*model.Song, count int, kind Kind) model.Question {
	correctValue := valueOf(correct, kind)

	similar := make([]*model.Song, 0, len(pool))
	rest := make([]*model.Song, 0, len(pool))
	for _, s := range pool {
		if s.ID == correct.ID {
			continue
		}
		if valueOf(s, kind) == correctValue {
			continue
		}
		if sameGenreOrNearYear(s, correct) {
			similar = append(similar, s)
		} else {
			rest = append(rest, s)
		}
	}

	shuffle(similar)
	shuffle(rest)

	seen := map[string]bool{correctValue: true}
	distractors := make([]string, 0, count-1)

	for _, s := range similar {
		if len(distractors) >= count-1 {
			break
		}
		v := valueOf(s, kind)
		if seen[v] {
			continue
		}
		seen[v] = true
		distractors = append(distractors, v)
	}

	if len(distractors) < count-1 {
		for _, s := range rest {
			if len(distractors) >= count-1 {
				break
			}
			v := valueOf(s, kind)
			if seen[v] {
				continue
			}
			seen[v] = true
			distractors = append(distractors, v)
		}
	}

	choices := append([]string{correctValue}, distractors...)
	shuffleStrings(choices)

	return model.Question{Correct: correctValue, Choices: choices}
}

func sameGenreOrNearYear(s, correct *model.Song) bool {
	if s.Genre != "" && correct.Genre != "" && s.Genre == correct.Genre {
		return true
	}
	diff := s.Year - correct.Year
	if diff < 0 {
		diff = -diff
	}
	return diff <= similarityWindow
}

// shuffle performs an in-place Fisher-Yates shuffle using crypto/rand,
// mirroring the teacher's startGameLocked turn-order shuffle in
// celebrity.go.
func shuffle(items []*model.Song) {
	for i := len(items) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func shuffleStrings(items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
