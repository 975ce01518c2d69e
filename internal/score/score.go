// Package score implements the Score Aggregator (spec §4.7): standard
// competition ranking ("1, 2, 2, 4, 5") within a round and across a whole
// session.
package score

import "sort"

// Entry is one player's score going into a ranking pass.
type Entry struct {
	PlayerID string
	Score    int
}

// Ranked is an Entry with its computed rank attached.
type Ranked struct {
	PlayerID string
	Score    int
	Rank     int
}

// Rank assigns standard competition ranks to entries, descending by score.
// Ties share the higher rank; the next-lower rank is 1 + the number of
// players strictly ahead, not 1 + the previous rank (spec §4.7, §8
// property 5).
func Rank(entries []Entry) []Ranked {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	out := make([]Ranked, len(sorted))
	for i, e := range sorted {
		rank := 1
		if i > 0 && sorted[i-1].Score == e.Score {
			rank = out[i-1].Rank
		} else {
			rank = i + 1
		}
		out[i] = Ranked{PlayerID: e.PlayerID, Score: e.Score, Rank: rank}
	}
	return out
}
