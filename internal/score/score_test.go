package score

import "testing"

func TestRankStandardCompetition(t *testing.T) {
	entries := []Entry{
		{PlayerID: "a", Score: 10},
		{PlayerID: "b", Score: 10},
		{PlayerID: "c", Score: 7},
		{PlayerID: "d", Score: 3},
		{PlayerID: "e", Score: 3},
	}

	ranked := Rank(entries)

	want := map[string]int{"a": 1, "b": 1, "c": 3, "d": 4, "e": 4}
	if len(ranked) != len(entries) {
		t.Fatalf("expected %d ranked entries, got %d", len(entries), len(ranked))
	}
	for _, r := range ranked {
		if r.Rank != want[r.PlayerID] {
			t.Fatalf("player %s: expected rank %d, got %d", r.PlayerID, want[r.PlayerID], r.Rank)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if ranked := Rank(nil); len(ranked) != 0 {
		t.Fatalf("expected no ranked entries, got %d", len(ranked))
	}
}

func TestRankSingleEntry(t *testing.T) {
	ranked := Rank([]Entry{{PlayerID: "solo", Score: 5}})
	if len(ranked) != 1 || ranked[0].Rank != 1 {
		t.Fatalf("expected single rank-1 entry, got %#v", ranked)
	}
}

func TestRankAllTied(t *testing.T) {
	entries := []Entry{
		{PlayerID: "a", Score: 4},
		{PlayerID: "b", Score: 4},
		{PlayerID: "c", Score: 4},
	}
	ranked := Rank(entries)
	for _, r := range ranked {
		if r.Rank != 1 {
			t.Fatalf("expected all-tied entries to rank 1, got %d for %s", r.Rank, r.PlayerID)
		}
	}
}
