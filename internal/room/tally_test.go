package room

import (
	"reflect"
	"testing"
)

func TestTallyVotesCountsAcrossBallots(t *testing.T) {
	ballots := map[string][]string{
		"a": {"c"},
		"b": {"c"},
		"c": {"a"},
	}
	got := TallyVotes(ballots, 1, []string{"a", "b", "c"})
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("expected [c], got %v", got)
	}
}

func TestTallyVotesTieBreaksByTurnOrder(t *testing.T) {
	ballots := map[string][]string{
		"a": {"b"},
		"b": {"c"},
	}
	got := TallyVotes(ballots, 1, []string{"c", "b", "a"})
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("expected turn-order tie break to pick c, got %v", got)
	}
}

func TestTallyVotesCandidateOutsideOrderSortsLast(t *testing.T) {
	ballots := map[string][]string{
		"a": {"ghost"},
		"b": {"c"},
	}
	got := TallyVotes(ballots, 1, []string{"a", "b", "c"})
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("expected in-order candidate before outsider, got %v", got)
	}
}

func TestTallyVotesMultipleSpies(t *testing.T) {
	ballots := map[string][]string{
		"a": {"b", "c"},
		"b": {"c", "d"},
		"c": {"c", "b"},
	}
	got := TallyVotes(ballots, 2, []string{"a", "b", "c", "d"})
	if !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("expected [c b], got %v", got)
	}
}

func TestTallyVotesZeroSpyCount(t *testing.T) {
	if got := TallyVotes(map[string][]string{"a": {"b"}}, 0, nil); got != nil {
		t.Fatalf("expected nil for zero spy count, got %v", got)
	}
}

func TestClassifyCatch(t *testing.T) {
	cases := []struct {
		name    string
		guessed []string
		actual  []string
		want    Outcome
	}{
		{name: "all caught", guessed: []string{"a", "b"}, actual: []string{"b", "a"}, want: OutcomeAllCaught},
		{name: "some caught", guessed: []string{"a", "c"}, actual: []string{"a", "b"}, want: OutcomeSomeCaught},
		{name: "none caught", guessed: []string{"c"}, actual: []string{"a"}, want: OutcomeNoneCaught},
		{name: "empty guess", guessed: nil, actual: []string{"a"}, want: OutcomeNoneCaught},
		{name: "no spies in play", guessed: nil, actual: nil, want: OutcomeNoneCaught},
	}
	for _, tc := range cases {
		if got := ClassifyCatch(tc.guessed, tc.actual); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestWordGuessMatches(t *testing.T) {
	cases := []struct {
		guess string
		word  string
		want  bool
	}{
		{guess: "Paris", word: "paris", want: true},
		{guess: "  paris ", word: "Paris", want: true},
		{guess: "café", word: "cafe", want: true},
		{guess: "CAFE", word: "café", want: true},
		{guess: "london", word: "paris", want: false},
		{guess: "", word: "paris", want: false},
		{guess: "   ", word: "paris", want: false},
	}
	for _, tc := range cases {
		if got := WordGuessMatches(tc.guess, tc.word); got != tc.want {
			t.Fatalf("WordGuessMatches(%q, %q) = %t, want %t", tc.guess, tc.word, got, tc.want)
		}
	}
}

func TestResultMessage(t *testing.T) {
	if got := resultMessage(OutcomeNoneCaught, nil); got != "No spies caught." {
		t.Fatalf("unexpected message: %q", got)
	}
	got := resultMessage(OutcomeAllCaught, []string{"Ada", "Ben"})
	if got != "All spies caught: Ada, Ben" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := resultMessage(OutcomeSpiesWinByGuess, nil); got != "The spies guessed the word. Spies win!" {
		t.Fatalf("unexpected message: %q", got)
	}
}
