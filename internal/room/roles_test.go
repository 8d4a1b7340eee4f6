package room

import (
	"math/rand"
	"testing"
)

func TestClampSpyCount(t *testing.T) {
	cases := []struct {
		requested int
		selected  int
		want      int
	}{
		{requested: 1, selected: 4, want: 1},
		{requested: 0, selected: 4, want: 0},
		{requested: -3, selected: 4, want: 0},
		{requested: 4, selected: 4, want: 3},
		{requested: 10, selected: 2, want: 1},
	}
	for _, tc := range cases {
		if got := clampSpyCount(tc.requested, tc.selected); got != tc.want {
			t.Fatalf("clampSpyCount(%d, %d) = %d, want %d", tc.requested, tc.selected, got, tc.want)
		}
	}
}

func TestAssignSpiesCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	selected := []string{"a", "b", "c", "d"}
	spies := assignSpies(rng, selected, 2, WordModeRandom, "a")
	if len(spies) != 2 {
		t.Fatalf("expected 2 spies, got %d", len(spies))
	}
	for id := range spies {
		found := false
		for _, candidate := range selected {
			if candidate == id {
				found = true
			}
		}
		if !found {
			t.Fatalf("spy %s is not a selected player", id)
		}
	}
}

func TestAssignSpiesExcludesHostInCustomMode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	selected := []string{"host", "b", "c"}
	for trial := 0; trial < 1000; trial++ {
		spies := assignSpies(rng, selected, 1, WordModeCustom, "host")
		if spies["host"] {
			t.Fatalf("host became a spy in custom word mode on trial %d", trial)
		}
		if len(spies) != 1 {
			t.Fatalf("expected 1 spy, got %d", len(spies))
		}
	}
}

func TestAssignSpiesEveryEligiblePlayerCanBeSpy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	selected := []string{"a", "b", "c", "d"}
	seen := make(map[string]bool)
	for trial := 0; trial < 1000; trial++ {
		for id := range assignSpies(rng, selected, 1, WordModeRandom, "a") {
			seen[id] = true
		}
	}
	if len(seen) != len(selected) {
		t.Fatalf("expected every player to be picked at least once, got %v", seen)
	}
}

func TestShuffleOrderKeepsMembership(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	selected := []string{"a", "b", "c", "d", "e"}
	order := shuffleOrder(rng, selected)
	if len(order) != len(selected) {
		t.Fatalf("expected %d entries, got %d", len(selected), len(order))
	}
	members := toSet(order)
	for _, id := range selected {
		if !members[id] {
			t.Fatalf("player %s missing from shuffled order", id)
		}
	}
	if &order[0] == &selected[0] {
		t.Fatalf("shuffle must not alias the input slice")
	}
}
