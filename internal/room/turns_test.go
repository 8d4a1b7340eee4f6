package room

import (
	"testing"

	"spyword/internal/store"
)

func TestAdvanceTurnWithinRound(t *testing.T) {
	next := advanceTurn(3, 1, 2, 0)
	if next.Status != store.StatusStarted || next.Round != 1 || next.TurnIndex != 1 {
		t.Fatalf("unexpected advance: %+v", next)
	}
}

func TestAdvanceTurnWrapsToNextRound(t *testing.T) {
	next := advanceTurn(3, 1, 2, 2)
	if next.Status != store.StatusStarted || next.Round != 2 || next.TurnIndex != 0 {
		t.Fatalf("unexpected advance: %+v", next)
	}
}

func TestAdvanceTurnHandsOffToVoting(t *testing.T) {
	next := advanceTurn(3, 2, 2, 2)
	if next.Status != store.StatusGuessReady {
		t.Fatalf("expected guess-ready, got %+v", next)
	}
	if next.TurnIndex != store.NoTurn {
		t.Fatalf("expected turn index cleared, got %d", next.TurnIndex)
	}
}

func TestAdvanceTurnWalksEverySlot(t *testing.T) {
	const players = 3
	const rounds = 3
	round, index := 1, 0
	submissions := 0
	for {
		next := advanceTurn(players, round, rounds, index)
		submissions++
		if next.Status == store.StatusGuessReady {
			break
		}
		round, index = next.Round, next.TurnIndex
		if submissions > players*rounds {
			t.Fatalf("turn pointer never reached voting")
		}
	}
	if submissions != players*rounds {
		t.Fatalf("expected %d submissions before voting, got %d", players*rounds, submissions)
	}
}
