package room

import "spyword/internal/store"

// turnAdvance is the outcome of one accepted clue submission: either the
// next player in the same round, the first player of the next round, or the
// hand-off to voting.
type turnAdvance struct {
	Round     int
	TurnIndex int
	Status    store.Status
}

// advanceTurn computes where the turn pointer moves after the player at
// turnIndex submits. The three outcomes are mutually exclusive and
// exhaustive.
func advanceTurn(orderLen, currentRound, totalRounds, turnIndex int) turnAdvance {
	if turnIndex+1 < orderLen {
		return turnAdvance{Round: currentRound, TurnIndex: turnIndex + 1, Status: store.StatusStarted}
	}
	if currentRound < totalRounds {
		return turnAdvance{Round: currentRound + 1, TurnIndex: 0, Status: store.StatusStarted}
	}
	return turnAdvance{Round: currentRound, TurnIndex: store.NoTurn, Status: store.StatusGuessReady}
}
