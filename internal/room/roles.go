package room

import "math/rand"

// WordMode selects where the secret word comes from.
type WordMode string

const (
	WordModeRandom WordMode = "random"
	WordModeCustom WordMode = "custom"
)

func (m WordMode) Valid() bool {
	return m == WordModeRandom || m == WordModeCustom
}

// clampSpyCount bounds the requested spy count so at least one knower
// remains among the selected players.
func clampSpyCount(spyCount, selectedCount int) int {
	if spyCount < 0 {
		return 0
	}
	if max := selectedCount - 1; spyCount > max {
		return max
	}
	return spyCount
}

// assignSpies partitions the selected players by picking a uniformly random
// spy subset without replacement. In custom word mode the host authored the
// word and is excluded from spy eligibility; the spy count re-clamps to the
// eligible pool.
func assignSpies(rng *rand.Rand, selected []string, spyCount int, mode WordMode, hostID string) map[string]bool {
	eligible := make([]string, 0, len(selected))
	for _, id := range selected {
		if mode == WordModeCustom && id == hostID {
			continue
		}
		eligible = append(eligible, id)
	}
	if spyCount > len(eligible) {
		spyCount = len(eligible)
	}
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	spies := make(map[string]bool, spyCount)
	for _, id := range eligible[:spyCount] {
		spies[id] = true
	}
	return spies
}

// shuffleOrder returns a fresh random permutation of the selected players,
// fixed for the duration of one game.
func shuffleOrder(rng *rand.Rand, selected []string) []string {
	order := append([]string(nil), selected...)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
