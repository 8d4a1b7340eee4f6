package room

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Outcome classifies a finished vote against the actual spy set.
type Outcome string

const (
	OutcomeAllCaught       Outcome = "all-caught"
	OutcomeSomeCaught      Outcome = "some-caught"
	OutcomeNoneCaught      Outcome = "none-caught"
	OutcomeSpiesWinByGuess Outcome = "spies-win-by-guess"
)

// TallyVotes flattens all ballots into per-candidate counts and returns the
// top spyCount ids by descending count. Malformed or short ballots are
// counted as-is, never rejected. Ties break deterministically by ascending
// turn-order position, then by id for candidates outside the order.
func TallyVotes(ballots map[string][]string, spyCount int, turnOrder []string) []string {
	if spyCount <= 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, votes := range ballots {
		for _, accused := range votes {
			counts[accused]++
		}
	}
	orderIndex := make(map[string]int, len(turnOrder))
	for i, id := range turnOrder {
		orderIndex[id] = i
	}
	candidates := make([]string, 0, len(counts))
	for id := range counts {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		ai, aok := orderIndex[a]
		bi, bok := orderIndex[b]
		if aok && bok {
			return ai < bi
		}
		if aok != bok {
			return aok
		}
		return a < b
	})
	if len(candidates) > spyCount {
		candidates = candidates[:spyCount]
	}
	return candidates
}

// ClassifyCatch compares the voted set against the actual spy set by set
// equality and intersection. A zero-spy game leaves both sets empty and
// reads as none caught: there was nobody to catch, so the vacuous
// all-caught reading is deliberately not taken.
func ClassifyCatch(guessed, actual []string) Outcome {
	guessedSet := toSet(guessed)
	actualSet := toSet(actual)
	hit := 0
	for id := range guessedSet {
		if actualSet[id] {
			hit++
		}
	}
	if hit == 0 {
		return OutcomeNoneCaught
	}
	if len(guessedSet) == len(actualSet) && hit == len(actualSet) {
		return OutcomeAllCaught
	}
	return OutcomeSomeCaught
}

// WordGuessMatches compares a spy's free-text guess against the secret word
// after trimming, case folding and stripping diacritics.
func WordGuessMatches(guess, word string) bool {
	return foldWord(guess) != "" && foldWord(guess) == foldWord(word)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldWord(s string) string {
	trimmed := strings.TrimSpace(s)
	folded, _, err := transform.String(foldTransformer, trimmed)
	if err != nil {
		folded = trimmed
	}
	return strings.ToLower(folded)
}

// resultMessage builds the outcome text shown to every client in the result
// phase.
func resultMessage(outcome Outcome, guessedNames []string) string {
	names := strings.Join(guessedNames, ", ")
	switch outcome {
	case OutcomeAllCaught:
		return fmt.Sprintf("All spies caught: %s", names)
	case OutcomeSomeCaught:
		return fmt.Sprintf("Some spies caught. The group accused: %s", names)
	case OutcomeSpiesWinByGuess:
		return "The spies guessed the word. Spies win!"
	default:
		if names == "" {
			return "No spies caught."
		}
		return fmt.Sprintf("No spies caught. The group accused: %s", names)
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
