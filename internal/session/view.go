package session

import (
	"reflect"

	"spyword/internal/store"
)

// RoomView is the denormalized projection of one room for one client.
type RoomView struct {
	Code           string         `json:"code"`
	Phase          store.Status   `json:"phase"`
	GameID         string         `json:"game_id,omitempty"`
	Players        []PlayerView   `json:"players"`
	CurrentTurnID  string         `json:"current_turn_id,omitempty"`
	IsMyTurn       bool           `json:"is_my_turn"`
	IsHost         bool           `json:"is_host"`
	InRoom         bool           `json:"in_room"`
	IsSelected     bool           `json:"is_selected"`
	MyRole         store.Role     `json:"my_role,omitempty"`
	Word           string         `json:"word,omitempty"`
	Category       string         `json:"category,omitempty"`
	CurrentRound   int            `json:"current_round"`
	TotalRounds    int            `json:"total_rounds"`
	SpyCount       int            `json:"spy_count"`
	Clues          map[int][]Clue `json:"clues,omitempty"`
	ContinueCount  int            `json:"continue_count"`
	AllContinued   bool           `json:"all_continued"`
	HasVoted       bool           `json:"has_voted"`
	BallotCount    int            `json:"ballot_count"`
	ResultText     string         `json:"result_text,omitempty"`
	GuessedSpyIDs  []string       `json:"guessed_spy_ids,omitempty"`
	ActualSpyIDs   []string       `json:"actual_spy_ids,omitempty"`
	WordRevealed   bool           `json:"word_revealed"`
	MySpyWordGuess string         `json:"my_spy_word_guess,omitempty"`
}

type PlayerView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarName    string `json:"avatar_name,omitempty"`
	IsSelected    bool   `json:"is_selected"`
	Continued     bool   `json:"continued"`
	HasVoted      bool   `json:"has_voted"`
	SubmittedClue bool   `json:"submitted_clue"`
}

type Clue struct {
	PlayerID string `json:"player_id"`
	Word     string `json:"word"`
}

// Equal reports whether two views render identically. Used to drop
// redundant change events; a duplicate render would be correct, just
// wasteful.
func (v RoomView) Equal(other RoomView) bool {
	return reflect.DeepEqual(v, other)
}

// BuildView projects a room snapshot for one viewer. During a game players
// appear in turn order; otherwise in join order. The secret word is
// included only for knowers, or everyone once revealed; a client that was
// kicked sees InRoom false and a client outside the locked selection during
// an active phase sees IsSelected false, which is the cue to route back to
// the lobby view.
func BuildView(snap store.RoomSnapshot, viewerID string) RoomView {
	me, inRoom := snap.Player(viewerID)
	view := RoomView{
		Code:          snap.Code,
		Phase:         snap.Info.Status,
		GameID:        snap.Info.GameID,
		CurrentTurnID: snap.CurrentTurnPlayer(),
		IsHost:        viewerID == snap.Info.HostID,
		InRoom:        inRoom,
		Category:      snap.Info.Category,
		CurrentRound:  snap.Info.CurrentRound,
		TotalRounds:   snap.Info.TotalRounds,
		SpyCount:      snap.Info.SpyCount,
		ResultText:    snap.Info.ResultText,
		WordRevealed:  snap.Info.WordRevealed,
	}
	view.IsMyTurn = inRoom && view.CurrentTurnID == viewerID
	if inRoom {
		view.MyRole = me.Role
		view.IsSelected = snap.IsLocked(viewerID)
		view.MySpyWordGuess = snap.Info.SpyWordGuesses[viewerID]
	}
	if snap.Info.WordRevealed || (inRoom && me.Role == store.RoleKnower) {
		view.Word = snap.Info.Word
	}
	if snap.Info.Status == store.StatusResult {
		view.GuessedSpyIDs = append([]string(nil), snap.Info.GuessedSpyIDs...)
	}
	if snap.Info.WordRevealed {
		view.ActualSpyIDs = snap.SpyIDs()
	}

	currentClues := snap.Rounds[snap.Info.CurrentRound]
	_, view.HasVoted = snap.Ballots[viewerID]
	view.BallotCount = len(snap.Ballots)

	for _, p := range orderedPlayers(snap) {
		_, voted := snap.Ballots[p.ID]
		_, submitted := currentClues[p.ID]
		view.Players = append(view.Players, PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			AvatarName:    p.AvatarName,
			IsSelected:    snap.IsLocked(p.ID),
			Continued:     snap.Info.ContinuePressed[p.ID],
			HasVoted:      voted,
			SubmittedClue: submitted,
		})
	}

	if snap.Info.Status.InGame() {
		view.Clues = cluesInTurnOrder(snap)
		view.ContinueCount = 0
		view.AllContinued = len(snap.Info.LockedPlayers) > 0
		for _, id := range snap.Info.LockedPlayers {
			if snap.Info.ContinuePressed[id] {
				view.ContinueCount++
			} else {
				view.AllContinued = false
			}
		}
	}
	return view
}

// orderedPlayers lists players in turn order during a game, falling back to
// join order, with non-playing members appended after.
func orderedPlayers(snap store.RoomSnapshot) []store.PlayerRecord {
	if !snap.Info.Status.InGame() || len(snap.Info.TurnOrder) == 0 {
		return snap.Players
	}
	out := make([]store.PlayerRecord, 0, len(snap.Players))
	seen := make(map[string]bool, len(snap.Info.TurnOrder))
	for _, id := range snap.Info.TurnOrder {
		if p, ok := snap.Player(id); ok {
			out = append(out, p)
			seen[id] = true
		}
	}
	for _, p := range snap.Players {
		if !seen[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// cluesInTurnOrder lays out submitted clue words round by round, each round
// in speaking order.
func cluesInTurnOrder(snap store.RoomSnapshot) map[int][]Clue {
	if len(snap.Rounds) == 0 {
		return nil
	}
	out := make(map[int][]Clue, len(snap.Rounds))
	for round, words := range snap.Rounds {
		// Stale rows from a previous game may still be visible while a
		// clear is in flight; rounds beyond the counter are ignored.
		if round < 1 || round > snap.Info.CurrentRound {
			continue
		}
		clues := make([]Clue, 0, len(words))
		for _, id := range snap.Info.TurnOrder {
			if word, ok := words[id]; ok {
				clues = append(clues, Clue{PlayerID: id, Word: word})
			}
		}
		if len(clues) > 0 {
			out[round] = clues
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
