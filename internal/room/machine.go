package room

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"spyword/internal/store"
)

const maxNameLength = 20

// Machine validates commands against the current room snapshot and computes
// the resulting patch. It is pure with respect to the store: it never
// commits, it only describes the write. Every rejection happens here, before
// anything reaches the store.
type Machine struct {
	rng *rand.Rand
}

func NewMachine() *Machine {
	return &Machine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func newMachineWithSource(src rand.Source) *Machine {
	return &Machine{rng: rand.New(src)}
}

// GameSettings carries the host's choices for one game.
type GameSettings struct {
	WordMode    WordMode
	Word        string
	Category    string
	SpyCount    int
	TotalRounds int
}

// Effects are follow-up store operations a transition requires beyond its
// patch. They are issued alongside the commit, not awaited by it; readers
// gate on gameId so a partially-cleared collection is benign.
type Effects struct {
	ClearRounds  bool
	ClearBallots bool
}

// NewRoom builds the initial document for a freshly created room.
func NewRoom(code, hostID, hostName, avatarName string) store.RoomSnapshot {
	return store.RoomSnapshot{
		Code: code,
		Info: store.RoomInfo{
			HostID:           hostID,
			Status:           store.StatusWaiting,
			CurrentTurnIndex: store.NoTurn,
			TurnOrder:        []string{},
			LockedPlayers:    []string{},
			ContinuePressed:  map[string]bool{},
			GuessedSpyIDs:    []string{},
			SpyWordGuesses:   map[string]string{},
		},
		Players: []store.PlayerRecord{{
			ID:         hostID,
			Name:       hostName,
			AvatarName: avatarName,
			JoinedAt:   time.Now().UTC(),
		}},
	}
}

// Join upserts a player record keyed by device id. Re-joining updates the
// name and avatar in place.
func (m *Machine) Join(snap store.RoomSnapshot, playerID, name, avatarName string) (store.Patch, error) {
	trimmed, err := validateName(name)
	if err != nil {
		return store.Patch{}, err
	}
	record := store.PlayerRecord{
		ID:         playerID,
		Name:       trimmed,
		AvatarName: avatarName,
		JoinedAt:   time.Now().UTC(),
	}
	if existing, ok := snap.Player(playerID); ok {
		record.Role = existing.Role
		record.IsSelected = existing.IsSelected
		record.IsEliminated = existing.IsEliminated
		record.JoinedAt = existing.JoinedAt
		if avatarName == "" {
			record.AvatarName = existing.AvatarName
		}
	}
	return store.Patch{UpsertPlayers: []store.PlayerRecord{record}}, nil
}

// BeginArranging moves the room into player selection. Host only.
func (m *Machine) BeginArranging(snap store.RoomSnapshot, actorID string) (store.Patch, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, err
	}
	if snap.Info.Status != store.StatusWaiting {
		return store.Patch{}, fmt.Errorf("%w: cannot arrange from %q", ErrInvalidState, snap.Info.Status)
	}
	return store.Patch{Info: &store.InfoPatch{Status: sp(store.StatusArranging)}}, nil
}

// CancelArranging returns to waiting. The saved selection persists so the
// host can resume without re-selecting.
func (m *Machine) CancelArranging(snap store.RoomSnapshot, actorID string) (store.Patch, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, err
	}
	if snap.Info.Status != store.StatusArranging {
		return store.Patch{}, fmt.Errorf("%w: not arranging", ErrInvalidState)
	}
	return store.Patch{Info: &store.InfoPatch{Status: sp(store.StatusWaiting)}}, nil
}

// SaveSelection records which players are in the upcoming game. Host only,
// arranging phase only.
func (m *Machine) SaveSelection(snap store.RoomSnapshot, actorID string, ids []string) (store.Patch, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, err
	}
	if snap.Info.Status != store.StatusArranging {
		return store.Patch{}, fmt.Errorf("%w: selection only while arranging", ErrInvalidState)
	}
	selected := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := snap.Player(id); !ok {
			return store.Patch{}, fmt.Errorf("%w: unknown player %s", ErrValidationFailed, id)
		}
		seen[id] = true
		selected = append(selected, id)
	}
	patch := store.Patch{Info: &store.InfoPatch{LockedPlayers: slicep(selected)}}
	for _, player := range snap.Players {
		player.IsSelected = seen[player.ID]
		patch.UpsertPlayers = append(patch.UpsertPlayers, player)
	}
	return patch, nil
}

// StartGame assigns roles, fixes the turn order and enters the started
// phase under a fresh gameId. Host only, arranging phase only.
func (m *Machine) StartGame(snap store.RoomSnapshot, actorID string, settings GameSettings) (store.Patch, Effects, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, Effects{}, err
	}
	if snap.Info.Status != store.StatusArranging {
		return store.Patch{}, Effects{}, fmt.Errorf("%w: start only while arranging", ErrInvalidState)
	}
	if !settings.WordMode.Valid() {
		return store.Patch{}, Effects{}, fmt.Errorf("%w: unknown word mode %q", ErrValidationFailed, settings.WordMode)
	}
	word := strings.TrimSpace(settings.Word)
	if word == "" {
		return store.Patch{}, Effects{}, fmt.Errorf("%w: word is required", ErrValidationFailed)
	}
	selected := append([]string(nil), snap.Info.LockedPlayers...)
	if len(selected) < 2 {
		return store.Patch{}, Effects{}, fmt.Errorf("%w: need at least 2 selected players", ErrValidationFailed)
	}
	if settings.TotalRounds < 1 {
		return store.Patch{}, Effects{}, fmt.Errorf("%w: need at least 1 round", ErrValidationFailed)
	}

	spyCount := clampSpyCount(settings.SpyCount, len(selected))
	spies := assignSpies(m.rng, selected, spyCount, settings.WordMode, snap.Info.HostID)
	order := shuffleOrder(m.rng, selected)

	patch := store.Patch{Info: &store.InfoPatch{
		Status:               sp(store.StatusStarted),
		Word:                 strp(word),
		Category:             strp(strings.TrimSpace(settings.Category)),
		SpyCount:             intp(len(spies)),
		TotalRounds:          intp(settings.TotalRounds),
		CurrentRound:         intp(1),
		CurrentTurnIndex:     intp(0),
		TurnOrder:            slicep(order),
		LockedPlayers:        slicep(selected),
		ResetContinuePressed: true,
		ResultText:           strp(""),
		GuessedSpyIDs:        slicep(nil),
		ClearSpyWordGuesses:  true,
		WordRevealed:         boolp(false),
		GameID:               strp(uuid.NewString()),
	}}
	selectedSet := toSet(selected)
	for _, player := range snap.Players {
		if selectedSet[player.ID] {
			player.IsSelected = true
			if spies[player.ID] {
				player.Role = store.RoleSpy
			} else {
				player.Role = store.RoleKnower
			}
		} else {
			player.IsSelected = false
			player.Role = store.RoleNone
		}
		patch.UpsertPlayers = append(patch.UpsertPlayers, player)
	}
	return patch, Effects{ClearRounds: true, ClearBallots: true}, nil
}

// SetContinuePressed records that a player has acknowledged their revealed
// role for the current game.
func (m *Machine) SetContinuePressed(snap store.RoomSnapshot, actorID string, pressed bool) (store.Patch, error) {
	if snap.Info.Status != store.StatusStarted {
		return store.Patch{}, fmt.Errorf("%w: no role to acknowledge", ErrInvalidState)
	}
	if !snap.IsLocked(actorID) {
		return store.Patch{}, fmt.Errorf("%w: not in this game", ErrValidationFailed)
	}
	return store.Patch{Info: &store.InfoPatch{
		ContinuePressed: map[string]bool{actorID: pressed},
	}}, nil
}

// SubmitClue records the clue word for the player whose turn it is and
// advances the turn pointer; the last submission of the last round hands
// the room to voting.
func (m *Machine) SubmitClue(snap store.RoomSnapshot, actorID, word string) (store.Patch, error) {
	if snap.Info.Status != store.StatusStarted {
		return store.Patch{}, fmt.Errorf("%w: no round in progress", ErrInvalidState)
	}
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return store.Patch{}, fmt.Errorf("%w: empty word", ErrValidationFailed)
	}
	if snap.CurrentTurnPlayer() != actorID {
		return store.Patch{}, ErrNotYourTurn
	}
	next := advanceTurn(len(snap.Info.TurnOrder), snap.Info.CurrentRound, snap.Info.TotalRounds, snap.Info.CurrentTurnIndex)
	return store.Patch{
		Info: &store.InfoPatch{
			Status:           sp(next.Status),
			CurrentRound:     intp(next.Round),
			CurrentTurnIndex: intp(next.TurnIndex),
		},
		ClueWords: map[int]map[string]string{
			snap.Info.CurrentRound: {actorID: trimmed},
		},
	}, nil
}

// CastVotes records the voter's ballot. The ballot must name exactly
// spyCount distinct selected players.
func (m *Machine) CastVotes(snap store.RoomSnapshot, actorID string, accused []string) (store.Patch, error) {
	if snap.Info.Status != store.StatusGuessReady {
		return store.Patch{}, fmt.Errorf("%w: voting is not open", ErrInvalidState)
	}
	if !snap.IsLocked(actorID) {
		return store.Patch{}, fmt.Errorf("%w: not in this game", ErrValidationFailed)
	}
	if len(accused) != snap.Info.SpyCount {
		return store.Patch{}, fmt.Errorf("%w: ballot must name %d players", ErrValidationFailed, snap.Info.SpyCount)
	}
	seen := make(map[string]bool, len(accused))
	for _, id := range accused {
		if seen[id] {
			return store.Patch{}, fmt.Errorf("%w: duplicate vote for %s", ErrValidationFailed, id)
		}
		if !snap.IsLocked(id) {
			return store.Patch{}, fmt.Errorf("%w: %s is not in this game", ErrValidationFailed, id)
		}
		seen[id] = true
	}
	return store.Patch{Ballots: map[string][]string{
		actorID: append([]string(nil), accused...),
	}}, nil
}

// SubmitSpyWordGuess records a spy's guess of the secret word. Allowed from
// voting on, until the host reveals.
func (m *Machine) SubmitSpyWordGuess(snap store.RoomSnapshot, actorID, guess string) (store.Patch, error) {
	if snap.Info.Status != store.StatusGuessReady && snap.Info.Status != store.StatusResult {
		return store.Patch{}, fmt.Errorf("%w: word guessing is not open", ErrInvalidState)
	}
	if snap.Info.WordRevealed {
		return store.Patch{}, fmt.Errorf("%w: word already revealed", ErrInvalidState)
	}
	player, ok := snap.Player(actorID)
	if !ok || player.Role != store.RoleSpy {
		return store.Patch{}, fmt.Errorf("%w: only a spy can guess the word", ErrValidationFailed)
	}
	trimmed := strings.TrimSpace(guess)
	if trimmed == "" {
		return store.Patch{}, fmt.Errorf("%w: empty word", ErrValidationFailed)
	}
	return store.Patch{Info: &store.InfoPatch{
		SpyWordGuesses: map[string]string{actorID: trimmed},
	}}, nil
}

// FinishVoting tallies the ballots and enters the result phase. Host only;
// without force, every selected player must have voted.
func (m *Machine) FinishVoting(snap store.RoomSnapshot, actorID string, force bool) (store.Patch, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, err
	}
	if snap.Info.Status != store.StatusGuessReady {
		return store.Patch{}, fmt.Errorf("%w: voting is not open", ErrInvalidState)
	}
	if !force {
		for _, id := range snap.Info.LockedPlayers {
			if _, voted := snap.Ballots[id]; !voted {
				return store.Patch{}, fmt.Errorf("%w: waiting for votes", ErrInvalidState)
			}
		}
	}
	guessed := TallyVotes(snap.Ballots, snap.Info.SpyCount, snap.Info.TurnOrder)
	outcome := ClassifyCatch(guessed, snap.SpyIDs())
	return store.Patch{Info: &store.InfoPatch{
		Status:        sp(store.StatusResult),
		ResultText:    strp(resultMessage(outcome, snap.PlayerNames(guessed))),
		GuessedSpyIDs: slicep(guessed),
	}}, nil
}

// RevealWord makes the secret word visible to everyone. If any spy's word
// guess matches the word under trim+fold comparison, the result narrative
// flips to a spies-win outcome; the catch classification itself is not
// re-run. Host only, result phase only.
func (m *Machine) RevealWord(snap store.RoomSnapshot, actorID string) (store.Patch, Outcome, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, "", err
	}
	if snap.Info.Status != store.StatusResult {
		return store.Patch{}, "", fmt.Errorf("%w: no result to reveal", ErrInvalidState)
	}
	patch := store.Patch{Info: &store.InfoPatch{WordRevealed: boolp(true)}}
	outcome := ClassifyCatch(snap.Info.GuessedSpyIDs, snap.SpyIDs())
	for _, guess := range snap.Info.SpyWordGuesses {
		if WordGuessMatches(guess, snap.Info.Word) {
			outcome = OutcomeSpiesWinByGuess
			patch.Info.ResultText = strp(resultMessage(outcome, nil))
			break
		}
	}
	return patch, outcome, nil
}

// EndGame returns the room to waiting and clears the per-game fields. The
// selection persists so the host can resume. Host only; valid from any
// phase but waiting, which also covers the force-end path.
func (m *Machine) EndGame(snap store.RoomSnapshot, actorID string) (store.Patch, Effects, error) {
	if err := requireHost(snap, actorID); err != nil {
		return store.Patch{}, Effects{}, err
	}
	if snap.Info.Status == store.StatusWaiting {
		return store.Patch{}, Effects{}, fmt.Errorf("%w: no game to end", ErrInvalidState)
	}
	patch := store.Patch{Info: &store.InfoPatch{
		Status:               sp(store.StatusWaiting),
		Word:                 strp(""),
		Category:             strp(""),
		CurrentRound:         intp(0),
		CurrentTurnIndex:     intp(store.NoTurn),
		TurnOrder:            slicep(nil),
		ResetContinuePressed: true,
		ResultText:           strp(""),
		GuessedSpyIDs:        slicep(nil),
		ClearSpyWordGuesses:  true,
		WordRevealed:         boolp(false),
	}}
	for _, player := range snap.Players {
		if player.Role != store.RoleNone {
			player.Role = store.RoleNone
			patch.UpsertPlayers = append(patch.UpsertPlayers, player)
		}
	}
	return patch, Effects{ClearRounds: true, ClearBallots: true}, nil
}

// RemovePlayer drops a player record. The host may remove anyone; a player
// may remove themselves. Not allowed mid-game because the turn order is
// fixed once a game starts.
func (m *Machine) RemovePlayer(snap store.RoomSnapshot, actorID, targetID string) (store.Patch, error) {
	if actorID != snap.Info.HostID && actorID != targetID {
		return store.Patch{}, ErrPermissionDenied
	}
	if snap.Info.Status.InGame() && snap.IsLocked(targetID) {
		return store.Patch{}, fmt.Errorf("%w: cannot remove a player mid-game", ErrInvalidState)
	}
	if _, ok := snap.Player(targetID); !ok {
		return store.Patch{}, fmt.Errorf("%w: unknown player %s", ErrValidationFailed, targetID)
	}
	remaining := make([]string, 0, len(snap.Info.LockedPlayers))
	for _, id := range snap.Info.LockedPlayers {
		if id != targetID {
			remaining = append(remaining, id)
		}
	}
	return store.Patch{
		Info:            &store.InfoPatch{LockedPlayers: slicep(remaining)},
		RemovePlayerIDs: []string{targetID},
	}, nil
}

func requireHost(snap store.RoomSnapshot, actorID string) error {
	if actorID != snap.Info.HostID {
		return ErrPermissionDenied
	}
	return nil
}

func validateName(name string) (string, error) {
	trimmed := strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
	if trimmed == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: name must be %d characters or fewer", ErrValidationFailed, maxNameLength)
	}
	return trimmed, nil
}

func sp(s store.Status) *store.Status { return &s }
func strp(s string) *string           { return &s }
func intp(i int) *int                 { return &i }
func boolp(b bool) *bool              { return &b }
func slicep(s []string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}
