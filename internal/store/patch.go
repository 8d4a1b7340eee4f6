package store

// Patch is a merge-style partial update applied to one room document. Nil
// fields leave the document untouched; everything set in one Patch commits
// atomically with respect to other commits on the same room.
type Patch struct {
	Info            *InfoPatch
	UpsertPlayers   []PlayerRecord
	RemovePlayerIDs []string
	// ClueWords merges clue entries per (round, player) key; an existing
	// entry for the same key is overwritten.
	ClueWords map[int]map[string]string
	// Ballots replaces the ballot for each voter key present.
	Ballots map[string][]string
}

// InfoPatch updates individual top-level fields. Pointer fields follow
// set-if-non-nil semantics so an explicit zero value can still be written.
type InfoPatch struct {
	Status           *Status
	Word             *string
	Category         *string
	SpyCount         *int
	TotalRounds      *int
	CurrentRound     *int
	CurrentTurnIndex *int
	TurnOrder        *[]string
	LockedPlayers    *[]string
	// ContinuePressed merges per-player flags; ResetContinuePressed clears
	// the whole map first.
	ContinuePressed      map[string]bool
	ResetContinuePressed bool
	ResultText           *string
	GuessedSpyIDs        *[]string
	SpyWordGuesses       map[string]string
	ClearSpyWordGuesses  bool
	WordRevealed         *bool
	GameID               *string
}

func (p Patch) apply(room *RoomSnapshot) {
	if p.Info != nil {
		p.Info.apply(&room.Info)
	}
	for _, upsert := range p.UpsertPlayers {
		replaced := false
		for i := range room.Players {
			if room.Players[i].ID == upsert.ID {
				room.Players[i] = upsert
				replaced = true
				break
			}
		}
		if !replaced {
			room.Players = append(room.Players, upsert)
		}
	}
	for _, id := range p.RemovePlayerIDs {
		for i := range room.Players {
			if room.Players[i].ID == id {
				room.Players = append(room.Players[:i], room.Players[i+1:]...)
				break
			}
		}
	}
	for round, words := range p.ClueWords {
		if room.Rounds[round] == nil {
			room.Rounds[round] = make(map[string]string)
		}
		for playerID, word := range words {
			room.Rounds[round][playerID] = word
		}
	}
	for voter, votes := range p.Ballots {
		room.Ballots[voter] = append([]string(nil), votes...)
	}
}

func (p InfoPatch) apply(info *RoomInfo) {
	if p.Status != nil {
		info.Status = *p.Status
	}
	if p.Word != nil {
		info.Word = *p.Word
	}
	if p.Category != nil {
		info.Category = *p.Category
	}
	if p.SpyCount != nil {
		info.SpyCount = *p.SpyCount
	}
	if p.TotalRounds != nil {
		info.TotalRounds = *p.TotalRounds
	}
	if p.CurrentRound != nil {
		info.CurrentRound = *p.CurrentRound
	}
	if p.CurrentTurnIndex != nil {
		info.CurrentTurnIndex = *p.CurrentTurnIndex
	}
	if p.TurnOrder != nil {
		info.TurnOrder = append([]string(nil), *p.TurnOrder...)
	}
	if p.LockedPlayers != nil {
		info.LockedPlayers = append([]string(nil), *p.LockedPlayers...)
	}
	if p.ResetContinuePressed {
		info.ContinuePressed = make(map[string]bool)
	}
	for id, pressed := range p.ContinuePressed {
		if info.ContinuePressed == nil {
			info.ContinuePressed = make(map[string]bool)
		}
		info.ContinuePressed[id] = pressed
	}
	if p.ResultText != nil {
		info.ResultText = *p.ResultText
	}
	if p.GuessedSpyIDs != nil {
		info.GuessedSpyIDs = append([]string(nil), *p.GuessedSpyIDs...)
	}
	if p.ClearSpyWordGuesses {
		info.SpyWordGuesses = make(map[string]string)
	}
	for id, guess := range p.SpyWordGuesses {
		if info.SpyWordGuesses == nil {
			info.SpyWordGuesses = make(map[string]string)
		}
		info.SpyWordGuesses[id] = guess
	}
	if p.WordRevealed != nil {
		info.WordRevealed = *p.WordRevealed
	}
	if p.GameID != nil {
		info.GameID = *p.GameID
	}
}
