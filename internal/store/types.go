package store

import "time"

// Status is the single authoritative room phase. Every client branches on it.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusArranging  Status = "arranging"
	StatusStarted    Status = "started"
	StatusGuessReady Status = "guess-ready"
	StatusResult     Status = "result"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusArranging, StatusStarted, StatusGuessReady, StatusResult:
		return true
	}
	return false
}

// InGame reports whether the room is in an active game phase.
func (s Status) InGame() bool {
	return s == StatusStarted || s == StatusGuessReady || s == StatusResult
}

type Role string

const (
	RoleNone   Role = ""
	RoleSpy    Role = "spy"
	RoleKnower Role = "knower"
)

type Collection string

const (
	CollectionRounds  Collection = "rounds"
	CollectionBallots Collection = "ballots"
)

// NoTurn is the currentTurnIndex sentinel used between submissions and
// outside active rounds.
const NoTurn = -1

// RoomInfo holds the top-level fields of one room document.
type RoomInfo struct {
	HostID           string            `json:"host_id"`
	Status           Status            `json:"status"`
	Word             string            `json:"word"`
	Category         string            `json:"category,omitempty"`
	SpyCount         int               `json:"spy_count"`
	TotalRounds      int               `json:"total_rounds"`
	CurrentRound     int               `json:"current_round"`
	CurrentTurnIndex int               `json:"current_turn_index"`
	TurnOrder        []string          `json:"turn_order"`
	LockedPlayers    []string          `json:"locked_players"`
	ContinuePressed  map[string]bool   `json:"continue_pressed"`
	ResultText       string            `json:"result_text,omitempty"`
	GuessedSpyIDs    []string          `json:"guessed_spy_ids"`
	SpyWordGuesses   map[string]string `json:"spy_word_guesses"`
	WordRevealed     bool              `json:"word_revealed"`
	GameID           string            `json:"game_id"`
}

// PlayerRecord is one participant document, keyed by device identity.
type PlayerRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsSelected   bool      `json:"is_selected"`
	IsEliminated bool      `json:"is_eliminated"`
	AvatarName   string    `json:"avatar_name,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

// RoomSnapshot is a full, immutable copy of one room: info fields, player
// sub-records, per-round clue words and per-voter ballots.
type RoomSnapshot struct {
	Code      string                    `json:"code"`
	Info      RoomInfo                  `json:"info"`
	Players   []PlayerRecord            `json:"players"`
	Rounds    map[int]map[string]string `json:"rounds"`
	Ballots   map[string][]string       `json:"ballots"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Player returns the player record with the given id, if present.
func (r RoomSnapshot) Player(id string) (PlayerRecord, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerRecord{}, false
}

// IsLocked reports whether id belongs to the current game's selection.
func (r RoomSnapshot) IsLocked(id string) bool {
	for _, locked := range r.Info.LockedPlayers {
		if locked == id {
			return true
		}
	}
	return false
}

// SpyIDs returns the ids of all players currently holding the spy role.
func (r RoomSnapshot) SpyIDs() []string {
	ids := make([]string, 0)
	for _, p := range r.Players {
		if p.Role == RoleSpy {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// PlayerNames maps ids to display names, falling back to the raw id for
// records that no longer exist.
func (r RoomSnapshot) PlayerNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.Player(id); ok {
			names = append(names, p.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

// CurrentTurnPlayer returns the id whose turn it is, or "" when no turn is
// active.
func (r RoomSnapshot) CurrentTurnPlayer() string {
	idx := r.Info.CurrentTurnIndex
	if idx < 0 || idx >= len(r.Info.TurnOrder) {
		return ""
	}
	return r.Info.TurnOrder[idx]
}

func cloneSnapshot(r RoomSnapshot) RoomSnapshot {
	out := r
	out.Info.TurnOrder = append([]string(nil), r.Info.TurnOrder...)
	out.Info.LockedPlayers = append([]string(nil), r.Info.LockedPlayers...)
	out.Info.GuessedSpyIDs = append([]string(nil), r.Info.GuessedSpyIDs...)
	out.Info.ContinuePressed = cloneBoolMap(r.Info.ContinuePressed)
	out.Info.SpyWordGuesses = cloneStringMap(r.Info.SpyWordGuesses)
	out.Players = append([]PlayerRecord(nil), r.Players...)
	out.Rounds = make(map[int]map[string]string, len(r.Rounds))
	for round, words := range r.Rounds {
		out.Rounds[round] = cloneStringMap(words)
	}
	out.Ballots = make(map[string][]string, len(r.Ballots))
	for voter, votes := range r.Ballots {
		out.Ballots[voter] = append([]string(nil), votes...)
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
