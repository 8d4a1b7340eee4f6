package db

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	ID               uint   `gorm:"primaryKey"`
	Code             string `gorm:"size:12;uniqueIndex;not null"`
	HostKey          string `gorm:"size:64;not null"`
	Status           string `gorm:"size:32;not null"`
	Word             string `gorm:"size:120"`
	Category         string `gorm:"size:64"`
	SpyCount         int    `gorm:"not null;default:1"`
	TotalRounds      int    `gorm:"not null;default:3"`
	CurrentRound     int    `gorm:"not null;default:0"`
	CurrentTurnIndex int    `gorm:"not null;default:-1"`
	TurnOrder        datatypes.JSON
	LockedPlayers    datatypes.JSON
	GameID           string    `gorm:"size:64;index"`
	WordRevealed     bool      `gorm:"not null;default:false"`
	ResultText       string    `gorm:"size:280"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	Players          []Player
	Clues            []Clue
	Ballots          []Ballot
	Events           []Event
}

type Player struct {
	ID           uint      `gorm:"primaryKey"`
	RoomID       uint      `gorm:"index;not null;uniqueIndex:idx_players_room_key"`
	PlayerKey    string    `gorm:"size:64;not null;uniqueIndex:idx_players_room_key"`
	Name         string    `gorm:"size:64;not null"`
	Role         string    `gorm:"size:16"`
	IsSelected   bool      `gorm:"not null;default:false"`
	IsEliminated bool      `gorm:"not null;default:false"`
	AvatarName   string    `gorm:"size:64"`
	JoinedAt     time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type Clue struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_clues_room_game_round_player"`
	GameID    string    `gorm:"size:64;not null;uniqueIndex:idx_clues_room_game_round_player"`
	Round     int       `gorm:"not null;uniqueIndex:idx_clues_room_game_round_player"`
	PlayerKey string    `gorm:"size:64;not null;uniqueIndex:idx_clues_room_game_round_player"`
	Word      string    `gorm:"size:120;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Ballot struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null;uniqueIndex:idx_ballots_room_game_voter"`
	GameID    string         `gorm:"size:64;not null;uniqueIndex:idx_ballots_room_game_voter"`
	VoterKey  string         `gorm:"size:64;not null;uniqueIndex:idx_ballots_room_game_voter"`
	Votes     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

type DeckWord struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:120;not null;uniqueIndex:idx_deck_words_text_category"`
	Category  string    `gorm:"size:64;not null;uniqueIndex:idx_deck_words_text_category"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
