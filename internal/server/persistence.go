package server

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"spyword/internal/db"
	"spyword/internal/store"

	"github.com/jackc/pgconn"
	"gorm.io/gorm/clause"
)

// The database is a best-effort durable mirror plus an append-only event
// log; the in-memory store stays authoritative. Every helper is a no-op
// without a connection, and a mirror failure never fails the request that
// triggered it.

func (s *Server) persistRoom(code string) {
	if s.db == nil {
		return
	}
	snap, err := s.store.Get(code)
	if err != nil {
		return
	}
	record := roomRecord(snap)
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		log.Printf("persist room failed room_code=%s error=%v", code, err)
	}
}

// mirrorRoom pushes the current info fields and player records to the
// database row for the room.
func (s *Server) mirrorRoom(code string) {
	if s.db == nil {
		return
	}
	snap, err := s.store.Get(code)
	if err != nil {
		return
	}
	roomID, err := s.roomDBID(code)
	if err != nil {
		return
	}
	record := roomRecord(snap)
	if err := s.db.Model(&db.Room{}).Where("id = ?", roomID).Updates(map[string]any{
		"status":             record.Status,
		"word":               record.Word,
		"category":           record.Category,
		"spy_count":          record.SpyCount,
		"total_rounds":       record.TotalRounds,
		"current_round":      record.CurrentRound,
		"current_turn_index": record.CurrentTurnIndex,
		"turn_order":         record.TurnOrder,
		"locked_players":     record.LockedPlayers,
		"game_id":            record.GameID,
		"word_revealed":      record.WordRevealed,
		"result_text":        record.ResultText,
	}).Error; err != nil {
		log.Printf("mirror room failed room_code=%s error=%v", code, err)
		return
	}
	for _, player := range snap.Players {
		s.upsertPlayerRow(roomID, player)
	}
}

func (s *Server) persistPlayer(code, playerID string) {
	if s.db == nil {
		return
	}
	snap, err := s.store.Get(code)
	if err != nil {
		return
	}
	player, ok := snap.Player(playerID)
	if !ok {
		return
	}
	roomID, err := s.roomDBID(code)
	if err != nil {
		return
	}
	s.upsertPlayerRow(roomID, player)
}

func (s *Server) upsertPlayerRow(roomID uint, player store.PlayerRecord) {
	record := db.Player{
		RoomID:       roomID,
		PlayerKey:    player.ID,
		Name:         player.Name,
		Role:         string(player.Role),
		IsSelected:   player.IsSelected,
		IsEliminated: player.IsEliminated,
		AvatarName:   player.AvatarName,
		JoinedAt:     player.JoinedAt,
	}
	err := s.db.Create(&record).Error
	if err == nil {
		return
	}
	if !isUniqueViolation(err) {
		log.Printf("persist player failed player_id=%s error=%v", player.ID, err)
		return
	}
	err = s.db.Model(&db.Player{}).
		Where("room_id = ? AND player_key = ?", roomID, player.ID).
		Updates(map[string]any{
			"name":        player.Name,
			"role":        string(player.Role),
			"is_selected": player.IsSelected,
			"avatar_name": player.AvatarName,
		}).Error
	if err != nil {
		log.Printf("persist player failed player_id=%s error=%v", player.ID, err)
	}
}

func (s *Server) persistClue(code, playerID, word string) {
	if s.db == nil {
		return
	}
	snap, err := s.store.Get(code)
	if err != nil {
		return
	}
	roomID, err := s.roomDBID(code)
	if err != nil {
		return
	}
	// The commit may already have advanced the round counter; the clue
	// belongs to the highest round carrying this player's word.
	round := 0
	for number, words := range snap.Rounds {
		if words[playerID] == word && number > round {
			round = number
		}
	}
	if round == 0 {
		return
	}
	record := db.Clue{
		RoomID:    roomID,
		GameID:    snap.Info.GameID,
		Round:     round,
		PlayerKey: playerID,
		Word:      word,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "game_id"}, {Name: "round"}, {Name: "player_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"word", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		log.Printf("persist clue failed room_code=%s player_id=%s error=%v", code, playerID, err)
	}
}

func (s *Server) persistBallot(code, voterID string, votes []string) {
	if s.db == nil {
		return
	}
	snap, err := s.store.Get(code)
	if err != nil {
		return
	}
	roomID, err := s.roomDBID(code)
	if err != nil {
		return
	}
	payload, err := json.Marshal(votes)
	if err != nil {
		return
	}
	record := db.Ballot{
		RoomID:   roomID,
		GameID:   snap.Info.GameID,
		VoterKey: voterID,
		Votes:    payload,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "game_id"}, {Name: "voter_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"votes", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		log.Printf("persist ballot failed room_code=%s voter_id=%s error=%v", code, voterID, err)
	}
}

func (s *Server) persistEvent(code, eventType string, payload eventPayload) {
	if s.db == nil {
		return
	}
	roomID, err := s.roomDBID(code)
	if err != nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	record := db.Event{
		RoomID:    roomID,
		Type:      eventType,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("persist event failed room_code=%s type=%s error=%v", code, eventType, err)
	}
}

func (s *Server) roomDBID(code string) (uint, error) {
	var record db.Room
	if err := s.db.Select("id").Where("code = ?", code).First(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func roomRecord(snap store.RoomSnapshot) db.Room {
	turnOrder, _ := json.Marshal(snap.Info.TurnOrder)
	locked, _ := json.Marshal(snap.Info.LockedPlayers)
	return db.Room{
		Code:             snap.Code,
		HostKey:          snap.Info.HostID,
		Status:           string(snap.Info.Status),
		Word:             snap.Info.Word,
		Category:         snap.Info.Category,
		SpyCount:         snap.Info.SpyCount,
		TotalRounds:      snap.Info.TotalRounds,
		CurrentRound:     snap.Info.CurrentRound,
		CurrentTurnIndex: snap.Info.CurrentTurnIndex,
		TurnOrder:        turnOrder,
		LockedPlayers:    locked,
		GameID:           snap.Info.GameID,
		WordRevealed:     snap.Info.WordRevealed,
		ResultText:       snap.Info.ResultText,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
