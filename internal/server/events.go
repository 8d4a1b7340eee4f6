package server

type eventPayload struct {
	RoomCode    string `json:"room_code,omitempty"`
	PlayerID    string `json:"player_id,omitempty"`
	PlayerName  string `json:"player,omitempty"`
	WordMode    string `json:"word_mode,omitempty"`
	SpyCount    int    `json:"spy_count,omitempty"`
	TotalRounds int    `json:"total_rounds,omitempty"`
	Forced      bool   `json:"forced,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Count       int    `json:"count,omitempty"`
}
