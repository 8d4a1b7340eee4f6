package server

import (
	"log"
	"net/http"

	"spyword/internal/room"
	"spyword/internal/session"
	"spyword/internal/store"
)

type createRoomRequest struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	AvatarName string `json:"avatar_name"`
}

type joinRequest struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	AvatarName string `json:"avatar_name"`
}

type actorRequest struct {
	PlayerID string `json:"player_id"`
}

type selectionRequest struct {
	PlayerID  string   `json:"player_id"`
	PlayerIDs []string `json:"player_ids"`
}

type startRequest struct {
	PlayerID    string `json:"player_id"`
	WordMode    string `json:"word_mode"`
	Word        string `json:"word"`
	Category    string `json:"category"`
	SpyCount    *int   `json:"spy_count"`
	TotalRounds *int   `json:"total_rounds"`
}

type clueRequest struct {
	PlayerID string `json:"player_id"`
	Word     string `json:"word"`
}

type votesRequest struct {
	PlayerID string   `json:"player_id"`
	Votes    []string `json:"votes"`
}

type finishVotingRequest struct {
	PlayerID string `json:"player_id"`
	Force    bool   `json:"force"`
}

type spyGuessRequest struct {
	PlayerID string `json:"player_id"`
	Guess    string `json:"guess"`
}

type kickRequest struct {
	PlayerID string `json:"player_id"`
	TargetID string `json:"target_id"`
}

type continueRequest struct {
	PlayerID string `json:"player_id"`
	Pressed  bool   `json:"pressed"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "player_id and name are required")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	avatar, err := validateAvatar(req.AvatarName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code, err := room.UniqueRoomCode(s.store.Exists)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	if err := s.store.Create(room.NewRoom(code, req.PlayerID, name, avatar)); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.persistRoom(code)
	s.persistEvent(code, "room_created", eventPayload{RoomCode: code, PlayerID: req.PlayerID, PlayerName: name})
	log.Printf("room created room_code=%s host_id=%s", code, req.PlayerID)
	writeJSON(w, http.StatusCreated, map[string]string{"room_code": code})
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	code, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "":
			s.handleGetRoom(w, r, code)
		case "view":
			s.handleGetView(w, r, code)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoin(w, r, code)
		case "arrange":
			s.handleBeginArranging(w, r, code)
		case "cancel":
			s.handleCancelArranging(w, r, code)
		case "selection":
			s.handleSaveSelection(w, r, code)
		case "start":
			s.handleStartGame(w, r, code)
		case "clues":
			s.handleSubmitClue(w, r, code)
		case "votes":
			s.handleCastVotes(w, r, code)
		case "finish-voting":
			s.handleFinishVoting(w, r, code)
		case "spy-guess":
			s.handleSpyWordGuess(w, r, code)
		case "reveal":
			s.handleRevealWord(w, r, code)
		case "end":
			s.handleEndGame(w, r, code)
		case "kick":
			s.handleRemovePlayer(w, r, code)
		case "continue":
			s.handleContinuePressed(w, r, code)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, code string) {
	snap, err := s.store.Get(code)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request, code string) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	snap, err := s.store.Get(code)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, session.BuildView(snap, playerID))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, code string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id and name are required")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	avatar, err := validateAvatar(req.AvatarName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sessionFor(code, req.PlayerID).Join(name, avatar); err != nil {
		writeCommandError(w, err)
		return
	}
	s.persistPlayer(code, req.PlayerID)
	s.persistEvent(code, "player_joined", eventPayload{RoomCode: code, PlayerID: req.PlayerID, PlayerName: name})
	log.Printf("player joined room_code=%s player_id=%s player_name=%s", code, req.PlayerID, name)
	writeJSON(w, http.StatusOK, map[string]string{"room_code": code})
}

func (s *Server) handleBeginArranging(w http.ResponseWriter, r *http.Request, code string) {
	var req actorRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).BeginArranging(); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(store.StatusArranging)})
}

func (s *Server) handleCancelArranging(w http.ResponseWriter, r *http.Request, code string) {
	var req actorRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).CancelArranging(); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(store.StatusWaiting)})
}

func (s *Server) handleSaveSelection(w http.ResponseWriter, r *http.Request, code string) {
	var req selectionRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).SaveSelection(req.PlayerIDs); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	writeJSON(w, http.StatusOK, map[string]any{"selected": len(req.PlayerIDs)})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request, code string) {
	var req startRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	settings := room.GameSettings{
		WordMode:    room.WordMode(req.WordMode),
		Category:    req.Category,
		SpyCount:    s.cfg.DefaultSpyCount,
		TotalRounds: s.cfg.DefaultTotalRounds,
	}
	if req.SpyCount != nil {
		settings.SpyCount = *req.SpyCount
	}
	if req.TotalRounds != nil {
		settings.TotalRounds = *req.TotalRounds
	}
	if settings.TotalRounds > maxRoundsPerGame {
		writeError(w, http.StatusBadRequest, "too many rounds")
		return
	}
	switch settings.WordMode {
	case room.WordModeCustom:
		word, err := validateCustomWord(req.Word)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		settings.Word = word
	case room.WordModeRandom:
		entry, err := s.words.Random(req.Category)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to draw a word")
			return
		}
		settings.Word = entry.Text
		settings.Category = entry.Category
	}
	if err := s.sessionFor(code, req.PlayerID).StartGame(settings); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	s.persistEvent(code, "game_started", eventPayload{
		RoomCode:    code,
		PlayerID:    req.PlayerID,
		WordMode:    string(settings.WordMode),
		SpyCount:    settings.SpyCount,
		TotalRounds: settings.TotalRounds,
	})
	log.Printf("game started room_code=%s word_mode=%s rounds=%d", code, settings.WordMode, settings.TotalRounds)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(store.StatusStarted)})
}

func (s *Server) handleSubmitClue(w http.ResponseWriter, r *http.Request, code string) {
	var req clueRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	word, err := validateClue(req.Word)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sessionFor(code, req.PlayerID).SubmitClueWord(word); err != nil {
		writeCommandError(w, err)
		return
	}
	s.persistClue(code, req.PlayerID, word)
	s.mirrorRoom(code)
	s.persistEvent(code, "clue_submitted", eventPayload{RoomCode: code, PlayerID: req.PlayerID})
	writeJSON(w, http.StatusOK, map[string]string{"clue": word})
}

func (s *Server) handleCastVotes(w http.ResponseWriter, r *http.Request, code string) {
	var req votesRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).CastVotes(req.Votes); err != nil {
		writeCommandError(w, err)
		return
	}
	s.persistBallot(code, req.PlayerID, req.Votes)
	s.persistEvent(code, "votes_cast", eventPayload{RoomCode: code, PlayerID: req.PlayerID, Count: len(req.Votes)})
	writeJSON(w, http.StatusOK, map[string]any{"votes": len(req.Votes)})
}

func (s *Server) handleFinishVoting(w http.ResponseWriter, r *http.Request, code string) {
	var req finishVotingRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).FinishVoting(req.Force); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	s.persistEvent(code, "voting_finished", eventPayload{RoomCode: code, PlayerID: req.PlayerID, Forced: req.Force})
	log.Printf("voting finished room_code=%s forced=%t", code, req.Force)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(store.StatusResult)})
}

func (s *Server) handleSpyWordGuess(w http.ResponseWriter, r *http.Request, code string) {
	var req spyGuessRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	guess, err := validateSpyGuess(req.Guess)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sessionFor(code, req.PlayerID).SubmitSpyWordGuess(guess); err != nil {
		writeCommandError(w, err)
		return
	}
	s.persistEvent(code, "spy_word_guessed", eventPayload{RoomCode: code, PlayerID: req.PlayerID})
	writeJSON(w, http.StatusOK, map[string]string{"guess": guess})
}

func (s *Server) handleRevealWord(w http.ResponseWriter, r *http.Request, code string) {
	var req actorRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).RevealWord(); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	s.persistEvent(code, "word_revealed", eventPayload{RoomCode: code, PlayerID: req.PlayerID})
	log.Printf("word revealed room_code=%s", code)
	writeJSON(w, http.StatusOK, map[string]bool{"revealed": true})
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request, code string) {
	var req actorRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).EndGame(); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	s.persistEvent(code, "game_ended", eventPayload{RoomCode: code, PlayerID: req.PlayerID})
	log.Printf("game ended room_code=%s", code)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(store.StatusWaiting)})
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request, code string) {
	var req kickRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "player_id and target_id are required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).RemovePlayer(req.TargetID); err != nil {
		writeCommandError(w, err)
		return
	}
	s.mirrorRoom(code)
	s.persistEvent(code, "player_removed", eventPayload{RoomCode: code, PlayerID: req.TargetID})
	log.Printf("player removed room_code=%s player_id=%s by=%s", code, req.TargetID, req.PlayerID)
	writeJSON(w, http.StatusOK, map[string]string{"removed": req.TargetID})
}

func (s *Server) handleContinuePressed(w http.ResponseWriter, r *http.Request, code string) {
	var req continueRequest
	if err := readJSON(r.Body, &req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if err := s.sessionFor(code, req.PlayerID).SetContinuePressed(req.Pressed); err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"pressed": req.Pressed})
}

func (s *Server) drainSessionErrors(sess *session.Session) {
	for err := range sess.Errors() {
		log.Printf("session error room_code=%s player_id=%s error=%v", sess.Code(), sess.PlayerID(), err)
	}
}
