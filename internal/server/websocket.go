package server

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"spyword/internal/room"
	"spyword/internal/session"
	"spyword/internal/store"

	"github.com/gorilla/websocket"
)

type wsHub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		rooms: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[code]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.rooms[code] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[code]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.rooms, code)
	}
}

// CloseRoom drops every connection for a room, used when the room itself
// goes away.
func (h *wsHub) CloseRoom(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.rooms[code] {
		_ = conn.Close()
	}
	delete(h.rooms, code)
}

// handleWebsocket streams per-player room views. Each connection gets its
// own session whose subscription delivers a view on every committed change.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	code, ok := parseWebsocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	if !s.store.Exists(code) {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected room_code=%s player_id=%s remote=%s", code, playerID, r.RemoteAddr)

	sess := session.New(s.store, s.machine, code, playerID)
	if err := sess.Open(); err != nil {
		_ = conn.Close()
		return
	}
	s.ws.Add(code, conn)

	go s.writeWS(code, conn, sess)
	go s.readWS(code, playerID, conn, sess)
}

func (s *Server) writeWS(code string, conn *websocket.Conn, sess *session.Session) {
	for view := range sess.Updates() {
		if err := conn.WriteJSON(view); err != nil {
			s.ws.Remove(code, conn)
			return
		}
	}
}

func (s *Server) readWS(code, playerID string, conn *websocket.Conn, sess *session.Session) {
	defer func() {
		sess.Close()
		s.ws.Remove(code, conn)
		s.hostDisconnected(code, playerID)
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected room_code=%s player_id=%s error=%v", code, playerID, err)
			return
		}
	}
}

// hostDisconnected force-ends a running game when the host drops, so the
// remaining players are not stranded mid-phase.
func (s *Server) hostDisconnected(code, playerID string) {
	snap, err := s.store.Get(code)
	if err != nil || snap.Info.HostID != playerID {
		return
	}
	if snap.Info.Status == store.StatusWaiting {
		return
	}
	sess := s.sessionFor(code, playerID)
	if err := sess.EndGame(); err != nil {
		if !errors.Is(err, room.ErrInvalidState) {
			log.Printf("host disconnect cleanup failed room_code=%s error=%v", code, err)
		}
		return
	}
	s.mirrorRoom(code)
	s.persistEvent(code, "game_ended", eventPayload{RoomCode: code, PlayerID: playerID, Reason: "host_disconnected"})
	log.Printf("game ended room_code=%s reason=host_disconnected", code)
}
