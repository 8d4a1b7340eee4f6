package server

import (
	"net/http"
	"sync"

	"spyword/internal/config"
	"spyword/internal/room"
	"spyword/internal/session"
	"spyword/internal/store"

	"gorm.io/gorm"
)

type Server struct {
	store   *store.MemoryStore
	machine *room.Machine
	db      *gorm.DB
	ws      *wsHub
	cfg     config.Config
	words   *wordDeck

	sessionsMu sync.Mutex
	sessions   map[sessionKey]*session.Session
}

type sessionKey struct {
	code     string
	playerID string
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:    store.NewMemoryStore(),
		machine:  room.NewMachine(),
		db:       conn,
		ws:       newWSHub(),
		cfg:      cfg,
		words:    newWordDeck(conn),
		sessions: make(map[sessionKey]*session.Session),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("POST /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("GET /ws/rooms/", s.handleWebsocket)
	return mux
}

// sessionFor returns the session facade for one client in one room,
// creating it on first use. Sessions are the only path to store commits.
func (s *Server) sessionFor(code, playerID string) *session.Session {
	key := sessionKey{code: code, playerID: playerID}
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	if existing, ok := s.sessions[key]; ok {
		return existing
	}
	sess := session.New(s.store, s.machine, code, playerID)
	s.sessions[key] = sess
	go s.drainSessionErrors(sess)
	return sess
}

func (s *Server) dropSessions(code string) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	for key, sess := range s.sessions {
		if key.code == code {
			sess.Close()
			delete(s.sessions, key)
		}
	}
}
