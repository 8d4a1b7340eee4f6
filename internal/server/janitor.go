package server

import (
	"log"
	"time"
)

// StartJanitor launches the background sweep that expires idle rooms.
// Closing the returned channel stops the loop.
func (s *Server) StartJanitor() chan struct{} {
	stop := make(chan struct{})
	interval := time.Duration(s.cfg.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweepIdleRooms()
			case <-stop:
				return
			}
		}
	}()
	return stop
}

func (s *Server) sweepIdleRooms() {
	ttl := time.Duration(s.cfg.RoomTTLHours) * time.Hour
	if ttl <= 0 {
		return
	}
	removed := s.store.Sweep(ttl)
	for _, code := range removed {
		s.dropSessions(code)
		s.ws.CloseRoom(code)
		log.Printf("room expired room_code=%s", code)
	}
}
