package store

import (
	"sync"
	"time"
)

// MemoryStore is the room document store: mutex-serialized commits per the
// whole store, field-merge patch semantics per room, and live subscriptions
// notified in commit order. It is the single authoritative copy of room
// state; durable mirroring happens elsewhere and is best-effort.
type MemoryStore struct {
	mu     sync.Mutex
	rooms  map[string]*RoomSnapshot
	subs   map[string]map[int]*Subscription
	nextID int

	// notifyMu serializes fanout. It is acquired before mu is released so
	// deliveries cannot reorder across commits; lock order is always
	// mu then notifyMu.
	notifyMu sync.Mutex
}

// Subscription is a live feed of committed snapshots for one room.
type Subscription struct {
	store *MemoryStore
	code  string
	id    int
	fn    func(RoomSnapshot)

	closeOnce sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*RoomSnapshot),
		subs:  make(map[string]map[int]*Subscription),
	}
}

// Create inserts a new room document. The code must not already exist.
func (s *MemoryStore) Create(room RoomSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code]; ok {
		return ErrRoomExists
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	if room.Rounds == nil {
		room.Rounds = make(map[int]map[string]string)
	}
	if room.Ballots == nil {
		room.Ballots = make(map[string][]string)
	}
	if room.Info.ContinuePressed == nil {
		room.Info.ContinuePressed = make(map[string]bool)
	}
	if room.Info.SpyWordGuesses == nil {
		room.Info.SpyWordGuesses = make(map[string]string)
	}
	stored := cloneSnapshot(room)
	s.rooms[room.Code] = &stored
	return nil
}

func (s *MemoryStore) Exists(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rooms[code]
	return ok
}

// Get returns a copy of the room document.
func (s *MemoryStore) Get(code string) (RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return RoomSnapshot{}, ErrNotFound
	}
	return cloneSnapshot(*room), nil
}

// Commit applies a merge-style patch and notifies subscribers with the
// resulting snapshot. Concurrent commits to the same field resolve
// last-write-wins.
func (s *MemoryStore) Commit(code string, patch Patch) error {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	patch.apply(room)
	room.UpdatedAt = time.Now().UTC()
	s.notify(s.subscribers(code), cloneSnapshot(*room))
	return nil
}

// DeleteCollection clears a room sub-collection wholesale. Readers observing
// the room mid-clear are expected to gate on gameId, so partial visibility
// is benign.
func (s *MemoryStore) DeleteCollection(code string, collection Collection) error {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	switch collection {
	case CollectionRounds:
		room.Rounds = make(map[int]map[string]string)
	case CollectionBallots:
		room.Ballots = make(map[string][]string)
	}
	room.UpdatedAt = time.Now().UTC()
	s.notify(s.subscribers(code), cloneSnapshot(*room))
	return nil
}

// Subscribe registers a change listener for one room. The callback runs for
// every committed change, in commit order, starting with the current
// snapshot; duplicate identical snapshots may be delivered.
func (s *MemoryStore) Subscribe(code string, fn func(RoomSnapshot)) (*Subscription, error) {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	sub := &Subscription{store: s, code: code, id: s.nextID, fn: fn}
	s.nextID++
	group := s.subs[code]
	if group == nil {
		group = make(map[int]*Subscription)
		s.subs[code] = group
	}
	group[sub.id] = sub
	s.notify([]*Subscription{sub}, cloneSnapshot(*room))
	return sub, nil
}

// Close tears down the subscription. No callback runs after Close returns
// once any in-flight notification has drained.
func (sub *Subscription) Close() {
	sub.closeOnce.Do(func() {
		sub.store.mu.Lock()
		if group, ok := sub.store.subs[sub.code]; ok {
			delete(group, sub.id)
			if len(group) == 0 {
				delete(sub.store.subs, sub.code)
			}
		}
		sub.store.mu.Unlock()
	})
}

// Delete removes a room document and drops its subscriptions.
func (s *MemoryStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	delete(s.subs, code)
}

// ListCodes returns every room code currently held.
func (s *MemoryStore) ListCodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Sweep deletes rooms not touched within ttl and reports the codes removed.
func (s *MemoryStore) Sweep(ttl time.Duration) []string {
	cutoff := time.Now().UTC().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := make([]string, 0)
	for code, room := range s.rooms {
		if room.UpdatedAt.Before(cutoff) {
			delete(s.rooms, code)
			delete(s.subs, code)
			removed = append(removed, code)
		}
	}
	return removed
}

func (s *MemoryStore) subscribers(code string) []*Subscription {
	group := s.subs[code]
	subs := make([]*Subscription, 0, len(group))
	for _, sub := range group {
		subs = append(subs, sub)
	}
	return subs
}

// notify fans a snapshot out to subscribers. It must be called with mu
// held and releases it: notifyMu is taken before mu goes, so a later
// commit cannot start its fanout ahead of an earlier one. Callbacks run
// without mu, so they may call back into the store.
func (s *MemoryStore) notify(subs []*Subscription, snapshot RoomSnapshot) {
	if len(subs) == 0 {
		s.mu.Unlock()
		return
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(snapshot)
	}
	s.notifyMu.Unlock()
}
