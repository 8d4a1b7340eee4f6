// Package session is the client-facing seam of the room service: one
// Session per connected client view, holding a live subscription to the
// room document and translating user intents into state-machine commands.
// Sessions are the only component that commits to the store.
package session

import (
	"sync"

	"spyword/internal/room"
	"spyword/internal/store"
)

// Store is the slice of the room store a session needs.
type Store interface {
	Get(code string) (store.RoomSnapshot, error)
	Commit(code string, patch store.Patch) error
	DeleteCollection(code string, collection store.Collection) error
	Subscribe(code string, fn func(store.RoomSnapshot)) (*store.Subscription, error)
}

type Session struct {
	store    Store
	machine  *room.Machine
	code     string
	playerID string

	mu       sync.Mutex
	view     RoomView
	haveView bool
	sub      *store.Subscription
	closed   bool

	updates chan RoomView
	errs    chan error
}

func New(st Store, machine *room.Machine, code, playerID string) *Session {
	return &Session{
		store:    st,
		machine:  machine,
		code:     code,
		playerID: playerID,
		updates:  make(chan RoomView, 16),
		errs:     make(chan error, 8),
	}
}

func (s *Session) Code() string     { return s.code }
func (s *Session) PlayerID() string { return s.playerID }

// Open starts the live subscription. The current view is delivered first,
// then one view per committed change that alters something the client
// cares about.
func (s *Session) Open() error {
	sub, err := s.store.Subscribe(s.code, s.onChange)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Close tears down the subscription and closes both channels. In-flight
// commands complete and their results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	close(s.updates)
	close(s.errs)
	s.mu.Unlock()
	if sub != nil {
		sub.Close()
	}
}

// Updates delivers denormalized room views. Redundant snapshots that do not
// change the view are dropped; slow consumers get the newest view, not
// every intermediate one.
func (s *Session) Updates() <-chan RoomView { return s.updates }

// Errors surfaces asynchronous store failures. A failed commit leaves the
// room at its last known-good state; retrying the intent is always safe.
func (s *Session) Errors() <-chan error { return s.errs }

// View returns the most recently built view, if any change has arrived yet.
func (s *Session) View() (RoomView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.haveView
}

func (s *Session) onChange(snap store.RoomSnapshot) {
	view := BuildView(snap, s.playerID)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.haveView && s.view.Equal(view) {
		s.mu.Unlock()
		return
	}
	s.view = view
	s.haveView = true
	// Send while holding the lock: the channel is buffered and the drain
	// below guarantees the send never blocks. Close also takes the lock,
	// so a send on a closed channel cannot happen.
	for {
		select {
		case s.updates <- view:
			s.mu.Unlock()
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Intents. Each validates synchronously through the state machine and
// returns only validation errors; store failures surface on Errors().

func (s *Session) Join(name, avatarName string) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.Join(snap, s.playerID, name, avatarName)
		return patch, room.Effects{}, err
	})
}

func (s *Session) BeginArranging() error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.BeginArranging(snap, s.playerID)
		return patch, room.Effects{}, err
	})
}

func (s *Session) CancelArranging() error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.CancelArranging(snap, s.playerID)
		return patch, room.Effects{}, err
	})
}

func (s *Session) SaveSelection(ids []string) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.SaveSelection(snap, s.playerID, ids)
		return patch, room.Effects{}, err
	})
}

func (s *Session) StartGame(settings room.GameSettings) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		return s.machine.StartGame(snap, s.playerID, settings)
	})
}

func (s *Session) SetContinuePressed(pressed bool) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.SetContinuePressed(snap, s.playerID, pressed)
		return patch, room.Effects{}, err
	})
}

func (s *Session) SubmitClueWord(word string) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.SubmitClue(snap, s.playerID, word)
		return patch, room.Effects{}, err
	})
}

func (s *Session) CastVotes(accused []string) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.CastVotes(snap, s.playerID, accused)
		return patch, room.Effects{}, err
	})
}

func (s *Session) SubmitSpyWordGuess(guess string) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.SubmitSpyWordGuess(snap, s.playerID, guess)
		return patch, room.Effects{}, err
	})
}

func (s *Session) FinishVoting(force bool) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.FinishVoting(snap, s.playerID, force)
		return patch, room.Effects{}, err
	})
}

func (s *Session) RevealWord() error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, _, err := s.machine.RevealWord(snap, s.playerID)
		return patch, room.Effects{}, err
	})
}

func (s *Session) EndGame() error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		return s.machine.EndGame(snap, s.playerID)
	})
}

func (s *Session) RemovePlayer(targetID string) error {
	return s.apply(func(snap store.RoomSnapshot) (store.Patch, room.Effects, error) {
		patch, err := s.machine.RemovePlayer(snap, s.playerID, targetID)
		return patch, room.Effects{}, err
	})
}

func (s *Session) apply(command func(store.RoomSnapshot) (store.Patch, room.Effects, error)) error {
	snap, err := s.store.Get(s.code)
	if err != nil {
		return err
	}
	patch, effects, err := command(snap)
	if err != nil {
		return err
	}
	// The phase commit and the collection clears are independent store
	// operations; readers gate on gameId, so ordering between them does
	// not matter.
	if effects.ClearRounds {
		if err := s.store.DeleteCollection(s.code, store.CollectionRounds); err != nil {
			s.reportError(err)
		}
	}
	if effects.ClearBallots {
		if err := s.store.DeleteCollection(s.code, store.CollectionBallots); err != nil {
			s.reportError(err)
		}
	}
	if err := s.store.Commit(s.code, patch); err != nil {
		s.reportError(err)
	}
	return nil
}

func (s *Session) reportError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.errs <- err:
	default:
	}
}
