package room

import "errors"

// Command validation errors. Each rejection happens before any commit is
// attempted, so an invalid command never produces a partial write.
var (
	ErrPermissionDenied = errors.New("only the host can do that")
	ErrInvalidState     = errors.New("not allowed in the current phase")
	ErrValidationFailed = errors.New("invalid input")
	ErrNotYourTurn      = errors.New("not your turn")
)
