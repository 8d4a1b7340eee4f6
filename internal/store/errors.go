package store

import "errors"

var (
	ErrNotFound   = errors.New("room not found")
	ErrRoomExists = errors.New("room already exists")
)
