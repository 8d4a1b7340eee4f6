package room

import (
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	maxCodeAttempts = 8
)

// NewRoomCode returns a random 6-character uppercase alphanumeric code.
func NewRoomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf)
}

// UniqueRoomCode generates codes until one passes the exists check,
// retrying on collision a bounded number of times.
func UniqueRoomCode(exists func(string) bool) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := NewRoomCode()
		if !exists(code) {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free room code after %d attempts", maxCodeAttempts)
}
