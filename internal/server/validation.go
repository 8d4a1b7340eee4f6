package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxNameLength    = 20
	maxClueLength    = 40
	maxWordLength    = 60
	maxAvatarLength  = 64
	maxSpyGuessLen   = 60
	maxRoundsPerGame = 10
)

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateClue(text string) (string, error) {
	return validateText("clue", text, maxClueLength)
}

func validateCustomWord(text string) (string, error) {
	return validateText("word", text, maxWordLength)
}

func validateSpyGuess(text string) (string, error) {
	return validateText("guess", text, maxSpyGuessLen)
}

func validateAvatar(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) > maxAvatarLength {
		return "", errors.New("avatar name is too long")
	}
	return trimmed, nil
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
