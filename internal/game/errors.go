package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGuessLength     = errors.New("invalid guess length")
	ErrInvalidGuessCharacters = errors.New("invalid guess characters")
	ErrInvalidConfiguration   = errors.New("invalid game configuration")
)

// GuessLengthError reports a guess whose length differs from the code length.
type GuessLengthError struct {
	Expected int
	Actual   int
}

func (e *GuessLengthError) Error() string {
	return fmt.Sprintf("invalid guess length: code length is %d; guess length is %d", e.Expected, e.Actual)
}

func (e *GuessLengthError) Is(target error) bool { return target == ErrInvalidGuessLength }

// GuessCharacterError reports guess symbols outside the pool.
// Invalid keeps the offending symbols in order, duplicates included.
type GuessCharacterError struct {
	Pool    string
	Invalid string
}

func (e *GuessCharacterError) Error() string {
	return fmt.Sprintf("guess includes invalid characters: pool is %q; guess included %q", e.Pool, e.Invalid)
}

func (e *GuessCharacterError) Is(target error) bool { return target == ErrInvalidGuessCharacters }

// ConfigError reports a pool or length that cannot produce a playable game.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "invalid game configuration: " + e.Reason }

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfiguration }
