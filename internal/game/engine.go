// internal/game/engine.go
//
// Core game engine for a single Codebreaker session.
// Responsibilities:
//   - Create a session around a freshly generated secret.
//   - Validate guesses (length first, then pool membership).
//   - Score accepted guesses and append them to the history.
//   - Restart: clear the history while keeping the secret.
//
// Notes:
//   - A failed guess never touches the history.
//   - Winning is not tracked here; callers check Feedback.Solved.
package game

import (
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/codebreaker/internal/code"
)

// ValidateConfig checks that pool and length can produce a playable game.
// Hosts call it before New; New itself trusts its arguments.
func ValidateConfig(pool string, length int) error {
	if pool == "" {
		return &ConfigError{Reason: "pool is empty"}
	}
	if !utf8.ValidString(pool) {
		return &ConfigError{Reason: "pool is not valid UTF-8"}
	}
	if length < 1 {
		return &ConfigError{Reason: "length must be at least 1"}
	}
	return nil
}

// New constructs a session with a secret of length symbols drawn from pool.
func New(pool string, length int, rng code.Source) *Game {
	return WithSecret(pool, code.Generate(pool, length, rng))
}

// WithSecret constructs a session around an existing secret.
// The code length is the secret's length.
func WithSecret(pool string, secret code.Secret) *Game {
	allowed := make(map[rune]struct{}, len(pool))
	for _, r := range pool {
		allowed[r] = struct{}{}
	}
	return &Game{
		secret:  secret,
		pool:    pool,
		allowed: allowed,
		length:  secret.Len(),
		guesses: []Feedback{},
	}
}

// Guess validates and scores text, recording the result on success.
//
// Validation rules:
//   - text must hold exactly Length() symbols (*GuessLengthError).
//   - every symbol must belong to the pool (*GuessCharacterError).
func (g *Game) Guess(text string) (Feedback, error) {
	guess := []rune(text)
	if len(guess) != g.length {
		return Feedback{}, &GuessLengthError{Expected: g.length, Actual: len(guess)}
	}
	if bad := g.invalidSymbols(text); bad != "" {
		return Feedback{}, &GuessCharacterError{Pool: g.pool, Invalid: bad}
	}

	correct, close := code.Score(g.secret.Symbols(), guess)
	fb := Feedback{Text: text, Correct: correct, Close: close}
	g.guesses = append(g.guesses, fb)
	return fb, nil
}

// invalidSymbols returns the symbols of text outside the pool, in order.
// Bytes that are not valid UTF-8 are always invalid and kept as-is.
func (g *Game) invalidSymbols(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(text[i])
		} else if _, ok := g.allowed[r]; !ok {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Restart clears the guess history. The secret is not regenerated.
func (g *Game) Restart() {
	g.guesses = g.guesses[:0:0]
}

// Secret returns the hidden sequence. Internal and test use only.
func (g *Game) Secret() code.Secret { return g.secret }

// Pool returns the symbols guesses may use.
func (g *Game) Pool() string { return g.pool }

// Length returns the required guess length.
func (g *Game) Length() int { return g.length }

// GuessCount returns the number of accepted guesses since the last restart.
func (g *Game) GuessCount() int { return len(g.guesses) }

// Guesses returns a copy of the history, oldest first.
func (g *Game) Guesses() []Feedback {
	out := make([]Feedback, len(g.guesses))
	copy(out, g.guesses)
	return out
}

// Last returns the most recent feedback, if any.
func (g *Game) Last() (Feedback, bool) {
	if len(g.guesses) == 0 {
		return Feedback{}, false
	}
	return g.guesses[len(g.guesses)-1], true
}

// Solved reports whether the most recent guess matched every position.
func (g *Game) Solved() bool {
	fb, ok := g.Last()
	return ok && fb.Solved(g.length)
}
