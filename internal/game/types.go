// internal/game/types.go
//
// Core type definitions for the Codebreaker game engine.
// Defines:
//   - Feedback: the scored result of one accepted guess.
//   - Game: state for a single session (secret, pool, length, history).

package game

import (
	"fmt"

	"github.com/robalobadob/codebreaker/internal/code"
)

const feedbackFormat = `{text: "%s", correct: %d, close: %d}`

// Feedback is the immutable result of scoring one guess.
//   - Correct: symbols in the right position.
//   - Close:   further symbols present in the secret but misplaced.
type Feedback struct {
	Text    string `json:"text"`
	Correct int    `json:"correct"`
	Close   int    `json:"close"`
}

// String renders the feedback as {text: "<text>", correct: <n>, close: <m>}.
func (f Feedback) String() string {
	return fmt.Sprintf(feedbackFormat, f.Text, f.Correct, f.Close)
}

// Solved reports whether every one of length positions matched.
// Deciding that a game is over is left to callers.
func (f Feedback) Solved(length int) bool {
	return f.Correct == length
}

// Game holds the state of a single Codebreaker session.
// It is not safe for concurrent use.
type Game struct {
	secret  code.Secret
	pool    string
	allowed map[rune]struct{}
	length  int
	guesses []Feedback
}
