package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/codebreaker/internal/game"
)

// Play runs an interactive Codebreaker session on r/w until the code is
// solved, the player quits, or input ends. It returns the number of guesses
// accepted since the last restart and whether the code was solved.
//
// Commands: :history, :restart, :quit (or :q).
func Play(r io.Reader, w io.Writer, g *game.Game) (guesses int, solved bool) {
	reader := bufio.NewReader(r)

	fmt.Fprintln(w, "=== Codebreaker ===")
	fmt.Fprintf(w, "Guess the %d-symbol code. Symbols: %s\n", g.Length(), g.Pool())
	fmt.Fprintln(w, "Commands: :history, :restart, :quit")
	fmt.Fprintln(w)

	for {
		fmt.Fprintf(w, "Guess %d: ", g.GuessCount()+1)
		line, err := reader.ReadString('\n')
		input := strings.TrimSpace(line)
		if input == "" && err != nil {
			fmt.Fprintln(w)
			return g.GuessCount(), false
		}

		switch input {
		case "":
			continue
		case ":q", ":quit":
			fmt.Fprintln(w, "Quit.")
			return g.GuessCount(), false
		case ":restart":
			g.Restart()
			fmt.Fprintln(w, "Restarted. Same code, fresh history.")
			continue
		case ":history":
			printHistory(w, g.Guesses())
			continue
		}

		fb, gerr := g.Guess(input)
		if gerr != nil {
			fmt.Fprintln(w, describe(gerr))
		} else {
			fmt.Fprintf(w, "  correct: %d  close: %d\n", fb.Correct, fb.Close)
			if fb.Solved(g.Length()) {
				fmt.Fprintf(w, "Solved in %d guesses!\n", g.GuessCount())
				return g.GuessCount(), true
			}
		}
		if err != nil {
			return g.GuessCount(), false
		}
	}
}

func printHistory(w io.Writer, hist []game.Feedback) {
	if len(hist) == 0 {
		fmt.Fprintln(w, "No guesses yet.")
		return
	}
	for i, fb := range hist {
		fmt.Fprintf(w, "%3d. %s\n", i+1, fb)
	}
}

// describe turns validation errors into player-facing messages.
func describe(err error) string {
	var le *game.GuessLengthError
	if errors.As(err, &le) {
		return fmt.Sprintf("  Expected %d symbols, got %d.", le.Expected, le.Actual)
	}
	var ce *game.GuessCharacterError
	if errors.As(err, &ce) {
		return fmt.Sprintf("  Not in %q: %q.", ce.Pool, ce.Invalid)
	}
	return "  " + err.Error()
}
