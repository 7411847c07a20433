package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/robalobadob/codebreaker/internal/code"
	"github.com/robalobadob/codebreaker/internal/game"
)

func newGame() *game.Game {
	return game.WithSecret("ABCDEF", code.FromString("ABCD"))
}

func TestPlay_SolvesAfterErrors(t *testing.T) {
	in := strings.NewReader("AB\nZZZZ\nAABB\n:history\nABCD\n")
	var out bytes.Buffer
	n, solved := Play(in, &out, newGame())
	if !solved || n != 2 {
		t.Fatalf("solved=%v guesses=%d", solved, n)
	}
	got := out.String()
	for _, want := range []string{
		"Expected 4 symbols, got 2.",
		`Not in "ABCDEF": "ZZZZ".`,
		"correct: 1  close: 1",
		`{text: "AABB", correct: 1, close: 1}`,
		"Solved in 2 guesses!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPlay_RestartKeepsCode(t *testing.T) {
	in := strings.NewReader("DCBA\n:restart\n:history\nABCD\n")
	var out bytes.Buffer
	n, solved := Play(in, &out, newGame())
	if !solved || n != 1 {
		t.Fatalf("solved=%v guesses=%d", solved, n)
	}
	if !strings.Contains(out.String(), "No guesses yet.") {
		t.Fatalf("history not cleared:\n%s", out.String())
	}
}

func TestPlay_QuitAndEOF(t *testing.T) {
	for _, input := range []string{"AABB\n:quit\n", "AABB\n", "AABB"} {
		var out bytes.Buffer
		n, solved := Play(strings.NewReader(input), &out, newGame())
		if solved || n != 1 {
			t.Fatalf("input %q: solved=%v guesses=%d", input, solved, n)
		}
	}
}
