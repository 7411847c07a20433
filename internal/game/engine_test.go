package game

import (
	"errors"
	"testing"

	"github.com/robalobadob/codebreaker/internal/code"
)

// fixed replays draws in order; it lets tests pin the secret.
type fixed []int

func (f *fixed) Intn(n int) int {
	v := (*f)[0] % n
	*f = append((*f)[1:], (*f)[0])
	return v
}

// newABCD returns a session over pool ABCDEF whose secret is ABCD.
func newABCD(t *testing.T) *Game {
	t.Helper()
	g := New("ABCDEF", 4, &fixed{0, 1, 2, 3})
	if g.Secret().String() != "ABCD" {
		t.Fatalf("secret=%q want ABCD", g.Secret().String())
	}
	return g
}

func TestGuess_Scenarios(t *testing.T) {
	g := newABCD(t)
	cases := []struct {
		guess          string
		correct, close int
	}{
		{"ABCD", 4, 0},
		{"DCBA", 0, 4},
		{"AABB", 1, 1},
	}
	for i, tc := range cases {
		fb, err := g.Guess(tc.guess)
		if err != nil {
			t.Fatalf("Guess(%q) error: %v", tc.guess, err)
		}
		if fb.Correct != tc.correct || fb.Close != tc.close {
			t.Fatalf("Guess(%q)=(%d,%d) want (%d,%d)", tc.guess, fb.Correct, fb.Close, tc.correct, tc.close)
		}
		if g.GuessCount() != i+1 {
			t.Fatalf("GuessCount=%d want %d", g.GuessCount(), i+1)
		}
	}

	hist := g.Guesses()
	for i, tc := range cases {
		if hist[i].Text != tc.guess {
			t.Fatalf("history[%d]=%q want %q", i, hist[i].Text, tc.guess)
		}
	}
}

func TestGuess_InvalidCharacters(t *testing.T) {
	g := newABCD(t)
	_, err := g.Guess("ZZZZ")
	if !errors.Is(err, ErrInvalidGuessCharacters) {
		t.Fatalf("err=%v want ErrInvalidGuessCharacters", err)
	}
	var ce *GuessCharacterError
	if !errors.As(err, &ce) {
		t.Fatalf("err=%T want *GuessCharacterError", err)
	}
	if ce.Invalid != "ZZZZ" || ce.Pool != "ABCDEF" {
		t.Fatalf("got invalid=%q pool=%q", ce.Invalid, ce.Pool)
	}
	if g.GuessCount() != 0 {
		t.Fatalf("history changed on failure: %d", g.GuessCount())
	}
}

func TestGuess_InvalidCharactersKeepOrderAndDuplicates(t *testing.T) {
	g := newABCD(t)
	_, err := g.Guess("XAYX")
	var ce *GuessCharacterError
	if !errors.As(err, &ce) || ce.Invalid != "XYX" {
		t.Fatalf("err=%v want invalid XYX", err)
	}
}

func TestGuess_RawBytesAreInvalid(t *testing.T) {
	g := newABCD(t)
	_, err := g.Guess("AB\xffC")
	var ce *GuessCharacterError
	if !errors.As(err, &ce) || ce.Invalid != "\xff" {
		t.Fatalf("err=%v want invalid %q", err, "\xff")
	}

	// a pool holding U+FFFD still rejects a raw byte
	g = WithSecret("AB\uFFFD", code.FromString("AB"))
	_, err = g.Guess("A\xff")
	if !errors.As(err, &ce) || ce.Invalid != "\xff" {
		t.Fatalf("err=%v want invalid %q", err, "\xff")
	}
	if fb, err := g.Guess("A\uFFFD"); err != nil || fb.Correct != 1 {
		t.Fatalf("encoded U+FFFD: fb=%v err=%v", fb, err)
	}
}

func TestGuess_IsCaseSensitive(t *testing.T) {
	g := newABCD(t)
	_, err := g.Guess("abcd")
	if !errors.Is(err, ErrInvalidGuessCharacters) {
		t.Fatalf("err=%v want ErrInvalidGuessCharacters", err)
	}
}

func TestGuess_InvalidLength(t *testing.T) {
	g := newABCD(t)
	if _, err := g.Guess("ABCD"); err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"AB", "", "ABCDE", "ZZ"} {
		_, err := g.Guess(text)
		var le *GuessLengthError
		if !errors.As(err, &le) {
			t.Fatalf("Guess(%q) err=%v want *GuessLengthError", text, err)
		}
		if !errors.Is(err, ErrInvalidGuessLength) {
			t.Fatalf("Guess(%q) err does not match ErrInvalidGuessLength", text)
		}
		if le.Expected != 4 || le.Actual != len(text) {
			t.Fatalf("Guess(%q) expected=%d actual=%d", text, le.Expected, le.Actual)
		}
	}
	if g.GuessCount() != 1 {
		t.Fatalf("history changed on failure: %d", g.GuessCount())
	}
}

func TestGuess_LengthCountsSymbols(t *testing.T) {
	g := WithSecret("αβγ", code.FromString("αβγ"))
	fb, err := g.Guess("γβα")
	if err != nil {
		t.Fatal(err)
	}
	if fb.Correct != 1 || fb.Close != 2 {
		t.Fatalf("got (%d,%d) want (1,2)", fb.Correct, fb.Close)
	}
}

func TestRestart_KeepsSecret(t *testing.T) {
	g := newABCD(t)
	for _, s := range []string{"ABCD", "DCBA", "AABB"} {
		if _, err := g.Guess(s); err != nil {
			t.Fatal(err)
		}
	}
	before := g.Secret().String()

	g.Restart()
	if g.GuessCount() != 0 || len(g.Guesses()) != 0 {
		t.Fatalf("history not cleared: %d", g.GuessCount())
	}
	if g.Secret().String() != before {
		t.Fatalf("secret changed: %q -> %q", before, g.Secret().String())
	}
	fb, err := g.Guess("ABCD")
	if err != nil || fb.Correct != 4 || fb.Close != 0 {
		t.Fatalf("after restart got %v, %v", fb, err)
	}
}

func TestGuesses_IsSnapshot(t *testing.T) {
	g := newABCD(t)
	_, _ = g.Guess("ABCD")
	hist := g.Guesses()
	hist[0].Correct = 0
	if g.GuessCount() != 1 || g.Guesses()[0].Correct != 4 {
		t.Fatalf("history mutated through snapshot")
	}
}

func TestRestart_DoesNotAliasOldSnapshot(t *testing.T) {
	g := newABCD(t)
	_, _ = g.Guess("ABCD")
	old := g.Guesses()
	g.Restart()
	_, _ = g.Guess("DCBA")
	if old[0].Text != "ABCD" {
		t.Fatalf("old snapshot overwritten: %v", old[0])
	}
}

func TestSolved(t *testing.T) {
	g := newABCD(t)
	if g.Solved() {
		t.Fatal("fresh game reported solved")
	}
	_, _ = g.Guess("DCBA")
	if g.Solved() {
		t.Fatal("wrong guess reported solved")
	}
	_, _ = g.Guess("ABCD")
	if !g.Solved() {
		t.Fatal("exact guess not solved")
	}
}

func TestFeedbackString(t *testing.T) {
	fb := Feedback{Text: "AABB", Correct: 1, Close: 1}
	want := `{text: "AABB", correct: 1, close: 1}`
	if fb.String() != want {
		t.Fatalf("String()=%s want %s", fb.String(), want)
	}
}

func TestAccessors(t *testing.T) {
	g := newABCD(t)
	if g.Pool() != "ABCDEF" || g.Length() != 4 {
		t.Fatalf("pool=%q length=%d", g.Pool(), g.Length())
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		pool   string
		length int
		ok     bool
	}{
		{"ABCDEF", 4, true},
		{"A", 1, true},
		{"", 4, false},
		{"AB", 0, false},
		{"AB", -1, false},
		{"\xff", 2, false},
	}
	for _, tc := range cases {
		err := ValidateConfig(tc.pool, tc.length)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateConfig(%q,%d)=%v want ok=%v", tc.pool, tc.length, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("err=%v does not match ErrInvalidConfiguration", err)
		}
	}
}
