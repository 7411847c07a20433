package code

import (
	"math/rand"
	"testing"
)

// scripted replays fixed indexes, wrapping around.
type scripted struct {
	draws []int
	next  int
}

func (s *scripted) Intn(n int) int {
	v := s.draws[s.next%len(s.draws)] % n
	s.next++
	return v
}

func TestGenerate_UsesSourceDraws(t *testing.T) {
	s := Generate("ABCDEF", 4, &scripted{draws: []int{0, 1, 2, 3}})
	if got := s.String(); got != "ABCD" {
		t.Fatalf("secret=%q want ABCD", got)
	}
	if s.Len() != 4 {
		t.Fatalf("len=%d want 4", s.Len())
	}
}

func TestGenerate_ZeroLength(t *testing.T) {
	s := Generate("AB", 0, &scripted{draws: []int{0}})
	if s.String() != "" {
		t.Fatalf("secret=%q want empty", s.String())
	}
}

func TestGenerate_OnlyPoolSymbols(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := "xyz"
	for i := 0; i < 50; i++ {
		for _, r := range Generate(pool, 6, rng).String() {
			if r != 'x' && r != 'y' && r != 'z' {
				t.Fatalf("symbol %q outside pool", r)
			}
		}
	}
}

func TestGenerate_MultibyteSymbols(t *testing.T) {
	s := Generate("αβγ", 3, &scripted{draws: []int{2, 1, 0}})
	if s.String() != "γβα" {
		t.Fatalf("secret=%q want γβα", s.String())
	}
}

func TestGenerate_PanicsOnEmptyPool(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty pool")
		}
	}()
	Generate("", 4, &scripted{draws: []int{0}})
}

func TestSymbols_ReturnsCopy(t *testing.T) {
	s := FromString("ABCD")
	sym := s.Symbols()
	sym[0] = 'Z'
	if s.String() != "ABCD" {
		t.Fatalf("secret mutated through Symbols: %q", s.String())
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		secret, guess  string
		correct, close int
	}{
		{"ABCD", "ABCD", 4, 0},
		{"ABCD", "DCBA", 0, 4},
		{"ABCD", "AABB", 1, 1},
		{"ABCD", "EEFF", 0, 0},
		{"AABB", "AAAA", 2, 0},
		{"AABB", "BBAA", 0, 4},
		{"AABB", "ABAB", 2, 2},
		{"ABCD", "BAAA", 0, 2},
		{"0011", "0101", 2, 2},
		{"1122", "2211", 0, 4},
		{"5432", "1234", 1, 2},
		{"5432", "4321", 0, 3},
		{"", "", 0, 0},
	}
	for _, tc := range cases {
		c, cl := Score([]rune(tc.secret), []rune(tc.guess))
		if c != tc.correct || cl != tc.close {
			t.Errorf("Score(%q,%q)=(%d,%d) want (%d,%d)", tc.secret, tc.guess, c, cl, tc.correct, tc.close)
		}
	}
}

func TestScore_OrderIndependentOfArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := Generate("ABC", 5, rng).Symbols()
		b := Generate("ABC", 5, rng).Symbols()
		c1, cl1 := Score(a, b)
		c2, cl2 := Score(b, a)
		if c1 != c2 || cl1 != cl2 {
			t.Fatalf("asymmetric score for %q/%q", string(a), string(b))
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		secret := Generate("ABCD", 6, rng).Symbols()
		guess := Generate("ABCDEF", 6, rng).Symbols()
		c, cl := Score(secret, guess)
		if c < 0 || cl < 0 || c+cl > 6 {
			t.Fatalf("out of bounds (%d,%d) for %q/%q", c, cl, string(secret), string(guess))
		}
		// close never exceeds per-symbol supply
		sc, gc := map[rune]int{}, map[rune]int{}
		for j := range secret {
			sc[secret[j]]++
			gc[guess[j]]++
		}
		limit := 0
		for r, n := range sc {
			limit += min(n, gc[r])
		}
		if c+cl != limit {
			t.Fatalf("correct+close=%d want %d for %q/%q", c+cl, limit, string(secret), string(guess))
		}
	}
}

func TestScore_DoesNotMutateInputs(t *testing.T) {
	secret := []rune("ABCD")
	guess := []rune("ABDC")
	Score(secret, guess)
	if string(secret) != "ABCD" || string(guess) != "ABDC" {
		t.Fatalf("inputs mutated: %q %q", string(secret), string(guess))
	}
}

func TestEvaluate(t *testing.T) {
	c, cl := FromString("ABCD").Evaluate("AABB")
	if c != 1 || cl != 1 {
		t.Fatalf("got (%d,%d) want (1,1)", c, cl)
	}
}
