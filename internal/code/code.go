// internal/code/code.go
//
// Secret generation and feedback scoring for a Codebreaker game.
// Responsibilities:
//   - Generate a hidden sequence of symbols drawn from a pool.
//   - Score a guess against a secret (exact and misplaced matches).
//
// Notes:
//   - Symbols are runes, so pools are not limited to ASCII.
//   - Randomness is injected through Source; *math/rand.Rand satisfies it.
package code

// Source yields uniformly distributed indexes in [0, n).
type Source interface {
	Intn(n int) int
}

// Secret is an immutable hidden sequence.
type Secret struct {
	symbols []rune
}

// Generate draws length symbols from pool, independently and with replacement.
// Each listed occurrence in pool carries equal weight.
//
// pool must be non-empty and length non-negative; violating either panics.
func Generate(pool string, length int, rng Source) Secret {
	symbols := []rune(pool)
	if len(symbols) == 0 {
		panic("code: empty pool")
	}
	if length < 0 {
		panic("code: negative length")
	}
	out := make([]rune, length)
	for i := range out {
		out[i] = symbols[rng.Intn(len(symbols))]
	}
	return Secret{symbols: out}
}

// FromString wraps a fixed sequence as a Secret.
func FromString(s string) Secret {
	return Secret{symbols: []rune(s)}
}

// Len returns the number of symbols in the secret.
func (s Secret) Len() int { return len(s.symbols) }

// Symbols returns a copy of the secret's symbols.
func (s Secret) Symbols() []rune {
	return append([]rune(nil), s.symbols...)
}

// String is the debug representation. It must never reach a player.
func (s Secret) String() string { return string(s.symbols) }

// Score compares guess against secret and returns the number of exact
// matches (correct) and of misplaced matches (close).
//
// Pass 1:
//   - Count positions holding the same symbol in both sequences.
//
// Pass 2:
//   - Tally the unmatched symbols of each side in its own table.
//   - For each symbol, close grows by the smaller of its two tallies.
//
// Repeated symbols are never credited beyond their supply on either side.
// Sequences are expected to have equal length; only the common prefix is
// compared otherwise.
func Score(secret, guess []rune) (correct, close int) {
	n := min(len(secret), len(guess))

	secretLeft := make(map[rune]int, n)
	guessLeft := make(map[rune]int, n)
	for i := 0; i < n; i++ {
		if secret[i] == guess[i] {
			correct++
			continue
		}
		secretLeft[secret[i]]++
		guessLeft[guess[i]]++
	}

	for sym, have := range secretLeft {
		close += min(have, guessLeft[sym])
	}
	return correct, close
}

// Evaluate scores a guess string against s.
func (s Secret) Evaluate(guess string) (correct, close int) {
	return Score(s.symbols, []rune(guess))
}
