package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/robalobadob/codebreaker/internal/code"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes; sign bit cleared so the seed is non-negative
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}

// Secret returns the code every player gets on date.
func Secret(date time.Time, salt, pool string, length int) code.Secret {
	rng := rand.New(rand.NewSource(Seed(date, salt)))
	return code.Generate(pool, length, rng)
}
