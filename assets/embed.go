package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed pools.txt sql/*.sql
var FS embed.FS

// Pool is one named symbol set.
type Pool struct {
	Name    string
	Symbols string
}

// ParsePools reads name=symbols lines, skipping blanks and # comments.
// Malformed lines are ignored.
func ParsePools(text string) []Pool {
	var out []Pool
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		name, symbols, ok := strings.Cut(s, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		symbols = strings.TrimSpace(symbols)
		if !ok || name == "" || symbols == "" {
			continue
		}
		out = append(out, Pool{Name: name, Symbols: symbols})
	}
	return out
}

// DefaultPools returns the embedded pool list.
func DefaultPools() ([]Pool, error) {
	b, err := FS.ReadFile("pools.txt")
	if err != nil {
		return nil, err
	}
	return ParsePools(string(b)), nil
}

// Migrations exposes the embedded sql/ directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
