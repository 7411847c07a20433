// internal/pools/pools.go
//
// Named symbol pools available to new games.
//
// Initialization behavior (Init):
//   1. If POOLS_FILE is set, load pools from that file (name=symbols per line).
//   2. Otherwise fall back to the embedded assets/pools.txt.
//
// Constraints:
//   • Names are case-insensitive and normalized to lowercase.
//   • Later entries with the same name replace earlier ones.
//   • Initialization runs once (sync.Once); Load replaces the set explicitly.

package pools

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/codebreaker/assets"
)

var (
	initOnce   sync.Once
	initialErr error

	mu     sync.RWMutex
	byName map[string]string
)

// Init loads pools exactly once.
// Returns an error if no pool could be loaded.
func Init() error {
	initOnce.Do(func() {
		var list []assets.Pool
		if path := os.Getenv("POOLS_FILE"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("pools: read %s: %w", path, err)
				return
			}
			list = assets.ParsePools(string(b))
		} else {
			var err error
			list, err = assets.DefaultPools()
			if err != nil {
				initialErr = fmt.Errorf("pools: embedded: %w", err)
				return
			}
		}
		initialErr = Load(list)
	})
	return initialErr
}

// Load replaces the registered pools.
func Load(list []assets.Pool) error {
	m := make(map[string]string, len(list))
	for _, p := range list {
		m[strings.ToLower(p.Name)] = p.Symbols
	}
	if len(m) == 0 {
		return errors.New("pools: no pools defined")
	}
	mu.Lock()
	byName = m
	mu.Unlock()
	return nil
}

// Lookup returns the symbols of the named pool.
func Lookup(name string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Resolve maps a request value to symbols: a registered name wins,
// anything else is taken as a literal pool.
func Resolve(nameOrSymbols string) string {
	if s, ok := Lookup(nameOrSymbols); ok {
		return s
	}
	return nameOrSymbols
}

// All returns a copy of the registered pools keyed by name.
func All() map[string]string {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]string, len(byName))
	for k, v := range byName {
		out[k] = v
	}
	return out
}

// Names returns the registered pool names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(byName))
	for k := range byName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
