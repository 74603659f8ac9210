// Package hints maps known git stderr patterns to plain-language hints
// shown alongside the verbatim error text.
package hints

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed hints.yaml
var hintsYAML []byte

type hintEntry struct {
	Pattern string `yaml:"pattern"`
	Hint    string `yaml:"hint"`
}

type hintTable struct {
	Hints []hintEntry `yaml:"hints"`
}

var (
	loadOnce sync.Once
	table    hintTable
)

// load parses the embedded table once. A malformed table yields no
// hints rather than a failure; hints are advisory.
func load() {
	loadOnce.Do(func() {
		_ = yaml.Unmarshal(hintsYAML, &table)
	})
}

// Hint returns the plain-language hint for a git stderr message, or the
// empty string when no known pattern matches. Matching is
// case-insensitive substring, first entry wins.
func Hint(stderr string) string {
	load()
	lowered := strings.ToLower(stderr)
	for _, entry := range table.Hints {
		if strings.Contains(lowered, strings.ToLower(entry.Pattern)) {
			return entry.Hint
		}
	}
	return ""
}
