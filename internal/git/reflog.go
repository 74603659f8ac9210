package git

import (
	"strings"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// reflogFormat is passed to `git reflog --format=`. %gs is the reflog
// subject, e.g. "commit: fix parser" or "reset: moving to HEAD~1".
const reflogFormat = "%H%x1f%h%x1f%gs"

// ReflogEntry is one reference movement. Index 0 is the most recent;
// indexes strictly increase as recency decreases.
type ReflogEntry struct {
	Index     int
	Hash      string
	ShortHash string
	Action    string // commit, reset, checkout, merge, ...
	Subject   string
}

// ParseReflog parses output produced with reflogFormat.
func ParseReflog(output string) ([]ReflogEntry, error) {
	if strings.TrimSpace(output) == "" {
		return nil, nil
	}

	var entries []ReflogEntry
	skipped := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) < 3 {
			skipped++
			continue
		}

		action, subject := splitReflogSubject(parts[2])
		entries = append(entries, ReflogEntry{
			Index:     len(entries),
			Hash:      parts[0],
			ShortHash: parts[1],
			Action:    action,
			Subject:   subject,
		})
	}

	if len(entries) == 0 && skipped > 0 {
		return nil, errors.Wrap(errors.ErrParse, "reflog listing")
	}
	return entries, nil
}

// splitReflogSubject splits "reset: moving to HEAD~1" into action and
// detail. Subjects without ": " are all action.
func splitReflogSubject(subject string) (string, string) {
	if idx := strings.Index(subject, ": "); idx >= 0 {
		return subject[:idx], subject[idx+2:]
	}
	return subject, ""
}

// FilterReflog returns the entries whose action contains the query,
// case-insensitively.
func FilterReflog(entries []ReflogEntry, action string) []ReflogEntry {
	query := strings.ToLower(action)
	var out []ReflogEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Action), query) {
			out = append(out, e)
		}
	}
	return out
}
