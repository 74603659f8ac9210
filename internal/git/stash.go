package git

import "strings"

// stashFormat is passed to `git stash list --format=`. %gd is the
// selector (stash@{0}) and %gs the stash subject.
const stashFormat = "%gd|%gs"

// StashEntry is one stash, newest first.
type StashEntry struct {
	Index    int
	Selector string // stash@{N}
	Branch   string
	Message  string
}

// ParseStashList parses output produced with stashFormat.
func ParseStashList(output string) []StashEntry {
	var entries []StashEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		message := line
		selector := ""
		if len(parts) == 2 {
			selector = parts[0]
			message = parts[1]
		}
		entries = append(entries, StashEntry{
			Index:    len(entries),
			Selector: selector,
			Branch:   stashBranch(message),
			Message:  message,
		})
	}
	return entries
}

// stashBranch extracts the branch from subjects like "WIP on main: ...".
func stashBranch(message string) string {
	for _, prefix := range []string{"WIP on ", "On ", "index on "} {
		rest, ok := strings.CutPrefix(message, prefix)
		if !ok {
			continue
		}
		if colon := strings.Index(rest, ":"); colon >= 0 {
			return rest[:colon]
		}
	}
	return ""
}
