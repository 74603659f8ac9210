package git

import (
	"strconv"
	"strings"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// FileKind classifies how a file changed.
type FileKind int

const (
	KindModified FileKind = iota
	KindAdded
	KindDeleted
	KindRenamed
	KindCopied
	KindUntracked
	KindConflicted
)

// String returns a short human label for the kind.
func (k FileKind) String() string {
	switch k {
	case KindModified:
		return "modified"
	case KindAdded:
		return "added"
	case KindDeleted:
		return "deleted"
	case KindRenamed:
		return "renamed"
	case KindCopied:
		return "copied"
	case KindUntracked:
		return "untracked"
	case KindConflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// FileEntry is one changed path. Kind and Staged together determine which
// logical partition (staged, unstaged, untracked) the path belongs to.
type FileEntry struct {
	Path     string
	Kind     FileKind
	Staged   bool
	FromPath string // original path for renames and copies
}

// RepoStatus is the parsed result of `git status --porcelain=v2 --branch`.
type RepoStatus struct {
	Branch      string
	Upstream    string
	Ahead       int
	Behind      int
	Staged      []FileEntry
	Unstaged    []FileEntry
	Untracked   []FileEntry
	Conflicts   []string
	StashCount  int
	SkippedRows int // unrecognized porcelain lines, counted not fatal
}

// IsClean reports whether the working tree has no changes of any kind.
func (s *RepoStatus) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 &&
		len(s.Untracked) == 0 && len(s.Conflicts) == 0
}

// ParseStatus parses porcelain v2 output with branch headers.
//
// Unrecognized lines are skipped and counted. Producing zero records and
// no branch header from non-empty input is a parse failure.
func ParseStatus(output string) (*RepoStatus, error) {
	st := &RepoStatus{Branch: "(unknown)"}
	sawHeader := false

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "# branch.head "):
			st.Branch = strings.TrimPrefix(line, "# branch.head ")
			sawHeader = true
		case strings.HasPrefix(line, "# branch.upstream "):
			st.Upstream = strings.TrimPrefix(line, "# branch.upstream ")
			sawHeader = true
		case strings.HasPrefix(line, "# branch.ab "):
			// Format: # branch.ab +N -M
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				st.Ahead, _ = strconv.Atoi(strings.TrimPrefix(fields[2], "+"))
				st.Behind, _ = strconv.Atoi(strings.TrimPrefix(fields[3], "-"))
			}
			sawHeader = true
		case strings.HasPrefix(line, "# "):
			sawHeader = true
		case strings.HasPrefix(line, "1 "):
			if !parseOrdinaryEntry(line, st) {
				st.SkippedRows++
			}
		case strings.HasPrefix(line, "2 "):
			if !parseRenameEntry(line, st) {
				st.SkippedRows++
			}
		case strings.HasPrefix(line, "u "):
			// Unmerged entry: u XY sub m1 m2 m3 mW h1 h2 h3 path
			parts := strings.SplitN(line, " ", 11)
			if len(parts) == 11 {
				st.Conflicts = append(st.Conflicts, parts[10])
			} else {
				st.SkippedRows++
			}
		case strings.HasPrefix(line, "? "):
			st.Untracked = append(st.Untracked, FileEntry{
				Path: strings.TrimPrefix(line, "? "),
				Kind: KindUntracked,
			})
		case strings.HasPrefix(line, "! "):
			// Ignored entries are not surfaced.
		default:
			st.SkippedRows++
		}
	}

	if !sawHeader && strings.TrimSpace(output) != "" &&
		len(st.Staged) == 0 && len(st.Unstaged) == 0 &&
		len(st.Untracked) == 0 && len(st.Conflicts) == 0 {
		return nil, errors.Wrap(errors.ErrParse, "status porcelain v2")
	}
	return st, nil
}

// parseOrdinaryEntry handles `1 XY sub mH mI mW hH hI path`.
func parseOrdinaryEntry(line string, st *RepoStatus) bool {
	parts := strings.SplitN(line, " ", 9)
	if len(parts) < 9 {
		return false
	}
	xy := parts[1]
	path := parts[8]
	if len(xy) != 2 {
		return false
	}

	x, y := xy[0], xy[1]

	if x == 'U' || y == 'U' {
		st.Conflicts = append(st.Conflicts, path)
		return true
	}
	if kind, ok := kindForCode(x); ok {
		st.Staged = append(st.Staged, FileEntry{Path: path, Kind: kind, Staged: true})
	}
	if kind, ok := kindForCode(y); ok {
		st.Unstaged = append(st.Unstaged, FileEntry{Path: path, Kind: kind})
	}
	return true
}

// parseRenameEntry handles `2 XY sub mH mI mW hH hI Xscore path\torigPath`.
func parseRenameEntry(line string, st *RepoStatus) bool {
	parts := strings.SplitN(line, " ", 10)
	if len(parts) < 10 {
		return false
	}
	xy := parts[1]
	paths := strings.SplitN(parts[9], "\t", 2)
	path := paths[0]
	from := ""
	if len(paths) == 2 {
		from = paths[1]
	}
	if len(xy) != 2 {
		return false
	}

	switch xy[0] {
	case 'R':
		st.Staged = append(st.Staged, FileEntry{Path: path, Kind: KindRenamed, Staged: true, FromPath: from})
	case 'C':
		st.Staged = append(st.Staged, FileEntry{Path: path, Kind: KindCopied, Staged: true, FromPath: from})
	}
	if kind, ok := kindForCode(xy[1]); ok {
		st.Unstaged = append(st.Unstaged, FileEntry{Path: path, Kind: kind})
	}
	return true
}

func kindForCode(c byte) (FileKind, bool) {
	switch c {
	case 'M', 'T':
		return KindModified, true
	case 'A':
		return KindAdded, true
	case 'D':
		return KindDeleted, true
	case 'R':
		return KindRenamed, true
	case 'C':
		return KindCopied, true
	default:
		return 0, false
	}
}
