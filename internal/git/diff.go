package git

import (
	"strconv"
	"strings"
)

// DiffLineKind classifies one line of a hunk.
type DiffLineKind int

const (
	DiffContext DiffLineKind = iota
	DiffAdded
	DiffRemoved
)

// DiffLine is one line within a hunk, content including its +/-/space prefix.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// Hunk is a contiguous block of changed lines.
type Hunk struct {
	Header   string
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// FileDiff is the full diff for one file.
type FileDiff struct {
	Path    string
	OldPath string // set for renames
	Hunks   []Hunk
}

// DiffStats summarizes `git diff --shortstat` output.
type DiffStats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// ParseDiff parses unified diff output into per-file hunks. Lines before
// the first file header and unrecognized metadata are skipped.
func ParseDiff(output string) []FileDiff {
	var files []FileDiff
	var current *FileDiff
	var hunk *Hunk

	flushHunk := func() {
		if current != nil && hunk != nil {
			current.Hunks = append(current.Hunks, *hunk)
			hunk = nil
		}
	}
	flushFile := func() {
		flushHunk()
		if current != nil {
			files = append(files, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flushFile()
			current = &FileDiff{Path: pathFromHeader(line)}
		case strings.HasPrefix(line, "rename from "):
			if current != nil {
				current.OldPath = strings.TrimPrefix(line, "rename from ")
			}
		case strings.HasPrefix(line, "@@"):
			if current == nil {
				continue
			}
			flushHunk()
			h := parseHunkHeader(line)
			hunk = &h
		case hunk != nil:
			kind := DiffContext
			if strings.HasPrefix(line, "+") {
				kind = DiffAdded
			} else if strings.HasPrefix(line, "-") {
				kind = DiffRemoved
			}
			hunk.Lines = append(hunk.Lines, DiffLine{Kind: kind, Content: line})
		}
	}
	flushFile()
	return files
}

// pathFromHeader extracts the new path from "diff --git a/old b/new".
func pathFromHeader(line string) string {
	if idx := strings.LastIndex(line, " b/"); idx >= 0 {
		return line[idx+3:]
	}
	return ""
}

// parseHunkHeader parses "@@ -oldStart,oldCount +newStart,newCount @@ ...".
// Counts default to 1 when omitted.
func parseHunkHeader(header string) Hunk {
	h := Hunk{Header: header, OldCount: 1, NewCount: 1}
	fields := strings.Fields(header)
	if len(fields) < 3 {
		return h
	}
	h.OldStart, h.OldCount = parseRange(strings.TrimPrefix(fields[1], "-"))
	h.NewStart, h.NewCount = parseRange(strings.TrimPrefix(fields[2], "+"))
	return h
}

func parseRange(spec string) (start, count int) {
	count = 1
	parts := strings.SplitN(spec, ",", 2)
	start, _ = strconv.Atoi(parts[0])
	if len(parts) == 2 {
		count, _ = strconv.Atoi(parts[1])
	}
	return start, count
}

// ParseShortStat parses a line like
// " 3 files changed, 10 insertions(+), 2 deletions(-)".
func ParseShortStat(stat string) DiffStats {
	var s DiffStats
	for _, part := range strings.Split(stat, ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(fields[1], "file"):
			s.FilesChanged = n
		case strings.HasPrefix(fields[1], "insertion"):
			s.Insertions = n
		case strings.HasPrefix(fields[1], "deletion"):
			s.Deletions = n
		}
	}
	return s
}

// Truncate caps text at budget characters, appending a marker when cut.
// Used to bound diff content before transmission.
func Truncate(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}
	marker := "\n...(truncated)"
	if budget <= len(marker) {
		return text[:budget]
	}
	return text[:budget-len(marker)] + marker
}
