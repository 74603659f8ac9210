package git

import (
	"strconv"
	"strings"
	"time"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// Field and record separators for the custom log format. Unit/record
// separator bytes cannot appear in commit metadata, unlike pipes.
const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// logFormat is passed to `git log --format=`. One record per commit,
// terminated by the record separator so multi-line bodies stay intact.
const logFormat = "%H%x1f%h%x1f%an%x1f%ae%x1f%cn%x1f%ce%x1f%at%x1f%P%x1f%D%x1f%s%x1f%b%x1e"

// Signature identifies an author or committer.
type Signature struct {
	Name  string
	Email string
}

// DecorationKind classifies a ref decorating a commit.
type DecorationKind int

const (
	DecorationBranch DecorationKind = iota
	DecorationTag
	DecorationHead
)

// Decoration is one ref pointing at a commit.
type Decoration struct {
	Kind DecorationKind
	Name string
}

// CommitRecord is one parsed commit. Identity is the full hash; records
// are immutable once constructed.
type CommitRecord struct {
	Hash        string
	ShortHash   string
	Author      Signature
	Committer   Signature
	Timestamp   time.Time
	Subject     string
	Body        string
	Parents     []string
	Decorations []Decoration
}

// ParseLog parses output produced with logFormat.
func ParseLog(output string) ([]CommitRecord, error) {
	if strings.TrimSpace(output) == "" {
		return nil, nil
	}

	var commits []CommitRecord
	skipped := 0
	for _, record := range strings.Split(output, logRecordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		parts := strings.SplitN(record, logFieldSep, 11)
		if len(parts) < 11 {
			skipped++
			continue
		}

		epoch, err := strconv.ParseInt(parts[6], 10, 64)
		if err != nil {
			skipped++
			continue
		}

		commits = append(commits, CommitRecord{
			Hash:        parts[0],
			ShortHash:   parts[1],
			Author:      Signature{Name: parts[2], Email: parts[3]},
			Committer:   Signature{Name: parts[4], Email: parts[5]},
			Timestamp:   time.Unix(epoch, 0).UTC(),
			Parents:     splitParents(parts[7]),
			Decorations: parseDecorations(parts[8]),
			Subject:     parts[9],
			Body:        strings.TrimRight(parts[10], "\n"),
		})
	}

	if len(commits) == 0 && skipped > 0 {
		return nil, errors.Wrap(errors.ErrParse, "log format")
	}
	return commits, nil
}

func splitParents(field string) []string {
	if field == "" {
		return nil
	}
	return strings.Fields(field)
}

// parseDecorations splits a %D field like
// "HEAD -> main, origin/main, tag: v1.0" into typed decorations.
func parseDecorations(field string) []Decoration {
	if field == "" {
		return nil
	}
	var decorations []Decoration
	for _, part := range strings.Split(field, ", ") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "HEAD -> "):
			decorations = append(decorations,
				Decoration{Kind: DecorationHead, Name: "HEAD"},
				Decoration{Kind: DecorationBranch, Name: strings.TrimPrefix(part, "HEAD -> ")})
		case part == "HEAD":
			decorations = append(decorations, Decoration{Kind: DecorationHead, Name: "HEAD"})
		case strings.HasPrefix(part, "tag: "):
			decorations = append(decorations, Decoration{Kind: DecorationTag, Name: strings.TrimPrefix(part, "tag: ")})
		default:
			decorations = append(decorations, Decoration{Kind: DecorationBranch, Name: part})
		}
	}
	return decorations
}
