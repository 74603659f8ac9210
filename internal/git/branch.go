package git

import (
	"strconv"
	"strings"

	"github.com/gitmate-sh/gitmate/internal/errors"
)

// branchFormat is passed to `git branch --format=`. The %(HEAD) atom
// marks the checked-out branch; %(upstream:track) yields "[ahead N, behind M]".
const branchFormat = "%(HEAD)%1f%(refname:short)%1f%(upstream:short)%1f%(upstream:track)%1f%(objectname:short)"

// Upstream describes a branch's tracked remote counterpart.
type Upstream struct {
	Name   string
	Ahead  int
	Behind int
}

// BranchRecord is one local branch.
type BranchRecord struct {
	Name      string
	IsCurrent bool
	Upstream  *Upstream
	TipCommit string
}

// ParseBranches parses output produced with branchFormat.
func ParseBranches(output string) ([]BranchRecord, error) {
	if strings.TrimSpace(output) == "" {
		return nil, nil
	}

	var branches []BranchRecord
	skipped := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 5)
		if len(parts) < 5 {
			skipped++
			continue
		}

		b := BranchRecord{
			Name:      parts[1],
			IsCurrent: strings.TrimSpace(parts[0]) == "*",
			TipCommit: parts[4],
		}
		if parts[2] != "" {
			up := &Upstream{Name: parts[2]}
			up.Ahead, up.Behind = parseTrack(parts[3])
			b.Upstream = up
		}
		branches = append(branches, b)
	}

	if len(branches) == 0 && skipped > 0 {
		return nil, errors.Wrap(errors.ErrParse, "branch listing")
	}
	return branches, nil
}

// parseTrack parses "[ahead N, behind M]", "[ahead N]", "[behind M]",
// "[gone]", or an empty field.
func parseTrack(field string) (ahead, behind int) {
	field = strings.Trim(strings.TrimSpace(field), "[]")
	for _, part := range strings.Split(field, ",") {
		fields := strings.Fields(part)
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		switch fields[0] {
		case "ahead":
			ahead = n
		case "behind":
			behind = n
		}
	}
	return ahead, behind
}
