package git

import (
	"context"
	"strings"
)

// Remote is one configured remote with its fetch URL.
type Remote struct {
	Name string
	URL  string
}

// Remotes lists the configured remotes.
func (s *Service) Remotes(ctx context.Context) ([]Remote, error) {
	out, err := s.run(ctx, "remote", "-v")
	if err != nil {
		return nil, err
	}

	var remotes []Remote
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		remotes = append(remotes, Remote{Name: fields[0], URL: fields[1]})
	}
	return remotes, nil
}

// AddRemote configures a new remote.
func (s *Service) AddRemote(ctx context.Context, name, url string) error {
	_, err := s.run(ctx, "remote", "add", name, url)
	return err
}

// Push uploads branch to remote. With setUpstream the branch starts
// tracking the remote branch. A forced push replaces the remote branch
// with the local history; callers must gate it behind destructive
// confirmation. The lease form is used so a remote branch that moved
// since the last fetch is never overwritten blindly.
func (s *Service) Push(ctx context.Context, remote, branch string, force, setUpstream bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force-with-lease")
	}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	_, err := s.run(ctx, args...)
	return err
}

// Fetch downloads history from remote without touching local branches.
func (s *Service) Fetch(ctx context.Context, remote string) error {
	_, err := s.run(ctx, "fetch", remote)
	return err
}

// Pull rebases the current branch on top of the remote branch. Rebase
// keeps local history linear; a conflict leaves the repository in a
// rebase-in-progress state resolvable with merge continue or abort.
func (s *Service) Pull(ctx context.Context, remote, branch string) error {
	args := []string{"pull", "--rebase", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := s.run(ctx, args...)
	return err
}
