package repo

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gimbo/git-summary/internal/git"
)

// discoverWorkers bounds how many candidate folders are validated at once.
const discoverWorkers = 8

// Discover finds the git repositories directly under path, in name order.
// A candidate is any child folder containing a .git directory; candidates
// that git itself rejects are silently excluded.
func Discover(path string, log zerolog.Logger) ([]*Repo, error) {
	return discover(path, log, func(repoPath string) git.Runner {
		return git.NewRunner(repoPath)
	})
}

// discover is the injectable core of Discover.
func discover(path string, log zerolog.Logger, newRunner func(string) git.Runner) ([]*Repo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		gitDir := filepath.Join(path, entry.Name(), ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	// Validate candidates in parallel; slots stay in name order and
	// invalid candidates leave nil holes to compact afterwards.
	found := make([]*Repo, len(names))
	var g errgroup.Group
	g.SetLimit(discoverWorkers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			repoPath := filepath.Join(path, name)
			runner := newRunner(repoPath)
			if !runner.IsRepo() {
				log.Debug().Str("repo", name).Msg("not a valid git repo, skipping")
				return nil
			}
			found[i] = New(name, branchLabel(runner), repoPath, runner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	repos := make([]*Repo, 0, len(found))
	for _, r := range found {
		if r != nil {
			log.Debug().Str("repo", r.Name).Str("branch", r.Branch).Msg("discovered")
			repos = append(repos, r)
		}
	}
	return repos, nil
}

// branchLabel resolves the display label for a repo's active branch.
func branchLabel(runner git.Runner) string {
	branch, err := runner.CurrentBranch()
	if err != nil || branch == "HEAD" {
		// rev-parse reports a detached HEAD as the literal "HEAD".
		return DetachedBranchLabel
	}
	return branch
}
