// Package git provides an interface for git operations.
package git

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/gimbo/git-summary/internal/exec"
)

// ExecRunner implements Runner by shelling out to git.
type ExecRunner struct {
	repoPath string
	cmd      exec.CommandRunner
}

// NewRunner creates a new git runner for the repository at the given path.
func NewRunner(repoPath string) *ExecRunner {
	return NewRunnerWith(repoPath, exec.NewRunner())
}

// NewRunnerWith creates a git runner backed by the given command runner.
func NewRunnerWith(repoPath string, cmd exec.CommandRunner) *ExecRunner {
	return &ExecRunner{repoPath: repoPath, cmd: cmd}
}

// run executes a git command and returns its trimmed output.
func (r *ExecRunner) run(args ...string) (string, error) {
	out, err := r.cmd.Run(context.Background(), r.repoPath, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// runSilent executes a git command and ignores output.
func (r *ExecRunner) runSilent(args ...string) error {
	_, err := r.run(args...)
	return err
}

// IsRepo returns true if repoPath holds a valid git repository.
func (r *ExecRunner) IsRepo() bool {
	return r.runSilent("rev-parse", "--git-dir") == nil
}

// CurrentBranch returns the name of the current branch.
// A detached HEAD is reported as the literal "HEAD".
func (r *ExecRunner) CurrentBranch() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "HEAD")
}

// HasCommits returns true if the repository has at least one commit.
// A freshly initialised repository has a HEAD that doesn't resolve.
func (r *ExecRunner) HasCommits() (bool, error) {
	_, err := r.run("rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		// Exit code 1 means HEAD doesn't resolve yet (not an error)
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Status returns the output of git status --porcelain.
func (r *ExecRunner) Status() (string, error) {
	return r.run("status", "--porcelain")
}

// Upstream returns the tracking branch of the current branch as
// "remote/branch", or an error when no upstream is configured.
func (r *ExecRunner) Upstream() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
}

// Fetch fetches from the named remote.
func (r *ExecRunner) Fetch(remote string) error {
	return r.runSilent("fetch", remote)
}

// ShowBranch runs git show-branch on the given ref; failure means the
// remote branch is gone.
func (r *ExecRunner) ShowBranch(ref string) error {
	return r.runSilent("show-branch", ref)
}

// HasCommitsInRange returns true if to contains commits absent from from.
func (r *ExecRunner) HasCommitsInRange(from, to string) (bool, error) {
	out, err := r.run("--no-pager", "log", "--format=oneline", from+".."+to)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Verify ExecRunner implements Runner at compile time.
var _ Runner = (*ExecRunner)(nil)
