// Package repo models a single git repository tracked through the
// two-phase inspection pipeline, along with discovery of repositories
// under a folder and the provider that computes their state.
package repo

import (
	"github.com/gimbo/git-summary/internal/git"
)

// DetachedBranchLabel is displayed in place of a branch name when a
// repository's HEAD is detached.
const DetachedBranchLabel = "--- detached? ---"

// LocalFacts holds everything phase 1 learns about a repository's
// working tree.
type LocalFacts struct {
	// HasCommits is false for a repository that has been initialised but
	// never committed to. When false, the remaining fields are meaningless.
	HasCommits bool

	HasUntrackedFiles        bool
	HasNewFiles              bool
	HasUnstagedModifications bool
	HasStagedModifications   bool
	HasRenamedFiles          bool
}

// RemoteFacts holds everything phase 2 learns about a repository's
// tracking branch.
type RemoteFacts struct {
	// HasUpstream is false when the active branch has no remote tracking
	// branch (or HEAD is detached). When false, the remaining fields are
	// meaningless.
	HasUpstream bool

	RemoteName   string
	RemoteBranch string

	// FetchFailed is set when a requested git fetch errored; it is a
	// terminal outcome, so UpstreamGone and the commit flags stay false.
	FetchFailed bool
	// UpstreamGone is set when the tracking branch no longer exists on
	// the remote.
	UpstreamGone bool

	HasUnpulledCommits bool
	HasUnpushedCommits bool
}

// Repo is one repository row in the summary table. Name and Branch are
// fixed at construction; the two fact slots are each populated exactly
// once by their phase. A slot is written by a single phase call and read
// only after that phase's completion has been signalled, so Repo carries
// no lock.
type Repo struct {
	// Name is the repository's folder name; rows are ordered by it.
	Name string
	// Branch is the active branch name, or DetachedBranchLabel.
	Branch string
	// Path is the absolute path of the repository.
	Path string

	runner git.Runner

	local  *LocalFacts
	remote *RemoteFacts
}

// New creates a Repo for the given folder, served by the given git runner.
func New(name, branch, path string, runner git.Runner) *Repo {
	return &Repo{Name: name, Branch: branch, Path: path, runner: runner}
}

// SetLocalFacts records the phase-1 result. Calling it twice is a
// programming error.
func (r *Repo) SetLocalFacts(f LocalFacts) {
	if r.local != nil {
		panic("repo: local facts set twice for " + r.Name)
	}
	r.local = &f
}

// SetRemoteFacts records the phase-2 result. Calling it twice is a
// programming error.
func (r *Repo) SetRemoteFacts(f RemoteFacts) {
	if r.remote != nil {
		panic("repo: remote facts set twice for " + r.Name)
	}
	r.remote = &f
}

// Local returns the phase-1 facts, or nil if phase 1 hasn't completed.
func (r *Repo) Local() *LocalFacts { return r.local }

// Remote returns the phase-2 facts, or nil if phase 2 hasn't completed.
func (r *Repo) Remote() *RemoteFacts { return r.remote }

// HasBaseline returns true once phase 1 has found at least one commit.
func (r *Repo) HasBaseline() bool {
	return r.local != nil && r.local.HasCommits
}

// HasUpstream returns true once phase 2 has resolved a tracking branch.
func (r *Repo) HasUpstream() bool {
	return r.remote != nil && r.remote.HasUpstream
}

// LocalDirty reports whether the working tree has any changes. A
// repository without a baseline is never considered dirty.
func (r *Repo) LocalDirty() bool {
	f := r.local
	if f == nil || !f.HasCommits {
		return false
	}
	return f.HasUntrackedFiles || f.HasNewFiles || f.HasUnstagedModifications ||
		f.HasStagedModifications || f.HasRenamedFiles
}

// RemoteDirty reports whether the branch has unpulled or unpushed commits.
func (r *Repo) RemoteDirty() bool {
	f := r.remote
	if f == nil || !f.HasUpstream {
		return false
	}
	return f.HasUnpulledCommits || f.HasUnpushedCommits
}

// FetchFailed reports whether phase 2 tried and failed to fetch.
func (r *Repo) FetchFailed() bool {
	return r.remote != nil && r.remote.FetchFailed
}

// TrackingBranch returns "remote/branch" for the active branch's tracking
// branch, or the empty string if there is none (or phase 2 hasn't run).
func (r *Repo) TrackingBranch() string {
	f := r.remote
	if f == nil || !f.HasUpstream || f.RemoteName == "" || f.RemoteBranch == "" {
		return ""
	}
	return f.RemoteName + "/" + f.RemoteBranch
}

// Detached reports whether the repository's HEAD is detached.
func (r *Repo) Detached() bool {
	return r.Branch == DetachedBranchLabel
}
