// Package git provides an interface for git operations.
package git

// StatusOperations defines the interface for local working-tree queries.
type StatusOperations interface {
	// IsRepo returns true if the path holds a valid git repository.
	IsRepo() bool
	// CurrentBranch returns the name of the current branch.
	// A detached HEAD is reported as the literal "HEAD".
	CurrentBranch() (string, error)
	// HasCommits returns true if the repository has at least one commit.
	HasCommits() (bool, error)
	// Status returns the output of git status --porcelain.
	Status() (string, error)
}

// RemoteOperations defines the interface for remote/tracking-branch queries.
type RemoteOperations interface {
	// Upstream returns the tracking branch of the current branch as
	// "remote/branch". It returns an error when no upstream is configured.
	Upstream() (string, error)
	// Fetch fetches from the named remote.
	Fetch(remote string) error
	// ShowBranch runs git show-branch on the given ref. A non-nil error
	// means the ref no longer resolves, i.e. the branch is gone.
	ShowBranch(ref string) error
	// HasCommitsInRange returns true if to contains commits absent from from.
	HasCommitsInRange(from, to string) (bool, error)
}

// Runner defines the complete interface for git operations.
// This interface embeds all focused interfaces for full functionality.
// Consumers should prefer using focused interfaces when possible.
type Runner interface {
	StatusOperations
	RemoteOperations
}
