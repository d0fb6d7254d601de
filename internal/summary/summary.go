// Package summary drives the two-phase inspection pipeline across all
// discovered repositories and notifies a renderer as each phase lands.
//
// Every repository goes through phase 1 (local working-tree state) and
// then phase 2 (remote/tracking state). Per repository the phases are
// strictly ordered; across repositories there is no ordering at all, and
// renderers must not rely on any.
package summary

import (
	"github.com/gimbo/git-summary/internal/repo"
)

// DefaultWorkers is the default size of the concurrent worker pool.
const DefaultWorkers = 8

// Provider computes a repository's facts. Implementations must be safely
// callable from multiple workers for distinct repositories.
type Provider interface {
	// ComputeLocal populates the repo's local facts (phase 1).
	ComputeLocal(r *repo.Repo) error
	// ComputeRemote populates the repo's remote facts (phase 2).
	ComputeRemote(r *repo.Repo, fetch bool) error
}

// Observer receives phase-completion notifications. Calls may arrive on
// worker goroutines in any cross-repo order; for a given repo,
// LocalComplete strictly precedes RemoteComplete.
type Observer interface {
	LocalComplete(r *repo.Repo)
	RemoteComplete(r *repo.Repo)
}

// Summariser runs the pipeline to completion for a fixed repo list.
type Summariser interface {
	Run()
}
