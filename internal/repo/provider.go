package repo

import (
	"fmt"
	"strings"
)

// GitProvider computes a repository's facts through its git runner. It is
// safe to call from multiple workers for distinct repositories: each Repo
// owns its runner and no state is shared between calls.
type GitProvider struct{}

// NewGitProvider creates a provider backed by each repo's git runner.
func NewGitProvider() *GitProvider {
	return &GitProvider{}
}

// ComputeLocal populates the repository's local facts (phase 1).
func (p *GitProvider) ComputeLocal(r *Repo) error {
	hasCommits, err := r.runner.HasCommits()
	if err != nil {
		return fmt.Errorf("check commits in %s: %w", r.Name, err)
	}
	if !hasCommits {
		r.SetLocalFacts(LocalFacts{HasCommits: false})
		return nil
	}

	status, err := r.runner.Status()
	if err != nil {
		return fmt.Errorf("status of %s: %w", r.Name, err)
	}
	facts := ParseStatus(status)
	facts.HasCommits = true
	r.SetLocalFacts(facts)
	return nil
}

// ComputeRemote populates the repository's remote facts (phase 2). When
// fetch is true the remote is fetched first, so the unpulled/unpushed
// flags reflect the remote's actual state.
func (p *GitProvider) ComputeRemote(r *Repo, fetch bool) error {
	if r.Detached() {
		r.SetRemoteFacts(RemoteFacts{HasUpstream: false})
		return nil
	}

	upstream, err := r.runner.Upstream()
	if err != nil {
		// No tracking branch configured for the active branch.
		r.SetRemoteFacts(RemoteFacts{HasUpstream: false})
		return nil
	}
	remoteName, remoteBranch, ok := splitUpstream(upstream)
	if !ok {
		r.SetRemoteFacts(RemoteFacts{HasUpstream: false})
		return nil
	}

	facts := RemoteFacts{
		HasUpstream:  true,
		RemoteName:   remoteName,
		RemoteBranch: remoteBranch,
	}

	if fetch {
		if err := r.runner.Fetch(remoteName); err != nil {
			facts.FetchFailed = true
			r.SetRemoteFacts(facts)
			return nil
		}
	}

	if err := r.runner.ShowBranch(upstream); err != nil {
		facts.UpstreamGone = true
		r.SetRemoteFacts(facts)
		return nil
	}

	unpulled, err := r.runner.HasCommitsInRange(r.Branch, upstream)
	if err != nil {
		return fmt.Errorf("unpulled commits of %s: %w", r.Name, err)
	}
	unpushed, err := r.runner.HasCommitsInRange(upstream, r.Branch)
	if err != nil {
		return fmt.Errorf("unpushed commits of %s: %w", r.Name, err)
	}
	facts.HasUnpulledCommits = unpulled
	facts.HasUnpushedCommits = unpushed
	r.SetRemoteFacts(facts)
	return nil
}

// splitUpstream splits "remote/branch" at the first slash; branch names
// may themselves contain slashes.
func splitUpstream(upstream string) (remote, branch string, ok bool) {
	remote, branch, ok = strings.Cut(upstream, "/")
	if !ok || remote == "" || branch == "" {
		return "", "", false
	}
	return remote, branch, true
}

// ParseStatus extracts local fact flags from git status --porcelain output.
func ParseStatus(status string) LocalFacts {
	var facts LocalFacts
	for _, line := range strings.Split(status, "\n") {
		if len(line) < 2 {
			continue
		}
		index, worktree := line[0], line[1]
		if index == '?' && worktree == '?' {
			facts.HasUntrackedFiles = true
			continue
		}
		if index == 'A' {
			facts.HasNewFiles = true
		}
		if worktree == 'M' {
			facts.HasUnstagedModifications = true
		}
		if index == 'M' {
			facts.HasStagedModifications = true
		}
		if index == 'R' {
			facts.HasRenamedFiles = true
		}
	}
	return facts
}
