package summary

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/gimbo/git-summary/internal/repo"
)

// pipeline holds what both schedulers share: the provider, the observer,
// and the error-absorption policy. A phase failure is converted into a
// renderable fact and never aborts the run or any other repo's pipeline.
type pipeline struct {
	provider Provider
	observer Observer
	fetch    bool
	log      zerolog.Logger
}

// runLocalPhase executes phase 1 for one repo and delivers its event.
func (p *pipeline) runLocalPhase(r *repo.Repo) {
	if err := p.provider.ComputeLocal(r); err != nil {
		p.log.Warn().Str("repo", r.Name).Err(err).Msg("local state check failed")
		if r.Local() == nil {
			// Render as the no-baseline state: nothing is known about
			// the working tree.
			r.SetLocalFacts(repo.LocalFacts{HasCommits: false})
		}
	}
	p.observer.LocalComplete(r)
}

// runRemotePhase executes phase 2 for one repo and delivers its event.
func (p *pipeline) runRemotePhase(r *repo.Repo) {
	if err := p.provider.ComputeRemote(r, p.fetch); err != nil {
		p.log.Warn().Str("repo", r.Name).Err(err).Msg("remote state check failed")
		if r.Remote() == nil {
			// Render as the designated remote error state (XX).
			r.SetRemoteFacts(repo.RemoteFacts{HasUpstream: true, FetchFailed: true})
		}
	}
	p.observer.RemoteComplete(r)
}

// Sequential runs both phases for each repo in list order on the calling
// goroutine. It is the deterministic reference behaviour for the
// concurrent scheduler.
type Sequential struct {
	pipeline
	repos []*repo.Repo
}

// NewSequential creates a sequential summariser.
func NewSequential(repos []*repo.Repo, provider Provider, observer Observer, fetch bool, log zerolog.Logger) *Sequential {
	return &Sequential{
		pipeline: pipeline{provider: provider, observer: observer, fetch: fetch, log: log},
		repos:    repos,
	}
}

// Run summarises the repos one at a time, in list order.
func (s *Sequential) Run() {
	for _, r := range s.repos {
		s.runLocalPhase(r)
		s.runRemotePhase(r)
	}
}

// Concurrent runs phase calls on a fixed-size worker pool. Workers, not
// the dispatch loop, block in git subprocesses; a repo's remote job is
// enqueued by the worker that finished its local job, which keeps the
// per-repo phase order total while letting repos race each other.
type Concurrent struct {
	pipeline
	repos   []*repo.Repo
	workers int
}

// NewConcurrent creates a concurrent summariser with the given pool size;
// sizes below one fall back to DefaultWorkers.
func NewConcurrent(repos []*repo.Repo, provider Provider, observer Observer, fetch bool, workers int, log zerolog.Logger) *Concurrent {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Concurrent{
		pipeline: pipeline{provider: provider, observer: observer, fetch: fetch, log: log},
		repos:    repos,
		workers:  workers,
	}
}

// Run summarises all repos and returns once every repo's both phases have
// been delivered to the observer.
func (c *Concurrent) Run() {
	if len(c.repos) == 0 {
		return
	}

	// Two jobs per repo at most, so enqueueing never blocks a worker.
	jobs := make(chan func(), 2*len(c.repos))
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		go func() {
			for job := range jobs {
				job()
			}
		}()
	}

	for _, r := range c.repos {
		r := r
		wg.Add(1)
		jobs <- func() {
			defer wg.Done()
			c.runLocalPhase(r)
			// The local phase is complete; the remote phase may now be
			// scheduled behind whatever else the pool is doing.
			wg.Add(1)
			jobs <- func() {
				defer wg.Done()
				c.runRemotePhase(r)
			}
		}
	}

	wg.Wait()
	close(jobs)
}
