package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gimbo/git-summary/internal/repo"
)

// Simple is the buffered, order-preserving renderer. It emits a plain
// row-major text stream, so row i's cells may only ever be written after
// every cell of rows 0..i-1 — even though phase events arrive in
// arbitrary cross-repo order. A single render-position cursor tracks the
// next cell the stream needs; events that arrive ahead of the cursor are
// recorded and consumed when the cursor reaches them.
//
// Simple output is always monochrome.
type Simple struct {
	w        io.Writer
	path     string
	tracking bool

	repos  []*repo.Repo
	index  map[string]int
	widths Widths

	mu         sync.Mutex
	haveLocal  []bool
	haveRemote []bool
	// row and awaitRemote form the render position: the next cell to
	// emit is row's local cell, or its remote cell once awaitRemote.
	row         int
	awaitRemote bool
}

// NewSimple creates a simple renderer writing to w.
func NewSimple(w io.Writer, path string, repos []*repo.Repo, tracking bool) *Simple {
	index := make(map[string]int, len(repos))
	for i, r := range repos {
		index[r.Name] = i
	}
	return &Simple{
		w:          w,
		path:       path,
		tracking:   tracking,
		repos:      repos,
		index:      index,
		widths:     ComputeWidths(repos),
		haveLocal:  make([]bool, len(repos)),
		haveRemote: make([]bool, len(repos)),
	}
}

// Start writes the table header and the first row's static cells. After
// this, all further output is driven by phase-completion events.
func (s *Simple) Start() {
	s.writeHeader()
	first := s.repos[0]
	s.writeName(first.Name)
	s.writeBranch(first.Branch)
}

// LocalComplete records a repo's local facts and emits whatever the
// stream position now allows.
func (s *Simple) LocalComplete(r *repo.Repo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haveLocal[s.index[r.Name]] = true
	s.drain()
}

// RemoteComplete records a repo's remote facts and emits whatever the
// stream position now allows.
func (s *Simple) RemoteComplete(r *repo.Repo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haveRemote[s.index[r.Name]] = true
	s.drain()
}

// drain advances the render position as far as the recorded facts allow.
// Emitting one cell may unblock the next, so it loops until stuck.
func (s *Simple) drain() {
	for s.advance() {
	}
}

// advance emits the cell at the render position if its facts have
// arrived, returning whether it moved.
func (s *Simple) advance() bool {
	if s.row >= len(s.repos) {
		return false
	}
	r := s.repos[s.row]
	if !s.awaitRemote {
		if !s.haveLocal[s.row] {
			return false
		}
		s.writeLocal(LocalStateCode(r))
		s.awaitRemote = true
		return true
	}
	if !s.haveRemote[s.row] {
		return false
	}
	s.writeRemote(RemoteStateCode(r), r.TrackingBranch())
	s.row++
	s.awaitRemote = false
	if s.row == len(s.repos) {
		return false
	}
	// Eagerly emit the next row's static cells; its local state cell is
	// now the one the stream waits on.
	next := s.repos[s.row]
	s.writeName(next.Name)
	s.writeBranch(next.Branch)
	return true
}

func (s *Simple) writeHeader() {
	fmt.Fprintf(s.w, "git summary for %s\n\n", s.path)
	s.writeName(headerRepo)
	s.writeBranch(headerBranch)
	s.writeLocal(headerState)
	if s.tracking {
		s.writeRemote("  ", headerTracking)
	} else {
		s.writeRemote("  ", "")
	}
	s.writeName(rule(s.widths.Name))
	s.writeBranch(rule(s.widths.Branch))
	s.writeLocal(rule(stateCellWidth))
	if s.tracking {
		s.writeRemote("", rule(len(headerTracking)))
	} else {
		s.writeRemote("", "")
	}
}

func (s *Simple) writeName(name string) {
	fmt.Fprintf(s.w, "%s  ", pad(name, s.widths.Name))
}

func (s *Simple) writeBranch(branch string) {
	fmt.Fprintf(s.w, "%s  ", pad(branch, s.widths.Branch))
}

func (s *Simple) writeLocal(code string) {
	fmt.Fprint(s.w, code)
}

// writeRemote finishes a row: the remote code, the optional tracking
// column, and the newline.
func (s *Simple) writeRemote(code, tracking string) {
	fmt.Fprint(s.w, code)
	if s.tracking {
		fmt.Fprint(s.w, strings.TrimRight("  "+tracking, " "))
	}
	fmt.Fprint(s.w, "\n")
}
