package render

import (
	"io"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/gimbo/git-summary/internal/repo"
)

// Fancy is the direct-addressed renderer. Every repo's cells have fixed,
// pre-known coordinates, so each phase event is rendered the instant it
// arrives regardless of cross-repo arrival order. The repo-name cell is
// rewritten in the row's current summary colour after every event.
type Fancy struct {
	cursor   *CursorWriter
	path     string
	tracking bool
	mono     bool

	repos  []*repo.Repo
	rows   map[string]int
	widths Widths

	// trackingWidth is the widest tracking branch seen so far, header
	// included. It grows only from delivered events; a repo's remote
	// slot is never read before its own RemoteComplete.
	trackingWidth int

	// row0/row1 are the two header rows (column names, = rules); the
	// first repo row sits directly below row1.
	row0 int
	row1 int

	mu sync.Mutex
}

// NewFancy creates a fancy renderer writing to w, anchored via probe.
func NewFancy(w io.Writer, probe GeometryProbe, path string, repos []*repo.Repo, tracking, mono, forceClear bool) *Fancy {
	rows := make(map[string]int, len(repos))
	for i, r := range repos {
		rows[r.Name] = i
	}
	f := &Fancy{
		path:          path,
		tracking:      tracking,
		mono:          mono,
		repos:         repos,
		rows:          rows,
		widths:        ComputeWidths(repos),
		trackingWidth: runewidth.StringWidth(headerTracking),
		row0:          2,
		row1:          3,
	}
	f.cursor = NewCursorWriter(w, len(repos)+f.row1+1, forceClear, probe)
	return f
}

// Start writes the header and every repo's static cells, with a
// placeholder where the state will land.
func (f *Fancy) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeHeader()
	for _, r := range f.repos {
		f.repoWrite(r, 0, r.Name)
		f.repoWrite(r, f.xBranch(), r.Branch)
		f.repoWrite(r, f.xState(), statePlaceholder)
	}
}

// LocalComplete renders a repo's local state cell and refreshes its
// summary colour.
func (f *Fancy) LocalComplete(r *repo.Repo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeRepoName(r)
	f.repoWrite(r, f.xState(), LocalStateCode(r))
}

// RemoteComplete renders a repo's remote state cell, refreshes its
// summary colour, and (with the tracking column on) rewrites the header
// since the tracking width may have grown.
func (f *Fancy) RemoteComplete(r *repo.Repo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeRepoName(r)
	f.repoWrite(r, f.xState()+localStateWidth, RemoteStateCode(r))
	if f.tracking {
		branch := r.TrackingBranch()
		if n := runewidth.StringWidth(branch); n > f.trackingWidth {
			f.trackingWidth = n
		}
		f.repoWrite(r, f.xTracking(), branch)
		f.writeHeader()
	}
}

// xBranch is the starting column of the branch cell.
func (f *Fancy) xBranch() int {
	return f.widths.Name + 3
}

// xState is the starting column of the state cell.
func (f *Fancy) xState() int {
	return f.xBranch() + f.widths.Branch + 2
}

// xTracking is the starting column of the tracking-branch cell.
func (f *Fancy) xTracking() int {
	return f.xState() + stateCellWidth + 2
}

func (f *Fancy) writeHeader() {
	f.cursor.WriteAt(0, 0, "git summary for "+f.path)
	f.cursor.WriteAt(f.row0, 0, headerRepo)
	f.cursor.WriteAt(f.row1, 0, rule(f.widths.Name))
	f.cursor.WriteAt(f.row0, f.xBranch(), headerBranch)
	f.cursor.WriteAt(f.row1, f.xBranch(), rule(f.widths.Branch))
	stateHeader := headerState + "  "
	f.cursor.WriteAt(f.row0, f.xState(), stateHeader)
	f.cursor.WriteAt(f.row1, f.xState(), rule(len(stateHeader)))
	if f.tracking {
		f.cursor.WriteAt(f.row0, f.xTracking(), headerTracking)
		f.cursor.WriteAt(f.row1, f.xTracking(), rule(f.trackingWidth))
	}
}

// repoWrite writes msg into the given column of the repo's row.
func (f *Fancy) repoWrite(r *repo.Repo, col int, msg string) {
	f.cursor.WriteAt(f.rows[r.Name]+f.row1+1, col, msg)
}

// writeRepoName rewrites the repo's name cell in its current summary
// colour.
func (f *Fancy) writeRepoName(r *repo.Repo) {
	f.repoWrite(r, 0, f.colorise(r.Name, StatusOf(r)))
}

// colorise wraps s in the status colour, unless running monochrome.
func (f *Fancy) colorise(s string, status Status) string {
	if f.mono {
		return s
	}
	return status.Color().Sprint(s)
}
