// Package render turns phase-completion events into the summary table.
//
// Two renderers share one fixed layout: Simple emits a strictly ordered
// text stream, buffering results that arrive early; Fancy writes each
// cell straight to its terminal coordinates the moment its event arrives.
package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/gimbo/git-summary/internal/repo"
)

const (
	headerRepo     = "repo name"
	headerBranch   = "branch"
	headerState    = "state"
	headerTracking = "tracking branch"
	headerRule     = "="

	// localStateWidth is the width of the local state code (?, +, m, M, R).
	localStateWidth = 5
	// stateCellWidth covers the local code plus the two-char remote code.
	stateCellWidth = localStateWidth + 2

	// noBaselineCode is rendered for a repo with no commits yet.
	noBaselineCode = "00000"
	// statePlaceholder fills the state cell until phase 1 lands.
	statePlaceholder = "_______"
)

// Widths holds the name and branch column widths, computed once from the
// complete repo list before any row is written: the stream format cannot
// be retroactively widened.
type Widths struct {
	Name   int
	Branch int
}

// ComputeWidths returns the column widths for the given repo list,
// headers included.
func ComputeWidths(repos []*repo.Repo) Widths {
	w := Widths{
		Name:   runewidth.StringWidth(headerRepo),
		Branch: runewidth.StringWidth(headerBranch),
	}
	for _, r := range repos {
		if n := runewidth.StringWidth(r.Name); n > w.Name {
			w.Name = n
		}
		if n := runewidth.StringWidth(r.Branch); n > w.Branch {
			w.Branch = n
		}
	}
	return w
}

// factFlag pairs a status code character with whether it applies. The
// set of flags is fixed and ordered so rendering is deterministic.
type factFlag struct {
	code byte
	set  bool
}

// condenseFacts renders each flag as its code character, or a space.
func condenseFacts(facts []factFlag) string {
	var b strings.Builder
	for _, f := range facts {
		if f.set {
			b.WriteByte(f.code)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// LocalStateCode returns the 5-character local state cell for a repo
// whose phase 1 has completed.
func LocalStateCode(r *repo.Repo) string {
	f := r.Local()
	if f == nil || !f.HasCommits {
		return noBaselineCode
	}
	return condenseFacts([]factFlag{
		{'?', f.HasUntrackedFiles},
		{'+', f.HasNewFiles},
		{'m', f.HasUnstagedModifications},
		{'M', f.HasStagedModifications},
		{'R', f.HasRenamedFiles},
	})
}

// RemoteStateCode returns the 2-character remote state cell for a repo
// whose phase 2 has completed.
func RemoteStateCode(r *repo.Repo) string {
	f := r.Remote()
	if f == nil || !f.HasUpstream {
		return "--"
	}
	if f.FetchFailed {
		return "XX"
	}
	if f.UpstreamGone {
		return "@@"
	}
	return condenseFacts([]factFlag{
		{'v', f.HasUnpulledCommits},
		{'^', f.HasUnpushedCommits},
	})
}

// Status is a repo's current best-known overall state, used to colour its
// row. Later facts can only refine the status, never retract it, so it is
// recomputed fresh on every event.
type Status int

// Statuses in precedence order, highest first.
const (
	StatusNoBaseline Status = iota
	StatusLocalDirty
	StatusNoUpstream
	StatusFetchFailed
	StatusRemoteDirty
	StatusAllClean
)

// StatusOf computes a repo's summary status from whichever facts are
// known so far.
func StatusOf(r *repo.Repo) Status {
	switch {
	case !r.HasBaseline():
		return StatusNoBaseline
	case r.LocalDirty():
		return StatusLocalDirty
	case !r.HasUpstream():
		return StatusNoUpstream
	case r.FetchFailed():
		return StatusFetchFailed
	case r.RemoteDirty():
		return StatusRemoteDirty
	default:
		return StatusAllClean
	}
}

var statusColors = map[Status]*color.Color{
	StatusNoBaseline:  color.New(color.FgBlack, color.BgYellow),
	StatusLocalDirty:  color.New(color.FgRed),
	StatusNoUpstream:  color.New(color.FgYellow),
	StatusFetchFailed: color.New(color.FgMagenta),
	StatusRemoteDirty: color.New(color.FgCyan),
	StatusAllClean:    color.New(color.FgGreen),
}

// Color returns the colour for the status.
func (s Status) Color() *color.Color {
	return statusColors[s]
}

// pad left-aligns s to the given display width.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// rule returns a header underline of the given width.
func rule(width int) string {
	return strings.Repeat(headerRule, width)
}
