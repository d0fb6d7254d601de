package render

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gimbo/git-summary/internal/repo"
)

// stubProbe is a GeometryProbe with a canned answer.
type stubProbe struct {
	row int
	err error
}

func (p *stubProbe) CursorRow() (int, error) { return p.row, p.err }

// renderFancy runs a full fancy render (monochrome, forced clear) with
// the given arrival order.
func renderFancy(repos []*repo.Repo, tracking bool, sequence string) string {
	var buf bytes.Buffer
	f := NewFancy(&buf, &stubProbe{err: errors.New("no tty")}, "/tmp/projects", repos, tracking, true, false)
	f.Start()
	for _, event := range strings.Fields(sequence) {
		r := repos[event[0]-'A']
		switch event[1] {
		case 'l':
			f.LocalComplete(r)
		case 'r':
			f.RemoteComplete(r)
		}
	}
	return buf.String()
}

func TestCursorWriterClearFallbackOnProbeFailure(t *testing.T) {
	var buf bytes.Buffer
	NewCursorWriter(&buf, 5, false, &stubProbe{err: errors.New("no tty")})

	if !strings.HasPrefix(buf.String(), "\x1b[2J") {
		t.Errorf("output should start with a clear sequence, got %q", buf.String())
	}
}

func TestCursorWriterForceClearMatchesFallback(t *testing.T) {
	// Forcing the clear with a working probe must behave exactly like
	// the probe failing: same anchor, same bytes.
	var forced, fallback bytes.Buffer
	NewCursorWriter(&forced, 5, true, &stubProbe{row: 20})
	NewCursorWriter(&fallback, 5, false, &stubProbe{err: errors.New("no tty")})

	if forced.String() != fallback.String() {
		t.Errorf("forced clear %q != probe-failure fallback %q", forced.String(), fallback.String())
	}
}

func TestCursorWriterAnchorsBelowExistingOutput(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCursorWriter(&buf, 5, false, &stubProbe{row: 20})

	if strings.Contains(buf.String(), "\x1b[2J") {
		t.Errorf("successful probe should not clear the screen: %q", buf.String())
	}
	// Root row = probed row - rows needed - 1 = 14.
	if cw.rootRow != 14 {
		t.Errorf("rootRow = %d, want 14", cw.rootRow)
	}

	buf.Reset()
	cw.WriteAt(0, 0, "hello")
	if !strings.Contains(buf.String(), "\x1b[15;0Hhello") {
		t.Errorf("WriteAt(0,0) = %q, want positioning at row 15", buf.String())
	}
}

func TestCursorWriterWriteAtParksCursor(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCursorWriter(&buf, 5, true, nil)
	buf.Reset()

	cw.WriteAt(2, 7, "cell")
	got := buf.String()
	if !strings.HasPrefix(got, "\x1b[3;7Hcell") {
		t.Errorf("WriteAt(2,7) = %q, want it to start at row 3 col 7", got)
	}
	if !strings.HasSuffix(got, "\x1b[5;0H\n") {
		t.Errorf("WriteAt should park the cursor below the table, got %q", got)
	}
}

func TestFancyClearFallbackIdempotent(t *testing.T) {
	// Two runs through the clear-and-anchor fallback with identical
	// event input must produce identical output.
	first := renderFancy(tableRepos(), false, "Bl Al Cl Cr Ar Br")
	second := renderFancy(tableRepos(), false, "Bl Al Cl Cr Ar Br")
	if first != second {
		t.Error("fallback rendering is not deterministic")
	}
}

func TestFancyCellPlacementFixedPerRepo(t *testing.T) {
	// Widths: name 9 (header), branch 7 (develop). First repo row is
	// table row 4, so the terminal row is 5; the state cell starts at
	// column 9+3+7+2 = 21.
	got := renderFancy(tableRepos(), false, "Al Ar Bl Br Cl Cr")

	if !strings.Contains(got, "\x1b[5;21H     ") {
		t.Errorf("alpha's local state cell not at row 5 col 21:\n%q", got)
	}
	if !strings.Contains(got, "\x1b[6;21H?  M ") {
		t.Errorf("bravo's local state cell not at row 6 col 21:\n%q", got)
	}
	if !strings.Contains(got, "\x1b[7;21H00000") {
		t.Errorf("charlie's local state cell not at row 7 col 21:\n%q", got)
	}
	// Remote codes land localStateWidth columns further right.
	if !strings.Contains(got, "\x1b[6;26H ^") {
		t.Errorf("bravo's remote state cell not at row 6 col 26:\n%q", got)
	}
	if !strings.Contains(got, "\x1b[7;26H--") {
		t.Errorf("charlie's remote state cell not at row 7 col 26:\n%q", got)
	}
}

func TestFancyArrivalOrderDoesNotMovePlacement(t *testing.T) {
	// The same cells land at the same coordinates whatever the arrival
	// order; only the emission order of the escape-positioned writes
	// differs.
	inOrder := renderFancy(tableRepos(), false, "Al Ar Bl Br Cl Cr")
	scrambled := renderFancy(tableRepos(), false, "Bl Al Cl Cr Ar Br")

	for _, cell := range []string{
		"\x1b[5;21H     ",
		"\x1b[6;21H?  M ",
		"\x1b[7;21H00000",
		"\x1b[6;26H ^",
		"\x1b[7;26H--",
	} {
		if !strings.Contains(inOrder, cell) || !strings.Contains(scrambled, cell) {
			t.Errorf("cell %q missing from one of the renderings", cell)
		}
	}
}

func TestFancyPlaceholderBeforeFacts(t *testing.T) {
	var buf bytes.Buffer
	f := NewFancy(&buf, nil, "/tmp/projects", tableRepos(), false, true, true)
	f.Start()

	if got := strings.Count(buf.String(), statePlaceholder); got != 3 {
		t.Errorf("placeholder written %d times, want once per repo", got)
	}
}

func TestFancyTrackingColumn(t *testing.T) {
	got := renderFancy(tableRepos(), true, "Al Ar Bl Br Cl Cr")

	if !strings.Contains(got, headerTracking) {
		t.Error("tracking header missing")
	}
	if !strings.Contains(got, "origin/develop") {
		t.Error("bravo's tracking branch missing")
	}
}

func TestFancyTrackingConcurrentRemoteEvents(t *testing.T) {
	// With the tracking column on, one repo's remote event must never
	// read another repo's remote slot: that slot may still be mid-write
	// on a worker goroutine. Run under the race detector.
	alpha := repo.New("alpha", "main", "/tmp/projects/alpha", nil)
	alpha.SetLocalFacts(repo.LocalFacts{HasCommits: true})
	alpha.SetRemoteFacts(repo.RemoteFacts{HasUpstream: true, RemoteName: "origin", RemoteBranch: "main"})
	bravo := repo.New("bravo", "develop", "/tmp/projects/bravo", nil)
	bravo.SetLocalFacts(repo.LocalFacts{HasCommits: true})

	var buf bytes.Buffer
	f := NewFancy(&buf, nil, "/tmp/projects", []*repo.Repo{alpha, bravo}, true, true, true)
	f.Start()
	f.LocalComplete(alpha)
	f.LocalComplete(bravo)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.RemoteComplete(alpha)
	}()
	go func() {
		defer wg.Done()
		bravo.SetRemoteFacts(repo.RemoteFacts{
			HasUpstream:  true,
			RemoteName:   "origin",
			RemoteBranch: "a-rather-long-branch-name",
		})
		f.RemoteComplete(bravo)
	}()
	wg.Wait()

	got := buf.String()
	if !strings.Contains(got, "origin/a-rather-long-branch-name") {
		t.Error("bravo's tracking branch missing")
	}
	// The header rule must have widened to bravo's tracking branch.
	if !strings.Contains(got, rule(len("origin/a-rather-long-branch-name"))) {
		t.Error("tracking rule did not grow to the widest branch")
	}
}

func TestFancyNoTrackingColumnByDefault(t *testing.T) {
	got := renderFancy(tableRepos(), false, "Al Ar Bl Br Cl Cr")
	if strings.Contains(got, headerTracking) {
		t.Error("tracking header should not be written")
	}
}
