package render

import (
	"fmt"
	"io"
	"strings"
)

// GeometryProbe reports where the cursor currently sits in the terminal.
// It is inherently best-effort and platform-dependent, so it lives behind
// an interface and is stubbed in tests.
type GeometryProbe interface {
	// CursorRow returns the cursor's current 0-based terminal row.
	CursorRow() (int, error)
}

// CursorWriter writes text at arbitrary (0-indexed) positions using ANSI
// escape codes, anchored at a root row chosen so the table lands inside
// the existing console flow without disrupting scrollback. If the anchor
// cannot be determined (or the caller forces it), the screen is cleared
// and the table anchors at the top instead; that fallback is
// deterministic and idempotent.
type CursorWriter struct {
	w          io.Writer
	rowsNeeded int
	rootRow    int
}

// NewCursorWriter prepares a writer with vertical space for rowsNeeded
// rows of output.
func NewCursorWriter(w io.Writer, rowsNeeded int, forceClear bool, probe GeometryProbe) *CursorWriter {
	cw := &CursorWriter{w: w, rowsNeeded: rowsNeeded}

	row := -1
	if !forceClear && probe != nil {
		if r, err := probe.CursorRow(); err == nil {
			row = r
		}
	}
	if row > 0 {
		// We know where we are: make space for everything we'll write
		// and anchor at the top of that space.
		fmt.Fprint(w, strings.Repeat("\n", rowsNeeded+1))
		if r, err := probe.CursorRow(); err == nil && r-rowsNeeded-1 > 0 {
			cw.rootRow = r - rowsNeeded - 1
		}
	}

	if cw.rootRow == 0 {
		cw.Clear()
	}
	return cw
}

// Clear clears the console, then parks the cursor.
func (cw *CursorWriter) Clear() {
	fmt.Fprint(cw.w, "\x1b[2J")
	cw.park()
}

// WriteAt writes msg at the given table position, then parks the cursor.
func (cw *CursorWriter) WriteAt(row, col int, msg string) {
	fmt.Fprintf(cw.w, "%s%s", cw.pos(row+1, col), msg)
	cw.park()
}

// pos returns the escape sequence moving the cursor to a root-relative
// position.
func (cw *CursorWriter) pos(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", cw.rootRow+row, col)
}

// park moves the cursor to column 0 of the row after the final table
// row, so interleaved writes never land mid-table.
func (cw *CursorWriter) park() {
	fmt.Fprintf(cw.w, "%s\n", cw.pos(cw.rowsNeeded, 0))
}
