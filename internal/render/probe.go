package render

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// DefaultProbeTimeout bounds how long the probe waits for the terminal's
// cursor position report.
const DefaultProbeTimeout = time.Second

// TermProbe queries the controlling terminal for the cursor position
// using the DSR escape sequence (ESC[6n): it puts stdin into raw mode,
// emits the query, and reads back the ESC[row;colR report. The read is
// bounded by a deadline so an unsupported terminal can never block the
// run indefinitely.
type TermProbe struct {
	in      *os.File
	out     *os.File
	timeout time.Duration
}

// NewTermProbe creates a probe over stdin/stdout.
func NewTermProbe(timeout time.Duration) *TermProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &TermProbe{in: os.Stdin, out: os.Stdout, timeout: timeout}
}

// CursorRow returns the cursor's current 0-based terminal row.
func (p *TermProbe) CursorRow() (row int, err error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return 0, errors.New("stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return 0, fmt.Errorf("raw mode: %w", err)
	}
	defer func() {
		if restoreErr := term.Restore(fd, oldState); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}()

	if _, err := p.out.WriteString("\x1b[6n"); err != nil {
		return 0, fmt.Errorf("cursor position query: %w", err)
	}

	if err := p.in.SetReadDeadline(time.Now().Add(p.timeout)); err != nil {
		return 0, fmt.Errorf("probe deadline: %w", err)
	}
	defer p.in.SetReadDeadline(time.Time{})

	// Response is ESC [ row ; col R.
	buf := make([]byte, 0, 16)
	one := make([]byte, 1)
	for {
		if _, err := p.in.Read(one); err != nil {
			return 0, fmt.Errorf("read cursor report: %w", err)
		}
		if one[0] == 'R' {
			break
		}
		buf = append(buf, one[0])
		if len(buf) > 32 {
			return 0, errors.New("malformed cursor report")
		}
	}

	var col int
	if _, err := fmt.Sscanf(string(buf), "\x1b[%d;%d", &row, &col); err != nil {
		return 0, fmt.Errorf("parse cursor report %q: %w", buf, err)
	}
	return row - 1, nil
}

// Verify TermProbe implements GeometryProbe at compile time.
var _ GeometryProbe = (*TermProbe)(nil)
