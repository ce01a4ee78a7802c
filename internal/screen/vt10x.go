package screen

import (
	"strings"
	"sync"

	"github.com/hinshun/vt10x"
)

// VT10XScreen implements Screen over github.com/hinshun/vt10x, the
// ANSI-aware terminal emulator this package treats as an external
// collaborator: it owns control-sequence interpretation, this type only
// adapts its view onto the Screen contract. The emulator keeps only the
// visible grid: GetScreenText returns the visible rows, and lines that
// have scrolled off the top are not retained.
type VT10XScreen struct {
	mu      sync.Mutex
	term    vt10x.Terminal
	cols    int
	rows    int
	changed bool
}

// NewVT10X constructs a VT10XScreen with the given initial dimensions.
func NewVT10X(cols, rows int) *VT10XScreen {
	term := vt10x.New(vt10x.WithSize(cols, rows))
	return &VT10XScreen{term: term, cols: cols, rows: rows}
}

func (s *VT10XScreen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.term.Write(p)
	if n > 0 {
		s.changed = true
	}
	return n, err
}

func (s *VT10XScreen) GetScreenText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.term.Lock()
	defer s.term.Unlock()

	var b strings.Builder
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			glyph := s.term.Cell(x, y)
			if glyph.Char == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(glyph.Char)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *VT10XScreen) GetLastLine() string {
	lines := s.GetLastLines(1)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func (s *VT10XScreen) GetLastLines(n int) []string {
	text := s.GetScreenText()
	all := strings.Split(text, "\n")

	var nonEmpty []string
	for _, l := range all {
		if strings.TrimSpace(strings.TrimRight(l, " ")) != "" {
			nonEmpty = append(nonEmpty, strings.TrimRight(l, " "))
		}
	}
	if n <= 0 || n >= len(nonEmpty) {
		return nonEmpty
	}
	return nonEmpty[len(nonEmpty)-n:]
}

func (s *VT10XScreen) GetCursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term.Lock()
	defer s.term.Unlock()
	cur := s.term.Cursor()
	return Cursor{X: cur.X, Y: cur.Y}
}

func (s *VT10XScreen) Resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term.Resize(cols, rows)
	s.cols, s.rows = cols, rows
	return nil
}

// Clear writes the ANSI clear-screen sequence into the emulator, the
// same effect a "clear" shell command has, keeping scrollback intact.
func (s *VT10XScreen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term.Write([]byte("\x1b[2J\x1b[H"))
	s.changed = true
}

// Reset drops the terminal state entirely and starts a blank screen at
// the same dimensions.
func (s *VT10XScreen) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term = vt10x.New(vt10x.WithSize(s.cols, s.rows))
	s.changed = true
}

func (s *VT10XScreen) Changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.changed
	s.changed = false
	return c
}

func (s *VT10XScreen) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term.Lock()
	defer s.term.Unlock()
	return s.term.Title()
}

func (s *VT10XScreen) Dispose() error {
	return nil
}
