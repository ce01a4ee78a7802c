package session

import (
	"time"

	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/ptyspawn"
)

// Write sends raw bytes to the child process with no interpretation.
func (d *Driver) Write(p []byte) error {
	if err := d.requireLive(); err != nil {
		return err
	}
	_, err := d.spawner.Write(p)
	if err != nil {
		return errs.Wrap(errs.Internal, "write to session failed", err)
	}
	d.touchActivity()
	return nil
}

// Send writes msg followed by a carriage return and records it as a
// user message in the session's transcript.
func (d *Driver) Send(msg string) error {
	if err := d.Write([]byte(msg + "\r")); err != nil {
		return err
	}
	d.mu.Lock()
	d.messages = append(d.messages, model.Message{Role: model.RoleUser, Content: msg, Timestamp: time.Now()})
	d.mu.Unlock()
	return nil
}

// Interrupt writes Ctrl-C (0x03), the terminal interrupt signal.
func (d *Driver) Interrupt() error {
	return d.Write([]byte{0x03})
}

// namedKeys maps the SendKey vocabulary to the escape sequences a
// terminal application expects. An unknown key writes nothing to the
// session and returns errs.UnknownKey; the session itself is unaffected.
var namedKeys = map[string]string{
	"enter":     "\r",
	"tab":       "\t",
	"escape":    "\x1b",
	"backspace": "\x7f",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"right":     "\x1b[C",
	"left":      "\x1b[D",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"pageup":    "\x1b[5~",
	"pagedown":  "\x1b[6~",
	"delete":    "\x1b[3~",
	"ctrl+c":    "\x03",
	"ctrl+d":    "\x04",
	"ctrl+z":    "\x1a",
	"ctrl+l":    "\x0c",
	"ctrl+u":    "\x15",
	"ctrl+a":    "\x01",
	"ctrl+e":    "\x05",
}

// SendKey writes the escape sequence for one of namedKeys' entries.
// An unrecognized key name writes nothing and returns errs.UnknownKey.
func (d *Driver) SendKey(key string) error {
	seq, ok := namedKeys[key]
	if !ok {
		return errs.New(errs.UnknownKey, "unrecognized key name: "+key)
	}
	return d.Write([]byte(seq))
}

// Resize changes the PTY and virtual screen dimensions together.
func (d *Driver) Resize(cols, rows int) error {
	if err := d.requireLive(); err != nil {
		return err
	}
	if err := d.spawner.Resize(ptyspawn.Size{Cols: cols, Rows: rows}); err != nil {
		return errs.Wrap(errs.Internal, "resize pty failed", err)
	}
	if err := d.screen.Resize(cols, rows); err != nil {
		return errs.Wrap(errs.Internal, "resize screen failed", err)
	}
	return nil
}

// GetScreenText returns the current virtual screen contents.
func (d *Driver) GetScreenText() string {
	return d.screen.GetScreenText()
}

// GetLastLines returns the last n lines of the virtual screen.
func (d *Driver) GetLastLines(n int) []string {
	return d.screen.GetLastLines(n)
}

// LastActivity returns the time of the most recent externally
// initiated mutation or state transition, the basis for idle eviction.
func (d *Driver) LastActivity() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastActivity
}

// State returns the driver's current session state.
func (d *Driver) State() model.SessionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// PendingConfirm returns the currently outstanding confirmation, if any.
func (d *Driver) PendingConfirm() *model.ConfirmInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pendingConfirm
}

// Messages returns a copy of the session's recorded transcript.
func (d *Driver) Messages() []model.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Message, len(d.messages))
	copy(out, d.messages)
	return out
}

func (d *Driver) requireLive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return errs.New(errs.LifecycleNotStarted, "session not started")
	}
	if d.exited {
		return errs.New(errs.LifecycleExited, "session already exited")
	}
	return nil
}
