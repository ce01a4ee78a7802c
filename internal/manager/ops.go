package manager

import (
	"time"

	"github.com/coreway/termwatch/internal/enrich"
	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
)

// ListSessions returns a ManagedSession snapshot for every session the
// manager currently owns, the shape an external caller's "list"
// operation returns.
func (m *Manager) ListSessions() []model.ManagedSession {
	m.mu.RLock()
	out := make([]model.ManagedSession, 0, len(m.sessions))
	for id, e := range m.sessions {
		out = append(out, model.ManagedSession{
			ID:             id,
			PresetName:     e.presetName,
			CreatedAt:      e.createdAt,
			LastActivity:   e.driver.LastActivity(),
			State:          e.driver.State(),
			PendingConfirm: e.driver.PendingConfirm(),
			Metrics:        e.driver.Metrics(),
		})
	}
	m.mu.RUnlock()
	return out
}

// GetState returns a session's current state.
func (m *Manager) GetState(id string) (model.SessionState, error) {
	e, err := m.lookup(id)
	if err != nil {
		return "", err
	}
	return e.driver.State(), nil
}

// GetScreen returns the last n lines of a session's virtual screen (or
// the whole screen when n <= 0).
func (m *Manager) GetScreen(id string, n int) (string, error) {
	e, err := m.lookup(id)
	if err != nil {
		return "", err
	}
	if n <= 0 {
		return e.driver.GetScreenText(), nil
	}
	lines := e.driver.GetLastLines(n)
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out, nil
}

// GetPendingConfirm returns a session's outstanding confirmation, if any.
func (m *Manager) GetPendingConfirm(id string) (*model.ConfirmInfo, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.driver.PendingConfirm(), nil
}

// RespondToConfirm answers a session's pending confirmation.
func (m *Manager) RespondToConfirm(id string, resp model.ConfirmResponse) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := e.driver.Confirm(resp); err != nil {
		return withSessionID(err, id)
	}
	return nil
}

// Send writes msg plus a carriage return to a session and records it
// as a user message.
func (m *Manager) Send(id, msg string) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := e.driver.Send(msg); err != nil {
		return withSessionID(err, id)
	}
	return nil
}

// Write sends raw bytes to a session with no interpretation.
func (m *Manager) Write(id string, p []byte) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := e.driver.Write(p); err != nil {
		return withSessionID(err, id)
	}
	return nil
}

// Interrupt writes Ctrl-C to a session.
func (m *Manager) Interrupt(id string) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := e.driver.Interrupt(); err != nil {
		return withSessionID(err, id)
	}
	return nil
}

// WaitForState blocks until a session enters target or timeout elapses.
func (m *Manager) WaitForState(id string, target model.SessionState, timeout time.Duration) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := e.driver.WaitForState(target, timeout); err != nil {
		return withSessionID(err, id)
	}
	return nil
}

// Exec wraps the driver's Exec, measuring wall-clock duration and
// always returning an EnhancedOutput (wrapping a raw string as a text
// record) unless parseOutput is false, in which case the raw
// SemanticOutput is returned unenriched.
func (m *Manager) Exec(id, cmd string, timeout time.Duration, parseOutput bool) (model.EnhancedOutput, error) {
	e, err := m.lookup(id)
	if err != nil {
		return model.EnhancedOutput{}, err
	}

	start := time.Now()
	out, execErr := e.driver.Exec(cmd, timeout)
	duration := time.Since(start)

	if execErr != nil {
		return model.EnhancedOutput{}, withSessionID(execErr, id)
	}

	ctx := enrich.Context{
		SessionID:  id,
		Command:    cmd,
		DurationMS: duration.Milliseconds(),
	}

	if !parseOutput {
		return model.EnhancedOutput{SemanticOutput: out, Metadata: model.OutputMetadata{
			Timestamp: time.Now(), SessionID: id, Command: cmd, DurationMS: duration.Milliseconds(),
		}}, nil
	}

	return enrich.CreateEnhancedOutput(out, ctx, time.Now()), nil
}

func withSessionID(err error, id string) error {
	if e, ok := err.(*errs.Error); ok {
		return errs.WithSession(e, id)
	}
	return err
}
