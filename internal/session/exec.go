package session

import (
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/coreway/termwatch/internal/errs"
	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/sanitize"
)

const execPollInterval = 20 * time.Millisecond

// Exec sends cmd, waits for the resulting output, and classifies it.
// It must be called while the driver is idle: it captures the current
// screen length, waits up to 5 seconds for the state to leave idle,
// then waits up to timeout for it to return to idle. The suffix of
// screen text produced in between is submitted to the output
// dispatcher; an unclaimed suffix comes back as a plain OutputText
// record rather than an error.
func (d *Driver) Exec(cmd string, timeout time.Duration) (model.SemanticOutput, error) {
	if d.State() != model.StateIdle {
		return model.SemanticOutput{}, errs.New(errs.WrongState, "exec must be called from idle")
	}

	before := len(d.screen.GetScreenText())

	if err := d.Send(cmd); err != nil {
		return model.SemanticOutput{}, err
	}

	if err := d.pollUntil(5*time.Second, func() bool { return d.State() != model.StateIdle }); err != nil {
		if d.metrics != nil {
			d.metrics.RecordExecTimeout("leave_idle")
		}
		return model.SemanticOutput{}, errs.New(errs.TimeoutExecLeaveIdle, "timed out waiting for session to leave idle")
	}

	if err := d.pollUntil(timeout, func() bool { return d.State() == model.StateIdle }); err != nil {
		if d.metrics != nil {
			d.metrics.RecordExecTimeout("return_idle")
		}
		return model.SemanticOutput{}, errs.New(errs.TimeoutExecReturnIdle, "timed out waiting for session to return to idle")
	}

	full := d.screen.GetScreenText()
	suffix := ""
	if before <= len(full) {
		suffix = strings.TrimRight(full[before:], " \t\r\n")
	} else {
		suffix = strings.TrimRight(full, " \t\r\n")
	}

	pctx := model.ParserContext{
		ScreenText:    suffix,
		LastLines:     lastLinesOf(suffix, d.lastLines),
		TerminalTitle: sanitize.Title(d.screen.Title()),
	}

	out, ok := model.SemanticOutput{}, false
	if isTextOutput(suffix) {
		out, ok = d.registry.DetectOutput(pctx)
	}
	if !ok {
		out = model.SemanticOutput{Type: model.OutputText, Raw: suffix, Confidence: 0}
	}

	d.observeOutput(out)
	d.bus.Publish(Event{Kind: EventOutput, Output: &out})
	return out, nil
}

// pollUntil checks pred every execPollInterval until it reports true,
// the session exits, or timeout elapses.
func (d *Driver) pollUntil(timeout time.Duration, pred func() bool) error {
	if pred() {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(execPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-deadline.C:
			return errs.New(errs.TimeoutWaitForState, "condition not met before timeout")
		case <-ticker.C:
			if pred() {
				return nil
			}
			d.mu.Lock()
			exited := d.exited
			d.mu.Unlock()
			if exited {
				return errs.New(errs.SessionEndedWhileWaiting, "session exited while waiting")
			}
		}
	}
}

// isTextOutput short-circuits the output dispatcher for binary noise:
// JSON/table/diff classifiers have no business scanning a command's
// non-text stdout, and mimetype sniffing is cheaper than letting every
// classifier's gate regexes run against it and fail.
func isTextOutput(suffix string) bool {
	if suffix == "" {
		return true
	}
	mime := mimetype.Detect([]byte(suffix))
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func lastLinesOf(text string, n int) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
