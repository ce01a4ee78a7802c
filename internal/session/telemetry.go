package session

import (
	"strings"
	"time"

	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/parser/output"
)

// costPerThousandTokens is a rough, deliberately approximate per-1k-token
// rate used only to give an operator a ballpark cost figure in
// SessionMetrics; it is never used for billing.
const costPerThousandTokens = 0.015

// observeOutput updates best-effort session telemetry from a dispatched
// SemanticOutput. This never drives a state transition: it is pure
// observability sugar layered on top of the output dispatcher's own
// detections, per the claude-tool/claude-status telemetry several
// Claude-Code watchers in the wild converge on independently.
func (d *Driver) observeOutput(out model.SemanticOutput) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tokens := estimateTokens(out.Raw)
	d.sessionMetrics.TokensEstimated += tokens
	d.sessionMetrics.CostEstimated += float64(tokens) / 1000 * costPerThousandTokens

	switch out.Type {
	case model.OutputClaudeTool:
		tool, ok := out.Data.(output.ClaudeTool)
		if !ok {
			return
		}
		d.sessionMetrics.ToolInvocations++
		d.sessionMetrics.LastTool = tool.ToolName
		d.sessionMetrics.LastToolAt = time.Now()
		d.lastToolName = tool.ToolName
		d.lastToolAt = d.sessionMetrics.LastToolAt

	case model.OutputClaudeStatus:
		status, ok := out.Data.(output.ClaudeStatus)
		if !ok {
			return
		}
		if isCheckpointPhase(status.Phase, status.StatusText) {
			d.sessionMetrics.CheckpointCount++
		}
		if status.Phase != "" && status.Phase != "thinking" {
			d.recordBackgroundTaskLocked(status.StatusText)
		}
	}
}

func isCheckpointPhase(phase, text string) bool {
	lower := strings.ToLower(phase + " " + text)
	return strings.Contains(lower, "checkpoint") || strings.Contains(lower, "compact")
}

// recordBackgroundTaskLocked appends a distinct task label, capped to
// avoid unbounded growth over a long-lived session. Caller holds d.mu.
func (d *Driver) recordBackgroundTaskLocked(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	for _, t := range d.backgroundTasks {
		if t == label {
			return
		}
	}
	d.backgroundTasks = append(d.backgroundTasks, label)
	if len(d.backgroundTasks) > 50 {
		d.backgroundTasks = d.backgroundTasks[len(d.backgroundTasks)-50:]
	}
}

func estimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len(s) + 3) / 4
}

// LastToolUse returns the most recently observed tool invocation, if
// any output claiming to be a claude-tool record has been seen.
func (d *Driver) LastToolUse() (name string, at time.Time, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastToolName == "" {
		return "", time.Time{}, false
	}
	return d.lastToolName, d.lastToolAt, true
}

// BackgroundTasks returns the distinct non-"thinking" status-phase
// labels observed so far, oldest first.
func (d *Driver) BackgroundTasks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.backgroundTasks))
	copy(out, d.backgroundTasks)
	return out
}

// Metrics returns a snapshot of the session's best-effort telemetry.
func (d *Driver) Metrics() model.SessionMetrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessionMetrics
}
