package enrich

import (
	"time"

	"github.com/coreway/termwatch/internal/model"
)

// Context carries the optional execution metadata attached to an
// EnhancedOutput: the session it ran under, the command that produced
// it, how long it took, and its exit code.
type Context struct {
	SessionID  string
	Command    string
	DurationMS int64
	ExitCode   *int
}

// CreateEnhancedOutput wraps a classified output with severity,
// suggestions drawn from text, and execution metadata. now is passed in
// rather than read from the clock, keeping the function pure and
// deterministic for tests.
func CreateEnhancedOutput(output model.SemanticOutput, ctx Context, now time.Time) model.EnhancedOutput {
	text := output.Raw
	return model.EnhancedOutput{
		SemanticOutput: output,
		Severity:       DetermineSeverity(text),
		Suggestions:    ExtractSuggestions(text),
		Metadata: model.OutputMetadata{
			Timestamp:  now,
			SessionID:  ctx.SessionID,
			Command:    ctx.Command,
			DurationMS: ctx.DurationMS,
			ExitCode:   ctx.ExitCode,
		},
	}
}
