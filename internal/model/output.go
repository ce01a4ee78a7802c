package model

import "time"

// OutputType tags the shape of SemanticOutput.Data.
type OutputType string

const (
	OutputText          OutputType = "text"
	OutputTable         OutputType = "table"
	OutputJSON          OutputType = "json"
	OutputTree          OutputType = "tree"
	OutputDiff          OutputType = "diff"
	OutputList          OutputType = "list"
	OutputError         OutputType = "error"
	OutputClaudeStatus  OutputType = "claude-status"
	OutputClaudeContent OutputType = "claude-content"
	OutputClaudeTitle   OutputType = "claude-title"
	OutputClaudeTool    OutputType = "claude-tool"
)

// SemanticOutput is the result of an output classifier claiming a span
// of screen text. Data's concrete shape depends on Type; see the
// type-specific payload structs alongside each classifier.
type SemanticOutput struct {
	Type       OutputType `json:"type"`
	Raw        string     `json:"raw"`
	Data       any        `json:"data"`
	Confidence float64    `json:"confidence"`
	ParserName string     `json:"parser_name"`
}

// SuggestionKind is the closed set of actionable-suggestion categories.
type SuggestionKind string

const (
	SuggestRetry       SuggestionKind = "retry"
	SuggestFix         SuggestionKind = "fix"
	SuggestInvestigate SuggestionKind = "investigate"
	SuggestSkip        SuggestionKind = "skip"
)

// Suggestion is one actionable hint attached to an EnhancedOutput.
type Suggestion struct {
	Kind        SuggestionKind `json:"kind"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	Automated   bool           `json:"automated,omitempty"`
	Requires    []string       `json:"requires,omitempty"`
}

// OutputMetadata carries the execution context an EnhancedOutput was
// produced under.
type OutputMetadata struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id,omitempty"`
	Command    string    `json:"command,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	ExitCode   *int      `json:"exit_code,omitempty"`
}

// EnhancedOutput extends a SemanticOutput with severity, suggestions,
// and execution metadata.
type EnhancedOutput struct {
	SemanticOutput
	Severity    Severity       `json:"severity"`
	Suggestions []Suggestion   `json:"suggestions,omitempty"`
	Metadata    OutputMetadata `json:"metadata"`
}

// SessionMetrics is best-effort telemetry derived passively from output
// classifications. It augments observability; it never drives a state
// transition or control-flow decision.
type SessionMetrics struct {
	TokensEstimated int       `json:"tokens_estimated,omitempty"`
	CostEstimated   float64   `json:"cost_estimated,omitempty"`
	ToolInvocations int       `json:"tool_invocations,omitempty"`
	LastTool        string    `json:"last_tool,omitempty"`
	CheckpointCount int       `json:"checkpoint_count,omitempty"`
	LastToolAt      time.Time `json:"last_tool_at,omitempty"`
}
