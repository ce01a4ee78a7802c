package model

// ConfirmType is the closed set of confirmation shapes a CLI can present.
type ConfirmType string

const (
	ConfirmYesNo   ConfirmType = "yesno"
	ConfirmOptions ConfirmType = "options"
	ConfirmInput   ConfirmType = "input"
)

// ToolCall is the tool invocation a confirmation prompt is gating, when
// the prompt names one.
type ToolCall struct {
	Name      string         `json:"name"`
	MCPServer string         `json:"mcp_server,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// ConfirmOption is one numbered choice in an options-style confirmation.
type ConfirmOption struct {
	Key       int    `json:"key"`
	Label     string `json:"label"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// ConfirmInfo describes a pending terminal confirmation prompt.
type ConfirmInfo struct {
	Type      ConfirmType     `json:"type"`
	Prompt    string          `json:"prompt"`
	Options   []ConfirmOption `json:"options,omitempty"`
	Tool      *ToolCall       `json:"tool,omitempty"`
	RawPrompt string          `json:"raw_prompt"`
}

// ConfirmAction is the closed set of ways a caller can answer a pending
// confirmation.
type ConfirmAction string

const (
	ActionConfirm ConfirmAction = "confirm"
	ActionDeny    ConfirmAction = "deny"
	ActionSelect  ConfirmAction = "select"
	ActionInput   ConfirmAction = "input"
)

// ConfirmResponse is the caller's answer to a pending ConfirmInfo.
type ConfirmResponse struct {
	Action ConfirmAction `json:"action"`
	Option *int          `json:"option,omitempty"`
	Value  string        `json:"value,omitempty"`
}
