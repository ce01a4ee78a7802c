package model

// ScreenSnapshot is a derived, on-demand view of a driver's virtual
// screen. It is never persisted.
type ScreenSnapshot struct {
	Text    string       `json:"text"`
	CursorX int          `json:"cursor_x"`
	CursorY int          `json:"cursor_y"`
	State   SessionState `json:"state"`
}

// ParserContext is the sole input every parser call receives. Parsers
// must treat it as read-only.
type ParserContext struct {
	ScreenText    string        `json:"screen_text"`
	LastLines     []string      `json:"last_lines"`
	CurrentState  *SessionState `json:"current_state,omitempty"`
	PreviousState *SessionState `json:"previous_state,omitempty"`
	RawScreen     string        `json:"raw_screen,omitempty"`
	TerminalTitle string        `json:"terminal_title,omitempty"`
}

// ParserMetadata describes a registered parser.
type ParserMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	Version     string `json:"version,omitempty"`
}

// StateResult is what a StateParser returns on a positive detection.
type StateResult struct {
	State      SessionState   `json:"state"`
	Confidence float64        `json:"confidence"`
	Meta       map[string]any `json:"meta,omitempty"`
}
