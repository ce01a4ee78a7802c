package model

// MatchKind selects how a Fingerprint's Pattern is interpreted.
type MatchKind string

const (
	MatchRegex   MatchKind = "regex"
	MatchLiteral MatchKind = "literal"
	MatchEnum    MatchKind = "enum"
	MatchMarker  MatchKind = "marker"
)

// Category buckets fingerprints for priority-ordered, category-scoped
// lookups.
type Category string

const (
	CategorySpinner   Category = "spinner"
	CategoryStatusbar Category = "statusbar"
	CategoryPrompt    Category = "prompt"
	CategorySeparator Category = "separator"
	CategoryAssistant Category = "assistant"
	CategoryTool      Category = "tool"
	CategoryError     Category = "error"
	CategoryConfirm   Category = "confirm"
)

// Fingerprint is a named textual pattern with a category and confidence,
// the shared matching primitive several parsers pose cheap screen
// questions through.
type Fingerprint struct {
	ID         string    `json:"id"`
	MatchKind  MatchKind `json:"match_kind"`
	Category   Category  `json:"category"`
	Pattern    string    `json:"pattern"`
	Patterns   []string  `json:"patterns,omitempty"` // alternates, for enum/marker
	Confidence float64   `json:"confidence"`
	Priority   int       `json:"priority"`
	Source     string    `json:"source,omitempty"`
}

// FingerprintMatch is the result of testing one Fingerprint against a
// ParserContext's lines.
type FingerprintMatch struct {
	Fingerprint *Fingerprint `json:"fingerprint"`
	Matched     bool         `json:"matched"`
	Captures    []string     `json:"captures,omitempty"`
	LineIndex   int          `json:"line_index,omitempty"`
	Alternate   string       `json:"alternate,omitempty"`
}

// ExtractionHints are cheap booleans derived from a full fingerprint
// extraction pass, letting higher-level parsers avoid re-scanning lines.
type ExtractionHints struct {
	HasSpinner       bool `json:"has_spinner"`
	HasPrompt        bool `json:"has_prompt"`
	HasToolOutput    bool `json:"has_tool_output"`
	HasConfirmDialog bool `json:"has_confirm_dialog"`
	HasError         bool `json:"has_error"`
}

// Extraction is the full result of running every registered fingerprint
// against a ParserContext.
type Extraction struct {
	Matches    map[string]FingerprintMatch   `json:"matches"`
	ByCategory map[Category][]FingerprintMatch `json:"by_category"`
	Hints      ExtractionHints               `json:"hints"`
}
