package output

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var statusLineRe = regexp.MustCompile(`(?i)^([·✻✽✶✳✢])\s+(\S.*?)\s*\((?:esc|ESC)\s+to\s+interrupt(?:\s*·\s*(\w+))?\)`)

// ClaudeStatus describes the parsed contents of a Claude-Code busy status
// line, such as "✻ Precipitating… (esc to interrupt · thinking)".
type ClaudeStatus struct {
	Spinner       string `json:"spinner"`
	StatusText    string `json:"status_text"`
	Phase         string `json:"phase"`
	Interruptible bool   `json:"interruptible"`
}

// ClaudeStatusParser classifies the Claude-Code status/spinner line.
type ClaudeStatusParser struct{}

// NewClaudeStatus constructs the status-line output classifier.
func NewClaudeStatus() *ClaudeStatusParser { return &ClaudeStatusParser{} }

func (c *ClaudeStatusParser) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.claude-status", Description: "claude-code busy status line (spinner/phase/esc hint)", Priority: 95}
}

func (c *ClaudeStatusParser) CanParse(ctx model.ParserContext) bool {
	for _, l := range ctx.LastLines {
		if statusLineRe.MatchString(strings.TrimSpace(l)) {
			return true
		}
	}
	return false
}

func (c *ClaudeStatusParser) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	for i := len(ctx.LastLines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(ctx.LastLines[i])
		m := statusLineRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		phase := m[3]
		if phase == "" {
			phase = "thinking"
		}
		status := ClaudeStatus{
			Spinner:       m[1],
			StatusText:    strings.TrimSpace(m[2]),
			Phase:         phase,
			Interruptible: true,
		}
		return model.SemanticOutput{Type: model.OutputClaudeStatus, Raw: l, Data: status, Confidence: 0.95, ParserName: c.Metadata().Name}, true
	}
	return model.SemanticOutput{}, false
}
