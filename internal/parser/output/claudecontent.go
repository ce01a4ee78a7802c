package output

import (
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

// ClaudeContentParser classifies Claude-Code's plain assistant-response
// prose: the trimmed recent lines that remain once blank lines, status
// lines, "⏺" lines and "│" tool-box lines are dropped. Other lines,
// including "⎿" tool output and confirmation-dialog text, are kept. It
// does not locate a single assistant block or report whether the
// response is complete. It is the lowest-priority output classifier,
// acting as the catch-all for anything left on screen.
type ClaudeContentParser struct{}

// NewClaudeContent constructs the assistant-content output classifier.
func NewClaudeContent() *ClaudeContentParser { return &ClaudeContentParser{} }

func (c *ClaudeContentParser) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.claude-content", Description: "catch-all claude-code assistant prose", Priority: 5}
}

func (c *ClaudeContentParser) CanParse(ctx model.ParserContext) bool {
	return strings.TrimSpace(ctx.ScreenText) != ""
}

func (c *ClaudeContentParser) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	var kept []string
	for _, l := range ctx.LastLines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		if statusLineRe.MatchString(trimmed) || toolBulletRe.MatchString(trimmed) || strings.HasPrefix(trimmed, "│") {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return model.SemanticOutput{}, false
	}
	text := strings.Join(kept, "\n")
	return model.SemanticOutput{Type: model.OutputClaudeContent, Raw: text, Data: text, Confidence: 0.3, ParserName: c.Metadata().Name}, true
}
