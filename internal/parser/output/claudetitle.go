package output

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var claudeTitleRe = regexp.MustCompile(`(?i)^\s*✦?\s*claude code\s*(?:[-|·]\s*(.+))?$`)

// ClaudeTitleParser classifies the terminal-title / banner line
// Claude-Code writes on startup, separating a project/session label from
// the fixed "Claude Code" prefix.
type ClaudeTitleParser struct{}

// NewClaudeTitle constructs the title-line output classifier.
func NewClaudeTitle() *ClaudeTitleParser { return &ClaudeTitleParser{} }

func (c *ClaudeTitleParser) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.claude-title", Description: "claude-code startup banner / terminal title line", Priority: 80}
}

func (c *ClaudeTitleParser) CanParse(ctx model.ParserContext) bool {
	if claudeTitleRe.MatchString(strings.TrimSpace(ctx.TerminalTitle)) {
		return true
	}
	for _, l := range ctx.LastLines {
		if claudeTitleRe.MatchString(strings.TrimSpace(l)) {
			return true
		}
	}
	return false
}

func (c *ClaudeTitleParser) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	candidates := append([]string{ctx.TerminalTitle}, ctx.LastLines...)
	for _, l := range candidates {
		trimmed := strings.TrimSpace(l)
		m := claudeTitleRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		return model.SemanticOutput{Type: model.OutputClaudeTitle, Raw: trimmed, Data: label, Confidence: 0.8, ParserName: c.Metadata().Name}, true
	}
	return model.SemanticOutput{}, false
}
