package output

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	bulletItemRe   = regexp.MustCompile(`^\s*[-*•]\s+.+$`)
	numberedItemRe = regexp.MustCompile(`^\s*\d+[.)]\s+.+$`)
)

// List classifies bulleted or numbered list output, the supplemental
// sibling to the table and tree classifiers.
type List struct{}

// NewList constructs the list output classifier.
func NewList() *List { return &List{} }

func (l *List) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.list", Description: "bulleted and numbered list detection", Priority: 40}
}

func (l *List) CanParse(ctx model.ParserContext) bool {
	hits := 0
	for _, line := range ctx.LastLines {
		if bulletItemRe.MatchString(line) || numberedItemRe.MatchString(line) {
			hits++
		}
	}
	return hits >= 2
}

func (l *List) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	var items []string
	for _, line := range ctx.LastLines {
		trimmed := strings.TrimSpace(line)
		switch {
		case bulletItemRe.MatchString(line):
			items = append(items, strings.TrimSpace(strings.TrimLeft(trimmed, "-*• ")))
		case numberedItemRe.MatchString(line):
			idx := strings.IndexAny(trimmed, ".)")
			if idx >= 0 && idx+1 < len(trimmed) {
				items = append(items, strings.TrimSpace(trimmed[idx+1:]))
			}
		}
	}
	if len(items) < 2 {
		return model.SemanticOutput{}, false
	}
	return model.SemanticOutput{Type: model.OutputList, Raw: strings.Join(ctx.LastLines, "\n"), Data: items, Confidence: 0.55, ParserName: l.Metadata().Name}, true
}
