package output

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/coreway/termwatch/internal/model"
)

// JSON classifies screen text that is, or contains, a JSON document. It
// tries a single whole-text parse first, then falls back to NDJSON (one
// object per line), then to a balanced-brace substring scan so output
// interleaved with prose still gets picked up.
type JSON struct{}

// NewJSON constructs the JSON output classifier.
func NewJSON() *JSON { return &JSON{} }

func (j *JSON) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.json", Description: "whole-text, NDJSON, and balanced-substring JSON detection", Priority: 60}
}

func (j *JSON) CanParse(ctx model.ParserContext) bool {
	t := strings.TrimSpace(ctx.ScreenText)
	if t == "" {
		return false
	}
	return strings.ContainsAny(t, "{[")
}

func (j *JSON) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	text := ctx.ScreenText
	trimmed := strings.TrimSpace(text)

	var whole any
	if err := sonic.UnmarshalString(trimmed, &whole); err == nil {
		return model.SemanticOutput{Type: model.OutputJSON, Raw: text, Data: whole, Confidence: 0.95, ParserName: j.Metadata().Name}, true
	}

	if docs := parseNDJSON(trimmed); len(docs) > 1 {
		return model.SemanticOutput{Type: model.OutputJSON, Raw: text, Data: docs, Confidence: 0.9, ParserName: j.Metadata().Name}, true
	}

	if sub, val, ok := extractBalancedJSON(text); ok {
		return model.SemanticOutput{Type: model.OutputJSON, Raw: sub, Data: val, Confidence: 0.7, ParserName: j.Metadata().Name}, true
	}

	return model.SemanticOutput{}, false
}

func parseNDJSON(text string) []any {
	var docs []any
	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		if l == "" {
			continue
		}
		var v any
		if err := sonic.UnmarshalString(l, &v); err != nil {
			return nil
		}
		docs = append(docs, v)
	}
	return docs
}

// extractBalancedJSON scans every balanced {...} or [...] span, skipping
// over braces found inside string literals, and returns the longest one
// that parses.
func extractBalancedJSON(text string) (string, any, bool) {
	bestSub, bestVal, found := "", any(nil), false
	for i, c := range text {
		if c != '{' && c != '[' {
			continue
		}
		open := c
		close := byte('}')
		if open == '[' {
			close = ']'
		}
		depth := 0
		inString := false
		escaped := false
		closed := false
		end := -1
		for j := i; j < len(text); j++ {
			ch := text[j]
			if inString {
				if escaped {
					escaped = false
				} else if ch == '\\' {
					escaped = true
				} else if ch == '"' {
					inString = false
				}
				continue
			}
			switch ch {
			case '"':
				inString = true
			case byte(open):
				depth++
			case close:
				depth--
				if depth == 0 {
					end = j
					closed = true
				}
			}
			if closed {
				break
			}
		}
		if closed {
			candidate := text[i : end+1]
			var v any
			if err := sonic.UnmarshalString(candidate, &v); err == nil && len(candidate) > len(bestSub) {
				bestSub, bestVal, found = candidate, v, true
			}
		}
	}
	return bestSub, bestVal, found
}
