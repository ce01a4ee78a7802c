package output

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	toolBoxHeaderRe    = regexp.MustCompile(`^⏺\s+([\w.:/-]+)(?:\s+\(completed in ([\d.]+)s\))?\s*$`)
	toolInlineHeaderRe = regexp.MustCompile(`^⏺\s*([\w.:/-]+)\(([^)]*)\)\s*$`)
	toolBoxParamRe     = regexp.MustCompile(`^\s*│\s*([\w.-]+):\s*(.*)$`)
	toolBoxBodyRe      = regexp.MustCompile(`^\s*│\s*(.*)$`)
	toolOutputLineRe   = regexp.MustCompile(`^\s*⎿\s*(.*)$`)
	toolBulletRe       = regexp.MustCompile(`^⏺`)
)

// knownToolNames is the set of built-in Claude-Code tools the classifier
// recognises by name; an unrecognised name is still classified, at a
// lower confidence.
var knownToolNames = map[string]bool{
	"Bash": true, "Read": true, "Edit": true, "Write": true, "Glob": true,
	"Grep": true, "WebFetch": true, "WebSearch": true, "Task": true,
	"LSP": true, "NotebookEdit": true, "TodoRead": true, "TodoWrite": true,
}

// ClaudeTool describes a Claude-Code tool invocation, whether rendered
// as a boxed "⏺ Name" / "⏺ Name (completed in Xs)" header with "│"
// parameter/body lines, or an inline "⏺ Name(args)" header with "⎿"
// output lines.
type ClaudeTool struct {
	ToolName   string         `json:"tool_name"`
	Params     map[string]any `json:"params,omitempty"`
	DurationMS *int64         `json:"duration_ms,omitempty"`
	Status     string         `json:"status"`
	Output     []string       `json:"output,omitempty"`
}

// ClaudeToolParser classifies Claude-Code tool-call rendering, box and
// inline header shapes alike.
type ClaudeToolParser struct{}

// NewClaudeTool constructs the tool-call output classifier.
func NewClaudeTool() *ClaudeToolParser { return &ClaudeToolParser{} }

func (c *ClaudeToolParser) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.claude-tool", Description: "claude-code tool invocation box/inline header detection", Priority: 92}
}

func (c *ClaudeToolParser) CanParse(ctx model.ParserContext) bool {
	for _, l := range ctx.LastLines {
		t := strings.TrimRight(l, " ")
		if toolBoxHeaderRe.MatchString(t) || toolInlineHeaderRe.MatchString(t) {
			return true
		}
	}
	return false
}

func (c *ClaudeToolParser) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	lines := ctx.LastLines
	for i, raw := range lines {
		l := strings.TrimRight(raw, " ")

		if m := toolBoxHeaderRe.FindStringSubmatch(l); m != nil {
			tool, consumed := parseBoxTool(m[1], m[2], lines[i+1:])
			end := i + 1 + consumed
			return model.SemanticOutput{
				Type:       model.OutputClaudeTool,
				Raw:        strings.Join(lines[i:end], "\n"),
				Data:       tool,
				Confidence: toolConfidence(tool.ToolName),
				ParserName: c.Metadata().Name,
			}, true
		}

		if m := toolInlineHeaderRe.FindStringSubmatch(l); m != nil {
			tool, consumed := parseInlineTool(m[1], m[2], lines[i+1:])
			end := i + 1 + consumed
			return model.SemanticOutput{
				Type:       model.OutputClaudeTool,
				Raw:        strings.Join(lines[i:end], "\n"),
				Data:       tool,
				Confidence: toolConfidence(tool.ToolName),
				ParserName: c.Metadata().Name,
			}, true
		}
	}
	return model.SemanticOutput{}, false
}

func toolConfidence(name string) float64 {
	if knownToolNames[name] {
		return 0.95
	}
	return 0.8
}

// parseBoxTool collects "│ key: value" parameter lines followed by
// "│ body" output lines until a non-"│" line ends the box.
func parseBoxTool(name, durationStr string, rest []string) (ClaudeTool, int) {
	tool := ClaudeTool{ToolName: name, Status: "running"}
	if durationStr != "" {
		if secs, err := strconv.ParseFloat(durationStr, 64); err == nil {
			ms := int64(secs * 1000)
			tool.DurationMS = &ms
		}
		tool.Status = "completed"
	}

	params := map[string]any{}
	consumed := 0
	for _, l := range rest {
		if m := toolBoxParamRe.FindStringSubmatch(l); m != nil {
			params[m[1]] = decodeParamValue(m[2])
			consumed++
			continue
		}
		if m := toolBoxBodyRe.FindStringSubmatch(l); m != nil {
			tool.Output = append(tool.Output, strings.TrimSpace(m[1]))
			consumed++
			continue
		}
		break
	}
	if len(params) > 0 {
		tool.Params = params
	}
	return tool, consumed
}

// parseInlineTool parses "Name(k: v, k2: v2)"-shaped args into params and
// collects subsequent "⎿ …" output lines and their indented continuations.
func parseInlineTool(name, argStr string, rest []string) (ClaudeTool, int) {
	tool := ClaudeTool{ToolName: name, Status: "running"}
	if params := parseInlineArgs(argStr); len(params) > 0 {
		tool.Params = params
	}

	consumed := 0
	inOutput := false
	for _, l := range rest {
		if m := toolOutputLineRe.FindStringSubmatch(l); m != nil {
			tool.Output = append(tool.Output, strings.TrimSpace(m[1]))
			consumed++
			inOutput = true
			continue
		}
		if inOutput && (strings.HasPrefix(l, "  ") || strings.HasPrefix(l, "\t")) {
			tool.Output = append(tool.Output, strings.TrimSpace(l))
			consumed++
			continue
		}
		break
	}
	return tool, consumed
}

var inlineArgRe = regexp.MustCompile(`(\w[\w.-]*)\s*:\s*("(?:[^"\\]|\\.)*"|[^,]+)`)

func parseInlineArgs(s string) map[string]any {
	out := map[string]any{}
	for _, m := range inlineArgRe.FindAllStringSubmatch(s, -1) {
		out[m[1]] = decodeParamValue(strings.TrimSpace(m[2]))
	}
	return out
}

// decodeParamValue unquotes a plain string literal; anything else (a
// number, bool, bracketed list) is returned verbatim as a string since
// the classifier favours a simple, predictable shape over a full JSON
// parse of arbitrary parameter text.
func decodeParamValue(v string) any {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		if unquoted, err := strconv.Unquote(v); err == nil {
			return unquoted
		}
		return strings.Trim(v, `"`)
	}
	return v
}
