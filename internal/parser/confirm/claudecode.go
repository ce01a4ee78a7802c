package confirm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	ccOptionLineRe = regexp.MustCompile(`^\s*(\d+)\.\s+(.+)$`)
	ccToolHeaderRe = regexp.MustCompile(`^([\w.-]+)\s*-\s*(\w[\w.]*)\(([^)]*)\)\s*(\(MCP\))?`)
	ccParamRe      = regexp.MustCompile(`(\w+)\s*:\s*"([^"]*)"`)
	ccCancelOrYNRe = regexp.MustCompile(`(?i)esc to cancel|\[[Yy]/[Nn]\]`)
	ccPromptLeadRe = regexp.MustCompile(`(?i)^(do you want to|would you like to|allow)\b`)
	ccDenyLabelRe  = regexp.MustCompile(`(?i)^no\b|\bdeny\b`)
)

// ResponseStrategy selects how a Claude-Code options confirmation is
// answered over the PTY: by writing the option's number followed by
// Enter, or by driving the TUI's arrow-key selection then Enter. Newer
// Claude-Code releases use arrow-key navigation; older ones accept the
// digit directly.
type ResponseStrategy string

const (
	ResponseOptionsNumeric ResponseStrategy = "options_numeric"
	ResponseOptionsArrow   ResponseStrategy = "options_arrow"
)

// ClaudeCode detects Claude-Code's options-style and yes/no-style
// confirmation dialogs, extracting the gated tool call when the prompt
// names one.
type ClaudeCode struct {
	strategy ResponseStrategy
}

// NewClaudeCode constructs the Claude-Code confirm detector. An empty
// strategy defaults to ResponseOptionsArrow, matching current releases.
func NewClaudeCode(strategy ResponseStrategy) *ClaudeCode {
	if strategy == "" {
		strategy = ResponseOptionsArrow
	}
	return &ClaudeCode{strategy: strategy}
}

func (c *ClaudeCode) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "confirm.claude-code", Description: "claude-code options/yes-no confirmation dialog", Priority: 90}
}

func (c *ClaudeCode) DetectConfirm(ctx model.ParserContext) (model.ConfirmInfo, bool) {
	lines := ctx.LastLines

	var options []model.ConfirmOption
	var promptLines []string
	for _, line := range lines {
		l := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "❯"))
		l = strings.TrimSpace(l)
		if m := ccOptionLineRe.FindStringSubmatch(l); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			options = append(options, model.ConfirmOption{Key: n, Label: strings.TrimSpace(m[2]), IsDefault: n == 1})
			continue
		}
		if l != "" && len(options) == 0 && !ccToolHeaderRe.MatchString(l) {
			promptLines = append(promptLines, l)
		}
	}

	hasGuard := false
	for _, line := range lines {
		if ccCancelOrYNRe.MatchString(line) {
			hasGuard = true
			break
		}
	}

	if len(options) >= 2 && hasGuard {
		info := model.ConfirmInfo{
			Type:      model.ConfirmOptions,
			Prompt:    strings.Join(promptLines, " "),
			Options:   options,
			RawPrompt: strings.Join(lines, "\n"),
		}
		info.Tool = extractGatedTool(lines)
		return info, true
	}

	for _, line := range lines {
		l := strings.TrimSpace(line)
		if ccPromptLeadRe.MatchString(l) && ccCancelOrYNRe.MatchString(strings.Join(lines, "\n")) {
			return model.ConfirmInfo{
				Type:      model.ConfirmYesNo,
				Prompt:    l,
				RawPrompt: strings.Join(lines, "\n"),
				Tool:      extractGatedTool(lines),
			}, true
		}
	}

	return model.ConfirmInfo{}, false
}

// extractGatedTool parses a line of shape `server - tool_name(k: "v", …)`
// with an optional trailing "(MCP)" marker into a ToolCall.
func extractGatedTool(lines []string) *model.ToolCall {
	for _, line := range lines {
		m := ccToolHeaderRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		params := map[string]any{}
		for _, pm := range ccParamRe.FindAllStringSubmatch(m[3], -1) {
			params[pm[1]] = pm[2]
		}
		return &model.ToolCall{Name: m[2], MCPServer: m[1], Params: params}
	}
	return nil
}

func (c *ClaudeCode) FormatResponse(info model.ConfirmInfo, resp model.ConfirmResponse) []byte {
	switch info.Type {
	case model.ConfirmYesNo:
		switch resp.Action {
		case model.ActionConfirm:
			return []byte("y\r")
		case model.ActionDeny:
			return []byte("n\r")
		case model.ActionInput:
			return []byte(resp.Value + "\r")
		default:
			return []byte("\r")
		}
	case model.ConfirmOptions:
		switch {
		case resp.Action == model.ActionConfirm:
			return c.navigateTo(defaultOptionPosition(info.Options))
		case resp.Action == model.ActionDeny:
			return c.navigateTo(denyOptionPosition(info.Options))
		case resp.Action == model.ActionSelect && resp.Option != nil:
			return c.navigateTo(*resp.Option)
		default:
			return []byte("\r")
		}
	default:
		if resp.Action == model.ActionInput {
			return []byte(resp.Value + "\r")
		}
		return []byte("\r")
	}
}

func defaultOptionPosition(options []model.ConfirmOption) int {
	for _, o := range options {
		if o.IsDefault {
			return o.Key
		}
	}
	return 1
}

func denyOptionPosition(options []model.ConfirmOption) int {
	for _, o := range options {
		if ccDenyLabelRe.MatchString(o.Label) {
			return o.Key
		}
	}
	if len(options) > 0 {
		return options[len(options)-1].Key
	}
	return 1
}

// navigateTo encodes selecting option n (1-indexed, starting pre-selected
// on option 1) as PTY bytes per the configured ResponseStrategy.
func (c *ClaudeCode) navigateTo(n int) []byte {
	if c.strategy == ResponseOptionsNumeric {
		return []byte(fmt.Sprintf("%d\r", n))
	}
	var b []byte
	for i := 1; i < n; i++ {
		b = append(b, 0x1b, '[', 'B') // down arrow
	}
	b = append(b, '\r')
	return b
}
