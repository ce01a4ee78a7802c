package state

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	trustDialogRe  = regexp.MustCompile(`(?i)do you trust the files in this (folder|workspace)`)
	interruptRe    = regexp.MustCompile(`(?i)esc to interrupt`)
	toolBoxMarkers = regexp.MustCompile(`⏺`)
	toolBoxPipe    = regexp.MustCompile(`│`)
	optionLineRe   = regexp.MustCompile(`^\s*\d+\.\s*.+$`)
	escCancelRe    = regexp.MustCompile(`(?i)esc to cancel`)
	yesNoBracketRe = regexp.MustCompile(`\[[Yy]/[Nn]\]`)
	idlePromptRe   = regexp.MustCompile(`^[❯>]\s*`)
	claudeErrorRe  = regexp.MustCompile(`(?i)^error:|✖`)
)

// ClaudeCode is the Claude-Code CLI state detector (priority 100).
type ClaudeCode struct{}

// NewClaudeCode constructs the Claude-Code detector.
func NewClaudeCode() *ClaudeCode { return &ClaudeCode{} }

func (c *ClaudeCode) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "state.claude-code", Description: "claude-code trust/busy/confirm/idle/error detection", Priority: 100}
}

func (c *ClaudeCode) DetectState(ctx model.ParserContext) (model.StateResult, bool) {
	text := ctx.ScreenText

	if trustDialogRe.MatchString(text) {
		return model.StateResult{State: model.StateStarting, Confidence: 0.95, Meta: map[string]any{"needs_trust_confirm": true}}, true
	}

	if hasOptionsBlock(ctx.LastLines) {
		return model.StateResult{State: model.StateConfirming, Confidence: 0.9}, true
	}

	for _, line := range ctx.LastLines {
		if claudeErrorRe.MatchString(strings.TrimSpace(line)) {
			return model.StateResult{State: model.StateError, Confidence: 0.85}, true
		}
	}

	if interruptRe.MatchString(text) {
		if toolBoxMarkers.MatchString(text) && toolBoxPipe.MatchString(text) {
			return model.StateResult{State: model.StateToolRunning, Confidence: 0.85}, true
		}
		return model.StateResult{State: model.StateThinking, Confidence: 0.8}, true
	}

	if len(ctx.LastLines) > 0 {
		last := strings.TrimLeft(ctx.LastLines[len(ctx.LastLines)-1], " \t")
		if idlePromptRe.MatchString(last) {
			return model.StateResult{State: model.StateIdle, Confidence: 0.75}, true
		}
	}

	return model.StateResult{}, false
}

// hasOptionsBlock recognises a numbered-options block accompanied by an
// "Esc to cancel" hint or a [Y/n]-style line, as the confirm-dialog
// shape spec.md §4.5 describes.
func hasOptionsBlock(lines []string) bool {
	hasOption := false
	hasCancelOrYN := false
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if optionLineRe.MatchString(l) {
			hasOption = true
		}
		if escCancelRe.MatchString(l) || yesNoBracketRe.MatchString(l) {
			hasCancelOrYN = true
		}
	}
	return hasOption && hasCancelOrYN
}
