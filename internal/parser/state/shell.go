// Package state holds the built-in state detectors: generic shell,
// Docker, and Claude-Code, as specified in the parser registry's
// state-detector family.
package state

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

// promptTails recognises common interactive-shell prompt endings.
var promptTails = []*regexp.Regexp{
	regexp.MustCompile(`❯\s*$`),
	regexp.MustCompile(`\$\s*$`),
	regexp.MustCompile(`#\s*$`),
	regexp.MustCompile(`>\s*$`),
	regexp.MustCompile(`%\s*$`),
	regexp.MustCompile(`\w+@[\w.-]+:[^\n]*[$#]\s*$`),
	regexp.MustCompile(`^\([^)]+\)\s*.*[$#%>]\s*$`), // virtual-env prefix
}

var spinnerRe = regexp.MustCompile(`\.\.\.\s*$|[⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏]`)

// shellErrorRe resolves the REDESIGN FLAG open question: anchor to line
// start and require ": " followed by a non-empty, non-prompt tail, so
// "root@host: ~#" does not false-positive as an error.
var shellErrorRe = regexp.MustCompile(`^(bash|zsh|sh):\s+(.+)$`)

var genericErrorPhrases = []string{
	"command not found",
	"No such file or directory",
	"Permission denied",
}

// Shell is the generic-shell state detector (priority 10).
type Shell struct{}

// NewShell constructs the generic-shell detector.
func NewShell() *Shell { return &Shell{} }

func (s *Shell) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "state.shell", Description: "generic interactive shell prompt/error/busy detection", Priority: 10}
}

func (s *Shell) DetectState(ctx model.ParserContext) (model.StateResult, bool) {
	if len(ctx.LastLines) == 0 {
		return model.StateResult{}, false
	}
	last := ctx.LastLines[len(ctx.LastLines)-1]
	trimmed := strings.TrimRight(last, " \t")

	for _, line := range ctx.LastLines {
		l := strings.TrimSpace(line)
		if m := shellErrorRe.FindStringSubmatch(l); m != nil && !isPromptLike(l) {
			return model.StateResult{State: model.StateError, Confidence: 0.8}, true
		}
		for _, phrase := range genericErrorPhrases {
			if strings.Contains(l, phrase) {
				return model.StateResult{State: model.StateError, Confidence: 0.8}, true
			}
		}
	}

	if spinnerRe.MatchString(trimmed) {
		return model.StateResult{State: model.StateToolRunning, Confidence: 0.6}, true
	}

	for _, re := range promptTails {
		if re.MatchString(trimmed) {
			return model.StateResult{State: model.StateIdle, Confidence: 0.7}, true
		}
	}

	return model.StateResult{}, false
}

// isPromptLike guards the shellErrorRe hit against ordinary prompts of
// the shape "root@host: ~#" which also contain ": " but are not errors.
func isPromptLike(line string) bool {
	for _, re := range promptTails {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
