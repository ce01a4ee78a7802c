package confirm

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	yesNoPromptRe = regexp.MustCompile(`(?i)(.+?)\s*\[([Yy]/[Nn]|[Nn]/[Yy])\]\s*:?\s*$`)
	yesNoParenRe  = regexp.MustCompile(`(?i)(.+?\((?:yes/no|y/n)\))\s*:?\s*$`)
	yesNoPhraseRe = regexp.MustCompile(`(?i)(continue\?|are you sure\?|proceed\?|overwrite\?|delete\?)\s*$`)
)

// GenericYN detects the generic shell confirmation shapes: "[Y/n]"
// brackets, "(yes/no)" parentheses, and bare phrases like "Continue?" or
// "Are you sure?". The bracket form defaults to Yes when its "Y" is
// capitalized ("[Y/n]", "[n/Y]") and to No otherwise; the parenthesised
// and phrase forms always default to No.
type GenericYN struct{}

// NewGenericYN constructs the generic yes/no confirm detector.
func NewGenericYN() *GenericYN { return &GenericYN{} }

func (g *GenericYN) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "confirm.generic-yn", Description: "generic shell yes/no confirmation prompt", Priority: 10}
}

func (g *GenericYN) DetectConfirm(ctx model.ParserContext) (model.ConfirmInfo, bool) {
	if len(ctx.LastLines) == 0 {
		return model.ConfirmInfo{}, false
	}
	last := strings.TrimRight(ctx.LastLines[len(ctx.LastLines)-1], " \t")

	if m := yesNoPromptRe.FindStringSubmatch(last); m != nil {
		defaultIsYes := strings.Contains(m[2], "Y")
		return g.info(strings.TrimSpace(m[1]), last, defaultIsYes), true
	}
	if m := yesNoParenRe.FindStringSubmatch(last); m != nil {
		return g.info(strings.TrimSpace(m[1]), last, false), true
	}
	if yesNoPhraseRe.MatchString(last) {
		return g.info(strings.TrimSpace(last), last, false), true
	}
	return model.ConfirmInfo{}, false
}

func (g *GenericYN) info(prompt, raw string, defaultIsYes bool) model.ConfirmInfo {
	return model.ConfirmInfo{
		Type:   model.ConfirmYesNo,
		Prompt: prompt,
		Options: []model.ConfirmOption{
			{Key: 1, Label: "Yes", IsDefault: defaultIsYes},
			{Key: 0, Label: "No", IsDefault: !defaultIsYes},
		},
		RawPrompt: raw,
	}
}

func (g *GenericYN) FormatResponse(info model.ConfirmInfo, resp model.ConfirmResponse) []byte {
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
}
