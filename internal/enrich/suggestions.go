package enrich

import (
	"regexp"

	"github.com/coreway/termwatch/internal/model"
)

type suggestionRule struct {
	re         *regexp.Regexp
	kind       model.SuggestionKind
	action     string
	desc       string
	confidence float64
	automated  bool
	requires   []string
}

var suggestionCatalogue = []suggestionRule{
	{
		re:         regexp.MustCompile(`npm ERR! code ERESOLVE`),
		kind:       model.SuggestFix,
		action:     "npm install --legacy-peer-deps",
		desc:       "dependency resolution conflict",
		confidence: 0.8,
		automated:  true,
	},
	{
		re:         regexp.MustCompile(`(?i)not a git repository`),
		kind:       model.SuggestFix,
		action:     "git init",
		desc:       "no repository in the current directory",
		confidence: 0.7,
	},
	{
		re:         regexp.MustCompile(`CONFLICT.*Merge conflict`),
		kind:       model.SuggestInvestigate,
		action:     "git status",
		desc:       "merge produced conflicting hunks",
		confidence: 0.7,
	},
	{
		re:         regexp.MustCompile(`ECONNREFUSED`),
		kind:       model.SuggestRetry,
		action:     "retry the request",
		desc:       "remote end refused the connection",
		confidence: 0.5,
	},
	{
		re:         regexp.MustCompile(`TS\d+:`),
		kind:       model.SuggestInvestigate,
		action:     "tsc --noEmit",
		desc:       "typescript diagnostic reported",
		confidence: 0.6,
	},
	{
		re:         regexp.MustCompile(`(?i)docker.*not found`),
		kind:       model.SuggestInvestigate,
		action:     "docker info",
		desc:       "docker daemon or image reference missing",
		confidence: 0.6,
	},
}

// ExtractSuggestions returns every catalogue entry whose pattern matches
// text, in catalogue order. The catalogue is small and checked
// exhaustively; order has no priority semantics, unlike DetermineSeverity.
func ExtractSuggestions(text string) []model.Suggestion {
	var out []model.Suggestion
	for _, rule := range suggestionCatalogue {
		if !rule.re.MatchString(text) {
			continue
		}
		out = append(out, model.Suggestion{
			Kind:        rule.kind,
			Action:      rule.action,
			Description: rule.desc,
			Confidence:  rule.confidence,
			Automated:   rule.automated,
			Requires:    rule.requires,
		})
	}
	return out
}
