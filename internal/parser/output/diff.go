package output

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var (
	hunkHeaderRe = regexp.MustCompile(`^@@\s+-\d+(,\d+)?\s+\+\d+(,\d+)?\s+@@`)
	gitDiffRe    = regexp.MustCompile(`^diff --git a/(\S+) b/(\S+)`)
)

// DiffChange is one hunk line with its leading marker split out: "kind"
// is add/remove/context and "content" has the marker stripped.
type DiffChange struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// DiffHunk is one unified-diff hunk: its header and the changes it covers.
type DiffHunk struct {
	Header  string       `json:"header"`
	Changes []DiffChange `json:"changes"`
}

// DiffFile groups the hunks belonging to one file in a multi-file diff.
type DiffFile struct {
	File  string     `json:"file,omitempty"`
	Hunks []DiffHunk `json:"hunks"`
}

// Diff classifies unified-diff output (git diff, diff -u) into structured
// hunks, splitting each line into its add/remove/context kind and content.
type Diff struct{}

// NewDiff constructs the diff output classifier.
func NewDiff() *Diff { return &Diff{} }

func (d *Diff) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.diff", Description: "unified diff / git diff hunk detection", Priority: 65}
}

func (d *Diff) CanParse(ctx model.ParserContext) bool {
	for _, l := range ctx.LastLines {
		if hunkHeaderRe.MatchString(l) || gitDiffRe.MatchString(l) {
			return true
		}
	}
	return hunkHeaderRe.MatchString(ctx.ScreenText) || gitDiffRe.MatchString(ctx.ScreenText)
}

func (d *Diff) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	lines := strings.Split(ctx.ScreenText, "\n")

	var files []DiffFile
	var cur *DiffFile
	var hunk *DiffHunk

	flushHunk := func() {
		if hunk != nil && cur != nil {
			cur.Hunks = append(cur.Hunks, *hunk)
			hunk = nil
		}
	}
	flushFile := func() {
		flushHunk()
		if cur != nil {
			files = append(files, *cur)
			cur = nil
		}
	}

	for _, l := range lines {
		switch {
		case gitDiffRe.MatchString(l):
			flushFile()
			m := gitDiffRe.FindStringSubmatch(l)
			cur = &DiffFile{File: m[2]}
		case strings.HasPrefix(l, "--- ") || strings.HasPrefix(l, "+++ "):
			// file identity comes from the diff --git line; these are
			// redundant path markers and carry no additional hunk data.
		case hunkHeaderRe.MatchString(l):
			flushHunk()
			if cur == nil {
				cur = &DiffFile{}
			}
			hunk = &DiffHunk{Header: l}
		case hunk != nil && (strings.HasPrefix(l, "+") || strings.HasPrefix(l, "-") || strings.HasPrefix(l, " ")):
			hunk.Changes = append(hunk.Changes, diffChange(l))
		}
	}
	flushFile()

	if len(files) == 0 {
		return model.SemanticOutput{}, false
	}
	return model.SemanticOutput{Type: model.OutputDiff, Raw: ctx.ScreenText, Data: files, Confidence: 0.9, ParserName: d.Metadata().Name}, true
}

// diffChange splits a hunk line into its kind and marker-stripped content.
func diffChange(l string) DiffChange {
	switch {
	case strings.HasPrefix(l, "+"):
		return DiffChange{Kind: "add", Content: l[1:]}
	case strings.HasPrefix(l, "-"):
		return DiffChange{Kind: "remove", Content: l[1:]}
	default:
		return DiffChange{Kind: "context", Content: strings.TrimPrefix(l, " ")}
	}
}
