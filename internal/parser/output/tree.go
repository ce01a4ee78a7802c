package output

import (
	"regexp"
	"strings"

	"github.com/coreway/termwatch/internal/model"
)

var treeBranchRe = regexp.MustCompile(`^[\s│|]*(├──|└──|\|--|` + "`--" + `)\s*.+$`)

type flat struct {
	depth int
	name  string
}

// TreeNode is one entry in a parsed box-drawing tree, nested by Children
// rather than a flat depth index.
type TreeNode struct {
	Name     string     `json:"name"`
	Children []TreeNode `json:"children,omitempty"`
}

// Tree classifies box-drawing tree output (tree(1), file-explorer style
// CLIs), recognising both Unicode (├──/└──/│) and ASCII (|--/`--)
// branch prefixes, into a nested node list.
type Tree struct{}

// NewTree constructs the tree output classifier.
func NewTree() *Tree { return &Tree{} }

func (t *Tree) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: "output.tree", Description: "box-drawing tree listing detection", Priority: 45}
}

func (t *Tree) CanParse(ctx model.ParserContext) bool {
	hits := 0
	for _, line := range ctx.LastLines {
		if treeBranchRe.MatchString(line) {
			hits++
		}
	}
	return hits >= 2
}

func (t *Tree) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	var flats []flat
	for _, line := range ctx.LastLines {
		m := treeBranchRe.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		idx := m[2]
		prefix := line[:idx]
		depth := strings.Count(prefix, "│") + strings.Count(prefix, "|")
		name := strings.TrimLeft(line[idx:], "├└|`-─ ")
		flats = append(flats, flat{depth: depth, name: strings.TrimSpace(name)})
	}
	if len(flats) < 2 {
		return model.SemanticOutput{}, false
	}

	roots := buildTreeNodes(flats)
	return model.SemanticOutput{Type: model.OutputTree, Raw: strings.Join(ctx.LastLines, "\n"), Data: roots, Confidence: 0.8, ParserName: t.Metadata().Name}, true
}

type treeBuilder struct {
	Name     string
	Children []*treeBuilder
}

func buildTreeNodes(flats []flat) []TreeNode {
	var roots []*treeBuilder
	stack := []*treeBuilder{}

	for _, f := range flats {
		node := &treeBuilder{Name: f.name}
		for len(stack) > f.depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return toTreeNodes(roots)
}

func toTreeNodes(nodes []*treeBuilder) []TreeNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]TreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = TreeNode{Name: n.Name, Children: toTreeNodes(n.Children)}
	}
	return out
}
