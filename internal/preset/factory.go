// Package preset resolves a named parser+options bundle (built-in or
// loaded from YAML) into the concrete parsers a session.Driver
// registers, and supplies the small built-in library covering shell,
// docker, and claude-code sessions.
package preset

import (
	"github.com/coreway/termwatch/internal/parser"
	"github.com/coreway/termwatch/internal/parser/confirm"
	"github.com/coreway/termwatch/internal/parser/output"
	"github.com/coreway/termwatch/internal/parser/state"
)

// Factory resolves the built-in parser registration names into
// constructed parsers. It implements session.ParserFactory.
type Factory struct {
	confirmStrategy confirm.ResponseStrategy
}

// NewFactory builds a Factory. strategy selects which byte encoding the
// claude-code confirm parser uses for options dialogs; pass "" for the
// default (arrow navigation).
func NewFactory(strategy confirm.ResponseStrategy) *Factory {
	return &Factory{confirmStrategy: strategy}
}

func (f *Factory) State(name string) (parser.StateParser, bool) {
	switch name {
	case "state.shell":
		return state.NewShell(), true
	case "state.docker":
		return state.NewDocker(), true
	case "state.claude-code":
		return state.NewClaudeCode(), true
	default:
		return nil, false
	}
}

func (f *Factory) Output(name string) (parser.OutputParser, bool) {
	switch name {
	case "output.json":
		return output.NewJSON(), true
	case "output.table":
		return output.NewTable(), true
	case "output.diff":
		return output.NewDiff(), true
	case "output.list":
		return output.NewList(), true
	case "output.tree":
		return output.NewTree(), true
	case "output.claude-status":
		return output.NewClaudeStatus(), true
	case "output.claude-content":
		return output.NewClaudeContent(), true
	case "output.claude-title":
		return output.NewClaudeTitle(), true
	case "output.claude-tool":
		return output.NewClaudeTool(), true
	default:
		return nil, false
	}
}

func (f *Factory) Confirm(name string) (parser.ConfirmParser, bool) {
	switch name {
	case "confirm.generic-yn":
		return confirm.NewGenericYN(), true
	case "confirm.claude-code":
		return confirm.NewClaudeCode(f.confirmStrategy), true
	default:
		return nil, false
	}
}
