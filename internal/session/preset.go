package session

import (
	"github.com/coreway/termwatch/internal/model"
	"github.com/coreway/termwatch/internal/parser"
)

// ParserFactory resolves a parser registration name (as named in a
// model.PresetConfig) to a constructed parser. The manager owns the
// concrete factory, built from every known parser's name; the driver
// only needs to be able to call it.
type ParserFactory interface {
	State(name string) (parser.StateParser, bool)
	Output(name string) (parser.OutputParser, bool)
	Confirm(name string) (parser.ConfirmParser, bool)
}

// LoadPreset atomically replaces the driver's registry contents with
// the parsers named in preset, resolved through factory. Per the
// shared-resource policy, a caller must not call LoadPreset while an
// Exec or a tick evaluation is in flight.
func (d *Driver) LoadPreset(preset model.PresetConfig, factory ParserFactory) error {
	fresh := parser.New(d.log)

	for _, name := range preset.StateParsers {
		if p, ok := factory.State(name); ok {
			fresh.RegisterState(p)
		}
	}
	for _, name := range preset.OutputParsers {
		if p, ok := factory.Output(name); ok {
			fresh.RegisterOutput(p)
		}
	}
	for _, name := range preset.ConfirmParsers {
		if p, ok := factory.Confirm(name); ok {
			fresh.RegisterConfirm(p)
		}
	}

	d.mu.Lock()
	d.registry = fresh
	d.mu.Unlock()

	return nil
}
