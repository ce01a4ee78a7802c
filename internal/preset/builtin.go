package preset

import "github.com/coreway/termwatch/internal/model"

// Builtins is the zero-config preset library: shell, docker, and
// claude-code, usable without any YAML file on disk.
var Builtins = map[string]model.PresetConfig{
	"shell": {
		Name:           "shell",
		StateParsers:   []string{"state.shell"},
		OutputParsers:  []string{"output.json", "output.table", "output.diff", "output.list", "output.tree"},
		ConfirmParsers: []string{"confirm.generic-yn"},
		SessionOptions: model.SessionOptions{Cols: 80, Rows: 24},
	},
	"docker": {
		Name:           "docker",
		StateParsers:   []string{"state.docker", "state.shell"},
		OutputParsers:  []string{"output.json", "output.table", "output.list"},
		ConfirmParsers: []string{"confirm.generic-yn"},
		SessionOptions: model.SessionOptions{Command: "docker", Cols: 120, Rows: 30},
	},
	"claude-code": {
		Name: "claude-code",
		StateParsers: []string{
			"state.claude-code",
			"state.shell",
		},
		OutputParsers: []string{
			"output.claude-status",
			"output.claude-title",
			"output.claude-tool",
			"output.json",
			"output.table",
			"output.diff",
			"output.list",
			"output.tree",
			"output.claude-content",
		},
		ConfirmParsers: []string{"confirm.claude-code", "confirm.generic-yn"},
		SessionOptions: model.SessionOptions{Command: "claude", Cols: 120, Rows: 40},
	},
}

// Resolve returns the named built-in preset.
func Resolve(name string) (model.PresetConfig, bool) {
	p, ok := Builtins[name]
	return p, ok
}
