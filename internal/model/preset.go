package model

// PresetConfig is a named bundle of parser selections plus default
// session options, tailored to a particular CLI.
type PresetConfig struct {
	Name           string         `json:"name" yaml:"name"`
	StateParsers   []string       `json:"state_parsers" yaml:"state_parsers"`
	OutputParsers  []string       `json:"output_parsers" yaml:"output_parsers"`
	ConfirmParsers []string       `json:"confirm_parsers" yaml:"confirm_parsers"`
	SessionOptions SessionOptions `json:"session_options" yaml:"session_options"`
	Command        string         `json:"command,omitempty" yaml:"command,omitempty"`
	Args           []string       `json:"args,omitempty" yaml:"args,omitempty"`
}
