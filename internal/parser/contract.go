// Package parser defines the three parser contracts (state, output,
// confirm) and the registry that dispatches over them. Parsers are
// stateless, read-only consumers of a model.ParserContext; a registry
// never lets a parser mutate anything it's handed.
package parser

import "github.com/coreway/termwatch/internal/model"

// Named exposes a parser's registration metadata.
type Named interface {
	Metadata() model.ParserMetadata
}

// StateParser detects which SessionState the terminal is currently in.
type StateParser interface {
	Named
	DetectState(ctx model.ParserContext) (model.StateResult, bool)
}

// OutputParser classifies a span of screen text into a SemanticOutput.
// CanParse is a cheap gate tried before the more expensive Parse.
type OutputParser interface {
	Named
	CanParse(ctx model.ParserContext) bool
	Parse(ctx model.ParserContext) (model.SemanticOutput, bool)
}

// ConfirmParser detects a pending confirmation prompt and knows how to
// encode a caller's response into the bytes the originating CLI expects.
type ConfirmParser interface {
	Named
	DetectConfirm(ctx model.ParserContext) (model.ConfirmInfo, bool)
	FormatResponse(info model.ConfirmInfo, resp model.ConfirmResponse) []byte
}
