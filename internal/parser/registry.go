package parser

import (
	"sort"
	"sync"

	"github.com/coreway/termwatch/internal/logging"
	"github.com/coreway/termwatch/internal/model"
	"go.uber.org/zap"
)

// Registry holds the three sorted parser collections and dispatches
// detection across them. Every register call re-sorts by descending
// priority; dispatch never lets a faulty parser abort the call.
type Registry struct {
	log *logging.Logger

	mu      sync.RWMutex
	state   []StateParser
	output  []OutputParser
	confirm []ConfirmParser
	lastHit ConfirmParser // remembers which confirm parser matched, for FormatResponse
}

// New returns an empty registry. A nil logger is replaced by a no-op one.
func New(log *logging.Logger) *Registry {
	return &Registry{log: logging.OrNop(log)}
}

// RegisterState adds a state parser and re-sorts by descending priority.
func (r *Registry) RegisterState(p StateParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = append(r.state, p)
	sortByPriority(r.state, func(p StateParser) int { return p.Metadata().Priority })
}

// RegisterOutput adds an output parser and re-sorts by descending priority.
func (r *Registry) RegisterOutput(p OutputParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = append(r.output, p)
	sortByPriority(r.output, func(p OutputParser) int { return p.Metadata().Priority })
}

// RegisterConfirm adds a confirm parser and re-sorts by descending priority.
func (r *Registry) RegisterConfirm(p ConfirmParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirm = append(r.confirm, p)
	sortByPriority(r.confirm, func(p ConfirmParser) int { return p.Metadata().Priority })
}

// UnregisterState removes a state parser by name.
func (r *Registry) UnregisterState(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = removeNamed(r.state, name)
}

// UnregisterOutput removes an output parser by name.
func (r *Registry) UnregisterOutput(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = removeNamed(r.output, name)
}

// UnregisterConfirm removes a confirm parser by name.
func (r *Registry) UnregisterConfirm(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirm = removeNamed(r.confirm, name)
}

// Clear empties all three collections. Callers must ensure no tick is in
// flight while calling Clear, per the shared-resource policy.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = nil
	r.output = nil
	r.confirm = nil
	r.lastHit = nil
}

// States returns the currently registered state parsers, priority order.
func (r *Registry) States() []StateParser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]StateParser, len(r.state))
	copy(out, r.state)
	return out
}

// Outputs returns the currently registered output parsers, priority order.
func (r *Registry) Outputs() []OutputParser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]OutputParser, len(r.output))
	copy(out, r.output)
	return out
}

// Confirms returns the currently registered confirm parsers, priority order.
func (r *Registry) Confirms() []ConfirmParser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConfirmParser, len(r.confirm))
	copy(out, r.confirm)
	return out
}

// DetectState tries every state parser and keeps the highest-confidence
// hit; ties resolve to the parser that was tried first, which — because
// the slice is priority-sorted — is the higher-priority parser.
func (r *Registry) DetectState(ctx model.ParserContext) (model.StateResult, string, bool) {
	parsers := r.States()

	var best model.StateResult
	var bestName string
	found := false

	for _, p := range parsers {
		res, ok := safeDetectState(r.log, p, ctx)
		if !ok {
			continue
		}
		if !found || res.Confidence > best.Confidence {
			best = res
			bestName = p.Metadata().Name
			found = true
		}
	}
	return best, bestName, found
}

// DetectOutput tries every output parser whose CanParse gate passes and
// keeps the highest-confidence hit.
func (r *Registry) DetectOutput(ctx model.ParserContext) (model.SemanticOutput, bool) {
	parsers := r.Outputs()

	var best model.SemanticOutput
	found := false

	for _, p := range parsers {
		if !safeCanParse(r.log, p, ctx) {
			continue
		}
		out, ok := safeParse(r.log, p, ctx)
		if !ok {
			continue
		}
		if !found || out.Confidence > best.Confidence {
			best = out
			found = true
		}
	}
	return best, found
}

// DetectConfirm returns the first positive detection in priority order
// and remembers which parser produced it, so FormatResponse later writes
// the bytes the originating CLI expects.
func (r *Registry) DetectConfirm(ctx model.ParserContext) (model.ConfirmInfo, bool) {
	parsers := r.Confirms()

	for _, p := range parsers {
		info, ok := safeDetectConfirm(r.log, p, ctx)
		if !ok {
			continue
		}
		r.mu.Lock()
		r.lastHit = p
		r.mu.Unlock()
		return info, true
	}
	return model.ConfirmInfo{}, false
}

// FormatResponse asks the confirm parser that produced the last positive
// DetectConfirm hit to encode resp into PTY bytes.
func (r *Registry) FormatResponse(info model.ConfirmInfo, resp model.ConfirmResponse) ([]byte, bool) {
	r.mu.RLock()
	p := r.lastHit
	r.mu.RUnlock()
	if p == nil {
		return nil, false
	}
	return p.FormatResponse(info, resp), true
}

func sortByPriority[T any](s []T, priority func(T) int) {
	sort.SliceStable(s, func(i, j int) bool { return priority(s[i]) > priority(s[j]) })
}

func removeNamed[T Named](s []T, name string) []T {
	out := s[:0:0]
	for _, p := range s {
		if p.Metadata().Name != name {
			out = append(out, p)
		}
	}
	return out
}

// safeDetectState, safeCanParse, safeParse, and safeDetectConfirm each
// wrap one parser call in recover() so a faulty parser can never abort a
// tick (spec's parser-failure-isolation requirement): a panic is treated
// exactly like a negative detection.

func safeDetectState(log *logging.Logger, p StateParser, ctx model.ParserContext) (res model.StateResult, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("state parser panicked", zap.String("parser", p.Metadata().Name), zap.Any("panic", rec))
			ok = false
		}
	}()
	return p.DetectState(ctx)
}

func safeCanParse(log *logging.Logger, p OutputParser, ctx model.ParserContext) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("output parser CanParse panicked", zap.String("parser", p.Metadata().Name), zap.Any("panic", rec))
			ok = false
		}
	}()
	return p.CanParse(ctx)
}

func safeParse(log *logging.Logger, p OutputParser, ctx model.ParserContext) (out model.SemanticOutput, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("output parser Parse panicked", zap.String("parser", p.Metadata().Name), zap.Any("panic", rec))
			ok = false
		}
	}()
	return p.Parse(ctx)
}

func safeDetectConfirm(log *logging.Logger, p ConfirmParser, ctx model.ParserContext) (info model.ConfirmInfo, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Warn("confirm parser panicked", zap.String("parser", p.Metadata().Name), zap.Any("panic", rec))
			ok = false
		}
	}()
	return p.DetectConfirm(ctx)
}
