// Package script adapts small JavaScript snippets, run in a sandboxed
// goja VM with a tick-level timeout, into the state/output/confirm
// parser contracts. A Parser built with New can be registered on a
// parser.Registry directly; presets have no field that names a scripted
// parser, and preset.Factory does not construct one.
package script

import (
	"errors"
	"fmt"
	"time"

	"github.com/coreway/termwatch/internal/model"
	"github.com/dop251/goja"
)

// Kind names which parser contract a script implements.
type Kind string

const (
	KindState   Kind = "state"
	KindOutput  Kind = "output"
	KindConfirm Kind = "confirm"
)

// Spec describes one scripted parser: its registration metadata, which
// contract it fulfils, and the JS source defining that contract's
// entrypoint functions.
type Spec struct {
	Name     string
	Priority int
	Kind     Kind
	Source   string
	Timeout  time.Duration
}

// Parser runs Spec.Source in a fresh goja VM per call, bounded by
// Timeout (defaulting to 50ms, comfortably inside one evaluation tick).
type Parser struct {
	spec Spec
}

// New constructs a scripted parser from spec. It does not compile the
// script eagerly; compile errors surface on every call as a negative
// detection and are not logged.
func New(spec Spec) *Parser {
	if spec.Timeout <= 0 {
		spec.Timeout = 50 * time.Millisecond
	}
	return &Parser{spec: spec}
}

func (p *Parser) Metadata() model.ParserMetadata {
	return model.ParserMetadata{Name: p.spec.Name, Description: "scripted " + string(p.spec.Kind) + " parser", Priority: p.spec.Priority}
}

func (p *Parser) newVM() (*goja.Runtime, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	if _, err := vm.RunString(p.spec.Source); err != nil {
		return nil, fmt.Errorf("script: compiling %q: %w", p.spec.Name, err)
	}
	return vm, nil
}

func (p *Parser) runWithTimeout(fn func(vm *goja.Runtime) (goja.Value, error)) (goja.Value, error) {
	vm, err := p.newVM()
	if err != nil {
		return nil, err
	}

	timer := time.AfterFunc(p.spec.Timeout, func() {
		vm.Interrupt("script parser timeout")
	})
	defer timer.Stop()

	return fn(vm)
}

// DetectState calls the script's global detectState(ctx) function. The
// function must return either null/undefined (no match) or an object
// shaped like { state, confidence, meta }.
func (p *Parser) DetectState(ctx model.ParserContext) (model.StateResult, bool) {
	v, err := p.runWithTimeout(func(vm *goja.Runtime) (goja.Value, error) {
		fn, ok := goja.AssertFunction(vm.Get("detectState"))
		if !ok {
			return nil, errors.New("script: detectState is not a function")
		}
		return fn(goja.Undefined(), vm.ToValue(ctx))
	})
	if err != nil || v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return model.StateResult{}, false
	}

	var res model.StateResult
	if err := unmarshalJSValue(v, &res); err != nil {
		return model.StateResult{}, false
	}
	return res, true
}

// CanParse calls the script's global canParse(ctx) function, expected
// to return a boolean.
func (p *Parser) CanParse(ctx model.ParserContext) bool {
	v, err := p.runWithTimeout(func(vm *goja.Runtime) (goja.Value, error) {
		fn, ok := goja.AssertFunction(vm.Get("canParse"))
		if !ok {
			return nil, errors.New("script: canParse is not a function")
		}
		return fn(goja.Undefined(), vm.ToValue(ctx))
	})
	if err != nil || v == nil {
		return false
	}
	return v.ToBoolean()
}

// Parse calls the script's global parse(ctx) function, expected to
// return null/undefined or an object shaped like a SemanticOutput.
func (p *Parser) Parse(ctx model.ParserContext) (model.SemanticOutput, bool) {
	v, err := p.runWithTimeout(func(vm *goja.Runtime) (goja.Value, error) {
		fn, ok := goja.AssertFunction(vm.Get("parse"))
		if !ok {
			return nil, errors.New("script: parse is not a function")
		}
		return fn(goja.Undefined(), vm.ToValue(ctx))
	})
	if err != nil || v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return model.SemanticOutput{}, false
	}

	var out model.SemanticOutput
	if err := unmarshalJSValue(v, &out); err != nil {
		return model.SemanticOutput{}, false
	}
	if out.ParserName == "" {
		out.ParserName = p.spec.Name
	}
	return out, true
}

// DetectConfirm calls the script's global detectConfirm(ctx) function.
func (p *Parser) DetectConfirm(ctx model.ParserContext) (model.ConfirmInfo, bool) {
	v, err := p.runWithTimeout(func(vm *goja.Runtime) (goja.Value, error) {
		fn, ok := goja.AssertFunction(vm.Get("detectConfirm"))
		if !ok {
			return nil, errors.New("script: detectConfirm is not a function")
		}
		return fn(goja.Undefined(), vm.ToValue(ctx))
	})
	if err != nil || v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return model.ConfirmInfo{}, false
	}

	var info model.ConfirmInfo
	if err := unmarshalJSValue(v, &info); err != nil {
		return model.ConfirmInfo{}, false
	}
	return info, true
}

// FormatResponse calls the script's global formatResponse(info, resp)
// function, expected to return a string encoded as PTY bytes.
func (p *Parser) FormatResponse(info model.ConfirmInfo, resp model.ConfirmResponse) []byte {
	v, err := p.runWithTimeout(func(vm *goja.Runtime) (goja.Value, error) {
		fn, ok := goja.AssertFunction(vm.Get("formatResponse"))
		if !ok {
			return nil, errors.New("script: formatResponse is not a function")
		}
		return fn(goja.Undefined(), vm.ToValue(info), vm.ToValue(resp))
	})
	if err != nil || v == nil {
		return []byte("\n")
	}
	return []byte(v.String())
}
