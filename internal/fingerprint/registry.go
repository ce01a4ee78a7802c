package fingerprint

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/coreway/termwatch/internal/model"
)

// Registry stores fingerprints keyed by id and by category, with each
// category's entries sorted by descending priority.
type Registry struct {
	mu       sync.RWMutex
	byID     map[string]*model.Fingerprint
	byCat    map[model.Category][]*model.Fingerprint
	compiled map[string]*regexp.Regexp
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byID:     make(map[string]*model.Fingerprint),
		byCat:    make(map[model.Category][]*model.Fingerprint),
		compiled: make(map[string]*regexp.Regexp),
	}
}

// Register adds or replaces a fingerprint and re-sorts its category.
func (r *Registry) Register(fp model.Fingerprint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fp.MatchKind == model.MatchRegex {
		if re, err := regexp.Compile(fp.Pattern); err == nil {
			r.compiled[fp.ID] = re
		}
	}

	r.byID[fp.ID] = &fp

	list := r.byCat[fp.Category]
	replaced := false
	for i, existing := range list {
		if existing.ID == fp.ID {
			list[i] = &fp
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, &fp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Priority > list[j].Priority })
	r.byCat[fp.Category] = list
}

// Unregister removes a fingerprint by id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fp, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.compiled, id)

	list := r.byCat[fp.Category]
	out := list[:0:0]
	for _, existing := range list {
		if existing.ID != id {
			out = append(out, existing)
		}
	}
	r.byCat[fp.Category] = out
}

// Clear removes every registered fingerprint.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*model.Fingerprint)
	r.byCat = make(map[model.Category][]*model.Fingerprint)
	r.compiled = make(map[string]*regexp.Regexp)
}

// Get returns the fingerprint registered under id, if any.
func (r *Registry) Get(id string) (*model.Fingerprint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fp, ok := r.byID[id]
	return fp, ok
}

// ByCategory returns the fingerprints in a category, descending by
// priority. The returned slice is a fresh copy.
func (r *Registry) ByCategory(cat model.Category) []*model.Fingerprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byCat[cat]
	out := make([]*model.Fingerprint, len(list))
	copy(out, list)
	return out
}

// All returns every registered fingerprint, in no particular order.
func (r *Registry) All() []*model.Fingerprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Fingerprint, 0, len(r.byID))
	for _, fp := range r.byID {
		out = append(out, fp)
	}
	return out
}

// matchOne tests a single fingerprint against ctx's lines, per the
// per-match-kind rules of the fingerprint matcher.
func (r *Registry) matchOne(fp *model.Fingerprint, ctx model.ParserContext) model.FingerprintMatch {
	switch fp.MatchKind {
	case model.MatchRegex:
		re := r.compiled[fp.ID]
		if re == nil {
			return model.FingerprintMatch{Fingerprint: fp}
		}
		for i, line := range ctx.LastLines {
			if m := re.FindStringSubmatch(line); m != nil {
				return model.FingerprintMatch{Fingerprint: fp, Matched: true, Captures: m[1:], LineIndex: i}
			}
		}
		return model.FingerprintMatch{Fingerprint: fp}

	case model.MatchLiteral:
		for i, line := range ctx.LastLines {
			if strings.Contains(line, fp.Pattern) {
				return model.FingerprintMatch{Fingerprint: fp, Matched: true, LineIndex: i}
			}
		}
		if strings.Contains(ctx.ScreenText, fp.Pattern) {
			return model.FingerprintMatch{Fingerprint: fp, Matched: true, LineIndex: -1}
		}
		return model.FingerprintMatch{Fingerprint: fp}

	case model.MatchEnum, model.MatchMarker:
		for _, alt := range fp.Patterns {
			for i, line := range ctx.LastLines {
				if strings.Contains(line, alt) {
					return model.FingerprintMatch{Fingerprint: fp, Matched: true, LineIndex: i, Alternate: alt}
				}
			}
		}
		return model.FingerprintMatch{Fingerprint: fp}

	default:
		return model.FingerprintMatch{Fingerprint: fp}
	}
}

// Extract runs every registered fingerprint against ctx once and returns
// the full id->match map, per-category positive matches, and the cheap
// boolean hints built from them. Deterministic for a fixed ctx.
func (r *Registry) Extract(ctx model.ParserContext) model.Extraction {
	r.mu.RLock()
	fps := make([]*model.Fingerprint, 0, len(r.byID))
	for _, fp := range r.byID {
		fps = append(fps, fp)
	}
	r.mu.RUnlock()

	sort.SliceStable(fps, func(i, j int) bool { return fps[i].ID < fps[j].ID })

	matches := make(map[string]model.FingerprintMatch, len(fps))
	byCat := make(map[model.Category][]model.FingerprintMatch)
	var hints model.ExtractionHints

	for _, fp := range fps {
		m := r.matchOne(fp, ctx)
		matches[fp.ID] = m
		if !m.Matched {
			continue
		}
		byCat[fp.Category] = append(byCat[fp.Category], m)
		switch fp.Category {
		case model.CategorySpinner:
			hints.HasSpinner = true
		case model.CategoryPrompt:
			hints.HasPrompt = true
		case model.CategoryTool:
			hints.HasToolOutput = true
		case model.CategoryConfirm:
			hints.HasConfirmDialog = true
		case model.CategoryError:
			hints.HasError = true
		}
	}

	for cat, list := range byCat {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Fingerprint.Priority > list[j].Fingerprint.Priority
		})
		byCat[cat] = list
	}

	return model.Extraction{Matches: matches, ByCategory: byCat, Hints: hints}
}
