// Package patterns implements the glob-style text matcher shared by the
// fingerprint registry and several output classifiers: exact, "*" (any),
// prefix "foo*", suffix "*foo", middle "foo*bar", and arbitrary
// "*"-patterns compiled to an anchored regex.
package patterns

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob is a compiled glob-style matcher over plain text (not paths).
type Glob struct {
	raw     string
	kind    globKind
	literal string
	re      *regexp.Regexp
}

type globKind int

const (
	kindExact globKind = iota
	kindAny
	kindPrefix
	kindSuffix
	kindMiddle
	kindGeneral
)

var compileCache sync.Map // pattern string -> *Glob

// Compile parses pattern into a Glob, classifying it into the cheapest
// applicable matching strategy. Compiled globs are cached by pattern
// text since fingerprints and classifiers reuse a small, fixed set of
// patterns across every tick.
func Compile(pattern string) *Glob {
	if cached, ok := compileCache.Load(pattern); ok {
		return cached.(*Glob)
	}
	g := compile(pattern)
	compileCache.Store(pattern, g)
	return g
}

func compile(pattern string) *Glob {
	stars := strings.Count(pattern, "*")

	switch {
	case stars == 0:
		return &Glob{raw: pattern, kind: kindExact, literal: pattern}
	case pattern == "*":
		return &Glob{raw: pattern, kind: kindAny}
	case stars == 1 && strings.HasSuffix(pattern, "*") && !strings.HasPrefix(pattern, "*"):
		return &Glob{raw: pattern, kind: kindPrefix, literal: strings.TrimSuffix(pattern, "*")}
	case stars == 1 && strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*"):
		return &Glob{raw: pattern, kind: kindSuffix, literal: strings.TrimPrefix(pattern, "*")}
	case stars == 1 && !strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*"):
		return &Glob{raw: pattern, kind: kindMiddle, literal: pattern}
	default:
		return &Glob{raw: pattern, kind: kindGeneral, re: toRegex(pattern)}
	}
}

// Match reports whether text satisfies the glob.
func (g *Glob) Match(text string) bool {
	switch g.kind {
	case kindExact:
		return text == g.literal
	case kindAny:
		return true
	case kindPrefix:
		// doublestar receives the raw pattern and treats "/" as a path
		// separator, so its "*" stops at "/"; a negative answer from it
		// therefore falls through to a plain prefix test on the literal.
		ok, _ := doublestar.Match(g.raw, text)
		if ok {
			return true
		}
		return strings.HasPrefix(text, g.literal)
	case kindSuffix:
		ok, _ := doublestar.Match(g.raw, text)
		if ok {
			return true
		}
		return strings.HasSuffix(text, g.literal)
	case kindMiddle:
		parts := strings.SplitN(g.literal, "*", 2)
		if len(parts) != 2 {
			return text == g.literal
		}
		return strings.HasPrefix(text, parts[0]) && strings.HasSuffix(text, parts[1]) &&
			len(text) >= len(parts[0])+len(parts[1])
	default:
		return g.re != nil && g.re.MatchString(text)
	}
}

// String returns the original pattern text.
func (g *Glob) String() string { return g.raw }

// toRegex converts an arbitrary "*"-glob into an anchored regex. This is
// the one case doublestar's single Match call can't express compactly
// (multiple independent wildcards with literal runs between them), so it
// stays on stdlib regexp.
func toRegex(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	segments := strings.Split(pattern, "*")
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(seg))
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		// A pattern containing only literal runs and "*" cannot fail to
		// compile once every literal has been escaped with QuoteMeta;
		// this path exists only to avoid a nil *regexp.Regexp downstream.
		return regexp.MustCompile(regexp.QuoteMeta(pattern))
	}
	return re
}

// Match is a convenience one-shot: compile pattern and test text.
func Match(pattern, text string) bool {
	return Compile(pattern).Match(text)
}
