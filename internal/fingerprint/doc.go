// Package fingerprint holds the registry of named textual patterns with
// a category and confidence — the shared matching primitive that lets
// higher-level parsers pose cheap "what's on the screen?" questions
// without duplicating patterns. Grounded on the teacher's
// load-once/cache/list-by-category registry shape
// (internal/domain/registry, internal/registry).
package fingerprint
