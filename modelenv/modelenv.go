// Package modelenv provides a static, in-memory source.ModelEnvironment:
// the set of named sources/queries/sql-blocks a document's `from()` and
// bare-name references resolve against (spec.md §4.6 "Model environment").
package modelenv

import "github.com/fzakaria/malloy/source"

// Static is a fixed set of model entries, built once and read thereafter —
// the compiler treats the model environment as read-only within a pass
// (spec.md §5).
type Static struct {
	entries map[string]source.ModelEntry
}

// New builds an empty environment ready for Declare calls.
func New() *Static {
	return &Static{entries: make(map[string]source.ModelEntry)}
}

// DeclareSource registers a named, exported or private source entry.
func (s *Static) DeclareSource(name string, entry source.ModelEntry) {
	entry.Kind = source.ModelEntrySource
	s.entries[name] = entry
}

// DeclareQuery registers a named query entry.
func (s *Static) DeclareQuery(name string, entry source.ModelEntry) {
	entry.Kind = source.ModelEntryQuery
	s.entries[name] = entry
}

// DeclareSQL registers a named from_sql entry.
func (s *Static) DeclareSQL(name string, entry source.ModelEntry) {
	entry.Kind = source.ModelEntrySQL
	s.entries[name] = entry
}

// ModelEntry implements source.ModelEnvironment.
func (s *Static) ModelEntry(ref string) (source.ModelEntry, bool) {
	e, ok := s.entries[ref]
	return e, ok
}

var _ source.ModelEnvironment = (*Static)(nil)
