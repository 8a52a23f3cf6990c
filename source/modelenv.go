package source

import "github.com/fzakaria/malloy/schema"

// ModelEntryKind tags what a named model entry actually is, so a reference
// to the wrong kind (`from()` on a table, a bare name on a query) can be
// rejected with the right message (spec.md §4.6).
type ModelEntryKind int

const (
	ModelEntrySource ModelEntryKind = iota
	ModelEntryQuery
	ModelEntrySQL
)

// ModelEntry is one named entry of the model environment: an exported
// source, query, or sql definition.
type ModelEntry struct {
	Kind     ModelEntryKind
	Struct   *schema.StructDef // for Kind == ModelEntrySource
	Query    *schema.Query     // for Kind == ModelEntryQuery
	Exported bool
	SQLType  string // dialect hint for a ModelEntrySQL entry, "" otherwise
}

// ModelEnvironment resolves a bare name used in `from(name)`/`name(...)` to
// its declared model entry.
type ModelEnvironment interface {
	ModelEntry(ref string) (ModelEntry, bool)
}
