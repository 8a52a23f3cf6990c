// Package fieldspace implements the scope stack: static spaces that wrap a
// schema struct, dynamic spaces that accept incremental additions, def
// spaces that detect self-reference, and result spaces that model a
// segment's output while delegating input lookups to an expression space
// (spec.md §4.2).
package fieldspace

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/schema"
)

// LookupResult is the outcome of a FieldSpace.Lookup call.
type LookupResult struct {
	Found bool
	Entry SpaceEntry
	Error string // human message, set when Found is false
}

// FieldSpace is the polymorphic scope interface every space variant
// implements (spec.md §4.2).
type FieldSpace interface {
	// Lookup resolves a dotted path against this space.
	Lookup(path []string) LookupResult
	// StructDef returns this space's (possibly still-being-built) schema.
	StructDef() *schema.StructDef
	// EmptyStructDef returns a struct carrying this space's dialect and
	// parameters but no fields, used to seed a ResultSpace.
	EmptyStructDef() *schema.StructDef
	// Dialect returns the dialect name in scope, "" if unknown.
	Dialect() string
	// WhenComplete registers a completion callback, run in registration
	// order immediately when the space finalizes.
	WhenComplete(cb func())
}

// SpaceEntry is implemented by every kind of name a FieldSpace can bind:
// a column, a nested struct/join, a turtle, a bare reference passthrough,
// an unresolved wildcard, a rename alias, a join-in-progress, an
// expression-defined field, or a parameter (spec.md §4.2).
type SpaceEntry interface {
	EntryName() string
	spaceEntry()
}

type entryBase struct{ Name string }

func (e entryBase) EntryName() string { return e.Name }
func (entryBase) spaceEntry()         {}

// ColumnSpaceField is a plain atomic column.
type ColumnSpaceField struct {
	entryBase
	Field schema.AtomicFieldDef
}

// StructSpaceField is a nested struct (a join); it exposes its own
// FieldSpace for path-walking through the join.
type StructSpaceField struct {
	entryBase
	Space FieldSpace
	Many  bool
}

// QueryField is a turtle: a named query defined as a field of a source.
type QueryField struct {
	entryBase
	Pipeline *schema.Pipeline
}

// ReferenceField is a name-only passthrough for a projected reference
// (used by project/index segments that don't need the full field def).
type ReferenceField struct {
	entryBase
	Path []string
}

// WildSpaceField is an unresolved `*`/`**` entry. DynamicSpace's finalize
// does not expand it: such an entry contributes no field to the frozen
// StructDef.
type WildSpaceField struct {
	entryBase
	Prefix []string
	Deep   bool
}

// RenameSpaceField aliases another field by name.
type RenameSpaceField struct {
	entryBase
	OldName string
}

// JoinSpaceField is a join recorded with its unevaluated `on` expression.
// DynamicSpace's finalize emits it as a JoinFieldDef and does not read On;
// a path lookup does not descend through it.
type JoinSpaceField struct {
	entryBase
	Source *schema.StructDef
	Many   bool
	On     ast.Expression
}

// ExpressionField is a field defined by an expression (`declare:`/
// computed dimension or measure).
type ExpressionField struct {
	entryBase
	Expr ast.Expression
}

// AbstractParameter is a declared-but-unbound parameter.
type AbstractParameter struct {
	entryBase
	Param *schema.Parameter
}

// DefinedParameter is a parameter that has been bound to a value.
type DefinedParameter struct {
	entryBase
	Param *schema.Parameter
}

// ReferenceRecord is emitted by StaticSpace.Lookup for downstream tooling:
// whether the resolved name was a join traversal or a leaf field.
type ReferenceRecord struct {
	Path   []string
	IsJoin bool
}
