package fieldspace

import (
	"fmt"

	"github.com/fzakaria/malloy/schema"
)

// DefSpace wraps another space while a single field definition is being
// evaluated. If the lookup target equals the name currently being
// defined, it returns a circular-reference error and records that the
// circularity was hit so the outer definer suppresses follow-on
// diagnostics for that lookup (spec.md §3 invariant, §9 open question).
//
// Open question decision (DESIGN.md): suppression covers every follow-on
// diagnostic for the circular name, not just "unknown type" — the
// conservative no-double-report reading of "suppresses follow-on type
// errors".
type DefSpace struct {
	inner       FieldSpace
	defining    string
	hitCircular bool
}

// NewDefSpace wraps inner while defining is being resolved.
func NewDefSpace(inner FieldSpace, defining string) *DefSpace {
	return &DefSpace{inner: inner, defining: defining}
}

// Lookup implements FieldSpace.
func (d *DefSpace) Lookup(path []string) LookupResult {
	if len(path) > 0 && path[0] == d.defining {
		d.hitCircular = true
		return LookupResult{Found: false, Error: fmt.Sprintf("Circular reference to '%s' in definition", d.defining)}
	}
	return d.inner.Lookup(path)
}

// HitCircular reports whether the lookup for the name being defined was
// observed; the outer definer checks this before emitting any further
// diagnostic for the same definition.
func (d *DefSpace) HitCircular() bool { return d.hitCircular }

func (d *DefSpace) StructDef() *schema.StructDef      { return d.inner.StructDef() }
func (d *DefSpace) EmptyStructDef() *schema.StructDef { return d.inner.EmptyStructDef() }
func (d *DefSpace) Dialect() string                   { return d.inner.Dialect() }
func (d *DefSpace) WhenComplete(cb func())             { d.inner.WhenComplete(cb) }

var _ FieldSpace = (*DefSpace)(nil)
