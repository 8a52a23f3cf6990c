package fieldspace

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/schema"
)

// The constructors below let other packages (segment, pipeline, source)
// build SpaceEntry values directly, since entryBase's struct type is
// unexported and cannot be named outside this package.

// NewColumnEntry wraps an atomic field as a plain column entry.
func NewColumnEntry(f schema.AtomicFieldDef) *ColumnSpaceField {
	return &ColumnSpaceField{entryBase{f.Name}, f}
}

// NewExpressionEntry binds name to a not-yet-evaluated expression, resolved
// on lookup by re-running it through the owning evaluator.
func NewExpressionEntry(name string, e ast.Expression) *ExpressionField {
	return &ExpressionField{entryBase{name}, e}
}

// NewReferenceEntry is a name-only passthrough for a projected reference.
func NewReferenceEntry(name string, path []string) *ReferenceField {
	return &ReferenceField{entryBase{name}, path}
}

// NewJoinEntry wraps an already-built joined FieldSpace.
func NewJoinEntry(name string, space FieldSpace, many bool) *StructSpaceField {
	return &StructSpaceField{entryBase{name}, space, many}
}

// NewQueryEntry binds name to a turtle's pipeline.
func NewQueryEntry(name string, p *schema.Pipeline) *QueryField {
	return &QueryField{entryBase{name}, p}
}

// NewWildEntry records an unresolved wildcard under a synthetic key so it
// survives until the owning DynamicSpace finalizes.
func NewWildEntry(key string, prefix []string, deep bool) *WildSpaceField {
	return &WildSpaceField{entryBase{key}, prefix, deep}
}

// NewRenameEntry aliases oldName under newName.
func NewRenameEntry(newName, oldName string) *RenameSpaceField {
	return &RenameSpaceField{entryBase{newName}, oldName}
}
