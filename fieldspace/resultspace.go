package fieldspace

import (
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// ResultSpace is the output-side field space of a segment: a DynamicSpace
// seeded as empty-of-fields but with dialect/parameters preserved, plus
// an exprSpace (the QuerySpace used for expression resolution)
// (spec.md §4.2).
type ResultSpace struct {
	*DynamicSpace
	ExprSpace *QuerySpace
}

func newResultSpace(input *schema.StructDef, nestParent *QuerySpace) ResultSpace {
	qs := NewQuerySpace(input, nestParent)
	out := NewDynamicSpace(input.Name, input.Dialect)
	for _, p := range input.Parameters {
		_ = out.AddParameters([]*schema.Parameter{p})
	}
	rs := ResultSpace{DynamicSpace: out, ExprSpace: qs}
	// A nested query's exclude()/all() checks its names against the
	// enclosing segment's *output*, not its input table — registering this
	// space (not qs) is what makes CheckUngroupName's nestParent.output
	// lookup resolve to the right struct (spec.md §4.3, §8 scenario 6).
	qs.SetOutputSpace(&rs)
	return rs
}

// ReduceFieldSpace is the ResultSpace variant backing a reduce segment:
// any expression kind and turtles are allowed.
type ReduceFieldSpace struct{ ResultSpace }

// NewReduceFieldSpace builds the output space for a reduce segment.
func NewReduceFieldSpace(input *schema.StructDef, nestParent *QuerySpace) *ReduceFieldSpace {
	return &ReduceFieldSpace{newResultSpace(input, nestParent)}
}

func (*ReduceFieldSpace) CanContain(typeval.ExpressionKind, bool) (bool, string) { return true, "" }

// ProjectFieldSpace is the ResultSpace variant backing a project segment:
// rejects aggregate/analytic/ungrouped-aggregate expressions and turtles.
type ProjectFieldSpace struct{ ResultSpace }

// NewProjectFieldSpace builds the output space for a project segment.
func NewProjectFieldSpace(input *schema.StructDef, nestParent *QuerySpace) *ProjectFieldSpace {
	return &ProjectFieldSpace{newResultSpace(input, nestParent)}
}

func (*ProjectFieldSpace) CanContain(kind typeval.ExpressionKind, isTurtle bool) (bool, string) {
	if isTurtle {
		return false, "Cannot add nested queries to project"
	}
	if kind != typeval.KindScalar {
		return false, "Cannot add aggregate measures to project"
	}
	return true, ""
}

// IndexFieldSpace is the ResultSpace variant backing an index segment: it
// keeps only names, not full field defs, and produces an IndexSegment.
type IndexFieldSpace struct {
	ResultSpace
	names []string
	seen  map[string]bool
}

// NewIndexFieldSpace builds the output space for an index segment.
func NewIndexFieldSpace(input *schema.StructDef, nestParent *QuerySpace) *IndexFieldSpace {
	return &IndexFieldSpace{ResultSpace: newResultSpace(input, nestParent), seen: make(map[string]bool)}
}

func (*IndexFieldSpace) CanContain(typeval.ExpressionKind, bool) (bool, string) { return true, "" }

// AddName records an indexed column/wildcard reference, deduplicated by
// exact reference string, preserving insertion order
// (spec.md §6 Plan format).
func (i *IndexFieldSpace) AddName(ref string) {
	if i.seen[ref] {
		return
	}
	i.seen[ref] = true
	i.names = append(i.names, ref)
}

// Names returns the deduplicated, insertion-ordered set of indexed
// references.
func (i *IndexFieldSpace) Names() []string { return i.names }
