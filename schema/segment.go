package schema

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/typeval"
)

// SelectedField is one finalized output field of a PipeSegment: a name
// plus the expression that computes it (already evaluated by eval).
type SelectedField struct {
	Name string
	Expr typeval.ExprValue
}

// PipeSegment is implemented by ReduceSegment, ProjectSegment, and
// IndexSegment (spec.md §3).
type PipeSegment interface {
	segmentKind() string
}

// ReduceSegment is a reduce/aggregate pipeline stage.
type ReduceSegment struct {
	Fields       []SelectedField
	OrderBy      []OrderByItem
	By           *typeval.ExprValue // the `top: N by expr` expression, if any
	Limit        *int
	FilterList   []Filter
	ExtendSource []FieldDef // declare:/join: additions made within this segment
}

func (*ReduceSegment) segmentKind() string { return "reduce" }

// ProjectSegment is a project pipeline stage: same shape as reduce, minus
// aggregates and turtles (enforced by the ProjectExecutor, not by this
// type itself).
type ProjectSegment struct {
	Fields       []SelectedField
	OrderBy      []OrderByItem
	By           *typeval.ExprValue
	Limit        *int
	FilterList   []Filter
	ExtendSource []FieldDef
}

func (*ProjectSegment) segmentKind() string { return "project" }

// IndexSegment is an index pipeline stage: a deduplicated, insertion
// ordered set of column/wildcard references.
type IndexSegment struct {
	Fields        []string
	WeightMeasure string // "" if unset
	Sample        *Sample
	FilterList    []Filter
	Limit         *int
}

func (*IndexSegment) segmentKind() string { return "index" }

// Sample is `sample: n | percent%`.
type Sample struct {
	Percent  bool
	Quantity float64
}

// PipeHead names a turtle this pipeline begins from.
type PipeHead struct {
	Name string
}

// Pipeline is an ordered chain of PipeSegments, optionally headed by a
// turtle reference (mutually exclusive with inline head refinement, since
// refinement materializes the turtle into segment 0).
type Pipeline struct {
	PipeHead *PipeHead
	Segments []PipeSegment
}

// StructRef names the input source of a Query: either a reference to a
// named model entry or an inline StructDef.
type StructRef struct {
	Name   string     // "" if inline
	Inline *StructDef // nil if by-name
}

// Query is a Pipeline plus the source it runs against.
type Query struct {
	StructRef StructRef
	Pipeline  *Pipeline
	Location  ast.Position
}
