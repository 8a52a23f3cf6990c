package ast

// QueryProperty is implemented by every element that can appear inside a
// pipeline segment's body (group_by, aggregate, nest, filter, top, limit,
// order_by, join, declare, index, sample, project references, wildcards).
type QueryProperty interface {
	Node
	queryProperty()
}

type queryPropBase struct{ BaseNode }

func (queryPropBase) queryProperty() {}

// NamedExpr is `name is expr` (or a bare name with an implicit expr),
// the shared shape of group_by/aggregate/project/declare members.
type NamedExpr struct {
	queryPropBase
	Name string
	Expr Expression
}

func NewNamedExpr(doc *Document, pos Position, kind NodeType, name string, expr Expression) *NamedExpr {
	return &NamedExpr{queryPropBase{BaseNode{kind, pos, doc}}, name, expr}
}

func (n *NamedExpr) String() string { return n.Name }

// NestedQueryRef is a single nested-query-as-field reference used inside a
// reduce segment's group_by/aggregate list (a turtle invoked inline).
type NestedQueryRef struct {
	queryPropBase
	Name     string
	Pipeline *Pipeline
}

func NewNestedQueryRef(doc *Document, pos Position, name string, p *Pipeline) *NestedQueryRef {
	return &NestedQueryRef{queryPropBase{BaseNode{NodeNestedQueryRef, pos, doc}}, name, p}
}

func (n *NestedQueryRef) String() string { return "nest: " + n.Name }

// Nest is `nest: name is { ... }`: a named sub-pipeline producing a nested
// relation per outer group.
type Nest struct {
	queryPropBase
	Name     string
	Pipeline *Pipeline
}

func NewNest(doc *Document, pos Position, name string, p *Pipeline) *Nest {
	return &Nest{queryPropBase{BaseNode{NodeNest, pos, doc}}, name, p}
}

func (n *Nest) String() string { return "nest: " + n.Name }

// Filter is `where:`/`having:` bag of boolean expressions.
type Filter struct {
	queryPropBase
	Having bool
	Exprs  []Expression
}

func NewFilter(doc *Document, pos Position, having bool, exprs []Expression) *Filter {
	return &Filter{queryPropBase{BaseNode{NodeFilter, pos, doc}}, having, exprs}
}

func (f *Filter) String() string {
	if f.Having {
		return "having"
	}
	return "where"
}

// exploreProperty lets a Filter also appear at the top level of a
// RefinedExplore, applying to every query run against that source.
func (f *Filter) exploreProperty() {}

// Top is `top: N [by expr]`.
type Top struct {
	queryPropBase
	N  int
	By Expression // nil if unset
}

func NewTop(doc *Document, pos Position, n int, by Expression) *Top {
	return &Top{queryPropBase{BaseNode{NodeTop, pos, doc}}, n, by}
}

func (t *Top) String() string { return "top" }

// Limit is `limit: N`.
type Limit struct {
	queryPropBase
	N int
}

func NewLimit(doc *Document, pos Position, n int) *Limit {
	return &Limit{queryPropBase{BaseNode{NodeLimit, pos, doc}}, n}
}

func (l *Limit) String() string { return "limit" }

// OrderItem is one `field [asc|desc]` entry of an Ordering.
type OrderItem struct {
	Field Expression
	Desc  bool
}

// Ordering is `order_by: f1 [asc|desc], f2 ...`.
type Ordering struct {
	queryPropBase
	Items []OrderItem
}

func NewOrdering(doc *Document, pos Position, items []OrderItem) *Ordering {
	return &Ordering{queryPropBase{BaseNode{NodeOrdering, pos, doc}}, items}
}

func (o *Ordering) String() string { return "order_by" }

// Join is `join_one`/`join_many`/`join_cross` name is source on expr.
type Join struct {
	queryPropBase
	Kind string // "one" | "many" | "cross"
	Name string
	From Source
	On   Expression
}

func NewJoin(doc *Document, pos Position, kind, name string, from Source, on Expression) *Join {
	return &Join{queryPropBase{BaseNode{NodeJoin, pos, doc}}, kind, name, from, on}
}

func (j *Join) String() string { return "join_" + j.Kind + ": " + j.Name }

// exploreProperty lets a Join also appear at the top level of a
// RefinedExplore, adding a permanent field to the source it refines.
func (j *Join) exploreProperty() {}

// DeclareField is an inline `declare: name is expr` inside a segment.
type DeclareField struct {
	queryPropBase
	Name string
	Expr Expression
}

func NewDeclareField(doc *Document, pos Position, name string, expr Expression) *DeclareField {
	return &DeclareField{queryPropBase{BaseNode{NodeDeclareField, pos, doc}}, name, expr}
}

func (d *DeclareField) String() string { return "declare: " + d.Name }

// exploreProperty lets a DeclareField also appear at the top level of a
// RefinedExplore, adding a computed field to the source it refines.
func (d *DeclareField) exploreProperty() {}

// IndexMember is implemented by the two kinds of entries legal inside an
// `index:` block: a field reference or a wildcard (spec.md §3 "An
// IndexSegment's fields is a deduplicated ordered set of column/wildcard
// references").
type IndexMember interface {
	Node
	indexMember()
}

// IndexProp is `index: fieldref, fieldref.*, **` members.
type IndexProp struct {
	queryPropBase
	Fields   []IndexMember
	WeightBy Expression // nil if unset
}

func NewIndexProp(doc *Document, pos Position, fields []IndexMember, weightBy Expression) *IndexProp {
	return &IndexProp{queryPropBase{BaseNode{NodeIndexProp, pos, doc}}, fields, weightBy}
}

func (i *IndexProp) String() string { return "index" }

// SampleProp is `sample: n | percent%`.
type SampleProp struct {
	queryPropBase
	Percent  bool
	Quantity float64
}

func NewSampleProp(doc *Document, pos Position, percent bool, quantity float64) *SampleProp {
	return &SampleProp{queryPropBase{BaseNode{NodeSampleProp, pos, doc}}, percent, quantity}
}

func (s *SampleProp) String() string { return "sample" }

// ProjectRef is a bare field reference used in a project segment.
type ProjectRef struct {
	queryPropBase
	Path []string
}

func NewProjectRef(doc *Document, pos Position, path []string) *ProjectRef {
	return &ProjectRef{queryPropBase{BaseNode{NodeProjectRef, pos, doc}}, path}
}

func (p *ProjectRef) String() string { return joinDots(p.Path) }

// Wildcard is `*` or `**`, optionally scoped to a join path (`a.b.*`).
type Wildcard struct {
	queryPropBase
	Prefix []string
	Deep   bool // ** vs *
}

func NewWildcard(doc *Document, pos Position, prefix []string, deep bool) *Wildcard {
	return &Wildcard{queryPropBase{BaseNode{NodeWildcard, pos, doc}}, prefix, deep}
}

func (w *Wildcard) String() string {
	if w.Deep {
		return joinDots(w.Prefix) + "**"
	}
	return joinDots(w.Prefix) + "*"
}

func (w *Wildcard) indexMember() {}

// SegmentKind classifies an unlabeled QOPDesc (spec.md §4.4).
type SegmentKind int

const (
	KindUnknown SegmentKind = iota
	KindGrouping
	KindAggregate
	KindProject
	KindIndex
)

func (k SegmentKind) String() string {
	switch k {
	case KindGrouping:
		return "grouping"
	case KindAggregate:
		return "aggregate"
	case KindProject:
		return "project"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// QOPDesc is one raw, unclassified pipeline segment as written by the
// author: a bag of QueryProperty elements plus an optional explicit kind
// label (`reduce:`/`project:`/`index:`).
type QOPDesc struct {
	BaseNode
	Explicit   SegmentKind // KindUnknown if the author wrote no explicit label
	Properties []QueryProperty
}

func (q *QOPDesc) String() string { return "segment" }

// Pipeline is a pipe-separated chain of QOPDescs, optionally headed by a
// turtle reference.
type Pipeline struct {
	BaseNode
	PipeHeadName string // "" if the pipeline has no turtle head
	Segments     []*QOPDesc
}

func (p *Pipeline) String() string { return "pipeline" }

// Query is a pipeline plus the source it runs against.
type Query struct {
	BaseNode
	Name     string // "" for an anonymous top-level query
	Struct   Source
	Pipeline *Pipeline
}

func (q *Query) String() string { return "query: " + q.Name }
