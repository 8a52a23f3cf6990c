package segment

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/eval"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// IndexExecutor accepts Filter, Limit, Index, and SampleProperty. Index
// supplies `fields` (the indexed columns/wildcards) and an optional
// `weightBy` (becomes `weightMeasure`); refinement is only legal when the
// target is already an index (spec.md §4.4).
type IndexExecutor struct {
	qspace     *fieldspace.QuerySpace
	output     *fieldspace.IndexFieldSpace
	ev         *eval.Evaluator
	limit      *int
	limitSet   bool
	filterList []schema.Filter
	weight     string
	sample     *schema.Sample
}

// NewIndexExecutor constructs an executor against input.
func NewIndexExecutor(input *schema.StructDef, nestParent *fieldspace.QuerySpace) *IndexExecutor {
	out := fieldspace.NewIndexFieldSpace(input, nestParent)
	return &IndexExecutor{qspace: out.ExprSpace, output: out, ev: eval.New(out.ExprSpace)}
}

// Execute applies one QueryProperty to the running executor state.
func (x *IndexExecutor) Execute(prop ast.QueryProperty) error {
	switch p := prop.(type) {
	case *ast.IndexProp:
		x.execIndex(p)
	case *ast.SampleProp:
		x.sample = &schema.Sample{Percent: p.Percent, Quantity: p.Quantity}
	case *ast.Filter:
		for _, expr := range p.Exprs {
			val := x.ev.Eval(expr)
			if val.DataType != typeval.TypeBoolean && !val.IsError() {
				p.Log("filter expression must be boolean")
				continue
			}
			x.filterList = append(x.filterList, schema.Filter{Expr: val})
		}
	case *ast.Limit:
		if x.limitSet {
			p.Log("already limited")
			return nil
		}
		x.limitSet = true
		n := p.N
		x.limit = &n
	default:
		logNode(prop, "'%s' is not valid in an index segment", prop.String())
	}
	return nil
}

func (x *IndexExecutor) execIndex(p *ast.IndexProp) {
	for _, member := range p.Fields {
		switch n := member.(type) {
		case *ast.FieldRef:
			res := x.qspace.Lookup(n.Path)
			if !res.Found {
				n.Log("%s", res.Error)
				continue
			}
			x.output.AddName(n.String())
		case *ast.Wildcard:
			x.expandWildcard(n, n.Prefix, n.Deep)
		default:
			logNode(member, "index: members must be field references or wildcards")
		}
	}
	if p.WeightBy != nil {
		ref, ok := p.WeightBy.(*ast.FieldRef)
		if !ok {
			logNode(p.WeightBy, "weight_by must reference a measure field")
			return
		}
		x.weight = ref.String()
	}
}

// expandWildcard mirrors core.addWildcard/expandStruct: it resolves prefix
// (if any) to a joined struct and records one AddName per atomic field,
// descending into nested joins when deep is set.
func (x *IndexExecutor) expandWildcard(prop ast.Node, prefix []string, deep bool) {
	base := x.qspace.StructDef()
	if len(prefix) > 0 {
		res := x.qspace.Lookup(prefix)
		if !res.Found {
			logNode(prop, "%s", res.Error)
			return
		}
		join, ok := res.Entry.(*fieldspace.StructSpaceField)
		if !ok {
			logNode(prop, "'%s' is not a join", dotPath(prefix))
			return
		}
		base = join.Space.StructDef()
	}
	x.expandStructNames(base, deep)
}

func (x *IndexExecutor) expandStructNames(s *schema.StructDef, deep bool) {
	for _, f := range s.Fields {
		switch fd := f.(type) {
		case schema.AtomicFieldDef:
			x.output.AddName(fd.Name)
		case schema.JoinFieldDef:
			if deep {
				x.expandStructNames(fd.Struct, deep)
			}
		}
	}
}

// Finalize produces the IndexSegment; refineFrom is accepted only because
// the pipeline composer already enforced "index refining non-index" before
// calling in (spec.md §7 Shape errors).
func (x *IndexExecutor) Finalize(refineFrom *schema.IndexSegment) (*schema.IndexSegment, error) {
	limit, filterList := x.limit, x.filterList
	if refineFrom != nil {
		if !x.limitSet {
			limit = refineFrom.Limit
		}
		filterList = append(append([]schema.Filter{}, refineFrom.FilterList...), x.filterList...)
	}
	return &schema.IndexSegment{
		Fields:        x.output.Names(),
		WeightMeasure: x.weight,
		Sample:        x.sample,
		FilterList:    filterList,
		Limit:         limit,
	}, nil
}
