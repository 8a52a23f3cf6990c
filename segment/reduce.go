package segment

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
)

// ReduceExecutor accepts GroupBy, Aggregate, Nests, single nested-query
// references, Filter, Top, Limit, Ordering, Joins, and DeclareFields
// (spec.md §4.4).
type ReduceExecutor struct {
	*core
	output *fieldspace.ReduceFieldSpace
}

// NewReduceExecutor constructs an executor against input, seeding its
// output as a reduce-shaped ResultSpace.
func NewReduceExecutor(input *schema.StructDef, nestParent *fieldspace.QuerySpace, resolve SourceResolver, compilePipe PipelineCompiler) *ReduceExecutor {
	out := fieldspace.NewReduceFieldSpace(input, nestParent)
	return &ReduceExecutor{core: newCore(out.ExprSpace, out, resolve, compilePipe), output: out}
}

// Execute applies one QueryProperty to the running executor state.
func (r *ReduceExecutor) Execute(prop ast.QueryProperty) error {
	switch p := prop.(type) {
	case *ast.NamedExpr:
		r.addComputed(p, p.Name, p.Expr, false)
	case *ast.Nest:
		r.addNest(p, p.Name, p.Pipeline)
	case *ast.NestedQueryRef:
		r.addNest(p, p.Name, p.Pipeline)
	case *ast.Filter:
		r.execFilter(p)
	case *ast.Top:
		r.execTop(p)
	case *ast.Limit:
		r.execLimit(p)
	case *ast.Ordering:
		r.execOrdering(p)
	case *ast.Join:
		return r.execJoin(p)
	case *ast.DeclareField:
		return r.execDeclare(p)
	default:
		logNode(prop, "'%s' is not valid in a reduce segment", prop.String())
	}
	return nil
}

// Finalize produces the ReduceSegment, inheriting orderBy/by/limit/
// filterList from refineFrom when this executor's own properties didn't
// override them (spec.md §4.4 finalize, §6 Plan format concatenation
// order).
func (r *ReduceExecutor) Finalize(refineFrom *schema.ReduceSegment) (*schema.ReduceSegment, error) {
	if refineFrom != nil {
		r.inheritFrom(refineFrom.OrderBy, refineFrom.By, refineFrom.Limit, refineFrom.FilterList)
	}
	// Finalize forces the output ResultSpace's structural read, which drains
	// its WhenComplete queue — including any exclude()/all() checks a nested
	// child registered against it (spec.md §5: the parent finalizes after
	// every nested child has structurally contributed, but before
	// diagnostics are emitted downstream).
	r.output.StructDef()
	return &schema.ReduceSegment{
		Fields:       r.fields,
		OrderBy:      r.orderBy,
		By:           r.by,
		Limit:        r.limit,
		FilterList:   r.filterList,
		ExtendSource: r.qspace.ExtendList(),
	}, nil
}
