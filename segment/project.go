package segment

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
)

// ProjectExecutor extends ReduceExecutor's property grammar but forbids
// GroupBy, Measures, having:, and turtles; its ResultSpace's CanContain
// rejects non-scalar fields, so project-only restrictions fall out of the
// shared addComputed/addNest checks rather than needing separate logic
// here (spec.md §4.4).
type ProjectExecutor struct {
	*core
	output *fieldspace.ProjectFieldSpace
}

// NewProjectExecutor constructs an executor against input, seeding its
// output as a project-shaped ResultSpace.
func NewProjectExecutor(input *schema.StructDef, nestParent *fieldspace.QuerySpace, resolve SourceResolver) *ProjectExecutor {
	out := fieldspace.NewProjectFieldSpace(input, nestParent)
	return &ProjectExecutor{core: newCore(out.ExprSpace, out, resolve, nil), output: out}
}

// Execute applies one QueryProperty to the running executor state.
func (p *ProjectExecutor) Execute(prop ast.QueryProperty) error {
	switch n := prop.(type) {
	case *ast.NamedExpr:
		if n.Type() == ast.NodeGroupBy {
			n.Log("project does not accept group_by; use project: name is expr")
			return nil
		}
		p.addComputed(n, n.Name, n.Expr, false)
	case *ast.ProjectRef:
		p.addReference(n, n.Path)
	case *ast.Wildcard:
		p.addWildcard(n, n.Prefix, n.Deep)
	case *ast.Filter:
		if n.Having {
			n.Log("project does not accept having:")
			return nil
		}
		p.execFilter(n)
	case *ast.Top:
		p.execTop(n)
	case *ast.Limit:
		p.execLimit(n)
	case *ast.Ordering:
		p.execOrdering(n)
	case *ast.Join:
		return p.execJoin(n)
	case *ast.DeclareField:
		return p.execDeclare(n)
	default:
		logNode(prop, "'%s' is not valid in a project segment", prop.String())
	}
	return nil
}

// Finalize produces the ProjectSegment, following the same inheritance
// rule as ReduceExecutor.Finalize.
func (p *ProjectExecutor) Finalize(refineFrom *schema.ProjectSegment) (*schema.ProjectSegment, error) {
	if refineFrom != nil {
		p.inheritFrom(refineFrom.OrderBy, refineFrom.By, refineFrom.Limit, refineFrom.FilterList)
	}
	p.output.StructDef()
	return &schema.ProjectSegment{
		Fields:       p.fields,
		OrderBy:      p.orderBy,
		By:           p.by,
		Limit:        p.limit,
		FilterList:   p.filterList,
		ExtendSource: p.qspace.ExtendList(),
	}, nil
}
