package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/segment"
	"github.com/fzakaria/malloy/typeval"
)

func TestProjectExecutorAcceptsScalarReference(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewProjectExecutor(ordersInput(), nil, nil)
	ref := ast.NewProjectRef(doc, ast.Position{}, []string{"state"})
	require.NoError(t, exec.Execute(ref))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Len(t, seg.Fields, 1)
	require.Equal(t, "state", seg.Fields[0].Name)
	require.False(t, doc.HasErrors())
}

func TestProjectExecutorRejectsGroupBy(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewProjectExecutor(ordersInput(), nil, nil)
	require.NoError(t, exec.Execute(groupBy(doc, "state")))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Empty(t, seg.Fields)
	require.True(t, doc.HasErrors())
}

func TestProjectExecutorRejectsAggregateMeasure(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewProjectExecutor(ordersInput(), nil, nil)
	total := ast.NewNamedExpr(doc, ast.Position{}, ast.NodeAggregate, "total",
		ast.NewFunctionCall(doc, ast.Position{}, "sum", []ast.Expression{ast.NewFieldRef(doc, ast.Position{}, []string{"amount"})}))
	require.NoError(t, exec.Execute(total))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Len(t, seg.Fields, 1)
	require.True(t, seg.Fields[0].Expr.IsError())
	require.True(t, doc.HasErrors())
}

func TestProjectExecutorRejectsHaving(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewProjectExecutor(ordersInput(), nil, nil)
	boolExpr := ast.NewBinaryOp(doc, ast.Position{}, ">",
		ast.NewFieldRef(doc, ast.Position{}, []string{"amount"}),
		ast.NewLiteral(doc, ast.Position{}, "number", "0"))
	having := ast.NewFilter(doc, ast.Position{}, true, []ast.Expression{boolExpr})
	require.NoError(t, exec.Execute(having))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Empty(t, seg.FilterList)
	require.True(t, doc.HasErrors())
}

func TestProjectExecutorWildcardExpandsAtomicFieldsOnly(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewProjectExecutor(ordersInput(), nil, nil)
	require.NoError(t, exec.Execute(ast.NewWildcard(doc, ast.Position{}, nil, false)))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Len(t, seg.Fields, 2)
	require.False(t, doc.HasErrors())
}

func TestProjectExecutorFinalizeInheritsFilters(t *testing.T) {
	prior := &schema.ProjectSegment{
		FilterList: []schema.Filter{{Expr: typeval.ExprValue{DataType: typeval.TypeBoolean}}},
	}
	exec := segment.NewProjectExecutor(ordersInput(), nil, nil)
	seg, err := exec.Finalize(prior)
	require.NoError(t, err)
	require.Len(t, seg.FilterList, 1)
}
