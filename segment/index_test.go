package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/segment"
)

func TestIndexExecutorCollectsFieldsDeduplicated(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewIndexExecutor(ordersInput(), nil)
	idx := ast.NewIndexProp(doc, ast.Position{}, []ast.IndexMember{
		ast.NewFieldRef(doc, ast.Position{}, []string{"state"}),
		ast.NewFieldRef(doc, ast.Position{}, []string{"state"}),
		ast.NewFieldRef(doc, ast.Position{}, []string{"amount"}),
	}, nil)
	require.NoError(t, exec.Execute(idx))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"state", "amount"}, seg.Fields)
	require.False(t, doc.HasErrors())
}

func TestIndexExecutorWeightByRequiresFieldRef(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewIndexExecutor(ordersInput(), nil)
	idx := ast.NewIndexProp(doc, ast.Position{}, []ast.IndexMember{ast.NewFieldRef(doc, ast.Position{}, []string{"state"})},
		ast.NewLiteral(doc, ast.Position{}, "number", "1"))
	require.NoError(t, exec.Execute(idx))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Empty(t, seg.WeightMeasure)
	require.True(t, doc.HasErrors())
}

func TestIndexExecutorWeightByField(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewIndexExecutor(ordersInput(), nil)
	idx := ast.NewIndexProp(doc, ast.Position{}, []ast.IndexMember{ast.NewFieldRef(doc, ast.Position{}, []string{"state"})},
		ast.NewFieldRef(doc, ast.Position{}, []string{"amount"}))
	require.NoError(t, exec.Execute(idx))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Equal(t, "amount", seg.WeightMeasure)
}

func TestIndexExecutorWildcardExpandsAtomicFields(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewIndexExecutor(ordersInput(), nil)
	idx := ast.NewIndexProp(doc, ast.Position{}, []ast.IndexMember{
		ast.NewWildcard(doc, ast.Position{}, nil, false),
	}, nil)
	require.NoError(t, exec.Execute(idx))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"state", "amount"}, seg.Fields)
	require.False(t, doc.HasErrors())
}

func TestIndexExecutorLimitSetOnce(t *testing.T) {
	doc := ast.NewDocument()
	exec := segment.NewIndexExecutor(ordersInput(), nil)
	require.NoError(t, exec.Execute(ast.NewLimit(doc, ast.Position{}, 5)))
	require.NoError(t, exec.Execute(ast.NewLimit(doc, ast.Position{}, 10)))

	seg, err := exec.Finalize(nil)
	require.NoError(t, err)
	require.Equal(t, 5, *seg.Limit)
	require.True(t, doc.HasErrors())
}

func TestIndexExecutorFinalizeInheritsLimitAndConcatenatesFilters(t *testing.T) {
	doc := ast.NewDocument()
	prior := &schema.IndexSegment{
		Limit:      intPtr(7),
		FilterList: []schema.Filter{{}},
	}
	exec := segment.NewIndexExecutor(ordersInput(), nil)
	boolExpr := ast.NewBinaryOp(doc, ast.Position{}, ">",
		ast.NewFieldRef(doc, ast.Position{}, []string{"amount"}),
		ast.NewLiteral(doc, ast.Position{}, "number", "0"))
	require.NoError(t, exec.Execute(ast.NewFilter(doc, ast.Position{}, false, []ast.Expression{boolExpr})))

	seg, err := exec.Finalize(prior)
	require.NoError(t, err)
	require.Equal(t, 7, *seg.Limit)
	require.Len(t, seg.FilterList, 2)
}
