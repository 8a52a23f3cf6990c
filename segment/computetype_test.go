package segment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/segment"
)

func namedExpr(doc *ast.Document, kind ast.NodeType, name string) *ast.NamedExpr {
	return ast.NewNamedExpr(doc, ast.Position{}, kind, name, ast.NewLiteral(doc, ast.Position{}, "number", "1"))
}

func TestComputeTypeGroupByFixesGrouping(t *testing.T) {
	doc := ast.NewDocument()
	q := &ast.QOPDesc{Properties: []ast.QueryProperty{namedExpr(doc, ast.NodeGroupBy, "state")}}
	require.Equal(t, ast.KindGrouping, segment.ComputeType(q, false))
}

func TestComputeTypeLoneAggregateFixesAggregate(t *testing.T) {
	doc := ast.NewDocument()
	q := &ast.QOPDesc{Properties: []ast.QueryProperty{namedExpr(doc, ast.NodeAggregate, "total")}}
	require.Equal(t, ast.KindAggregate, segment.ComputeType(q, false))
}

func TestComputeTypeAggregateThenGroupByPromotesToGrouping(t *testing.T) {
	doc := ast.NewDocument()
	q := &ast.QOPDesc{Properties: []ast.QueryProperty{
		namedExpr(doc, ast.NodeAggregate, "total"),
		namedExpr(doc, ast.NodeGroupBy, "state"),
	}}
	require.Equal(t, ast.KindGrouping, segment.ComputeType(q, false))
}

func TestComputeTypeProjectRefFixesProject(t *testing.T) {
	doc := ast.NewDocument()
	q := &ast.QOPDesc{Properties: []ast.QueryProperty{ast.NewProjectRef(doc, ast.Position{}, []string{"id"})}}
	require.Equal(t, ast.KindProject, segment.ComputeType(q, false))
}

func TestComputeTypeIndexPropFixesIndex(t *testing.T) {
	doc := ast.NewDocument()
	q := &ast.QOPDesc{Properties: []ast.QueryProperty{ast.NewIndexProp(doc, ast.Position{}, nil, nil)}}
	require.Equal(t, ast.KindIndex, segment.ComputeType(q, false))
}

func TestComputeTypeEmptyUnrefinedDefaultsToGroupingWithWarning(t *testing.T) {
	doc := ast.NewDocument()
	q := &ast.QOPDesc{BaseNode: ast.BaseNode{Doc: doc}, Properties: nil}
	require.Equal(t, ast.KindGrouping, segment.ComputeType(q, false))
	require.True(t, doc.HasErrors() || len(doc.Diagnostics) > 0)
}

func TestComputeTypeEmptyWithRefineTargetStaysUnknown(t *testing.T) {
	q := &ast.QOPDesc{Properties: nil}
	require.Equal(t, ast.KindUnknown, segment.ComputeType(q, true))
}

func TestComputeTypeExplicitLabelShortCircuits(t *testing.T) {
	q := &ast.QOPDesc{Explicit: ast.KindProject, Properties: []ast.QueryProperty{namedExpr(ast.NewDocument(), ast.NodeGroupBy, "x")}}
	require.Equal(t, ast.KindProject, segment.ComputeType(q, false))
}
