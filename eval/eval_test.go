package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/eval"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

func ordersSpace(doc *ast.Document) fieldspace.FieldSpace {
	sd := &schema.StructDef{
		Name: "orders",
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "amount", Type: typeval.TypeNumber},
			schema.AtomicFieldDef{Name: "state", Type: typeval.TypeString},
			schema.AtomicFieldDef{Name: "shipped_at", Type: typeval.TypeTimestamp},
		},
	}
	return fieldspace.NewStaticSpace(sd)
}

func pos() ast.Position { return ast.Position{Line: 1, Column: 1} }

func TestEvalLiteralNumber(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	lit := ast.NewLiteral(doc, pos(), "number", "3")
	v := ev.Eval(lit)
	require.Equal(t, typeval.TypeNumber, v.DataType)
	require.Equal(t, typeval.SpaceLiteral, v.EvalSpace)
}

func TestEvalFieldRefResolvesColumn(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	ref := ast.NewFieldRef(doc, pos(), []string{"amount"})
	v := ev.Eval(ref)
	require.Equal(t, typeval.TypeNumber, v.DataType)
	require.Equal(t, typeval.SpaceInput, v.EvalSpace)
}

func TestEvalFieldRefUnknownLogsDiagnostic(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	ref := ast.NewFieldRef(doc, pos(), []string{"nope"})
	v := ev.Eval(ref)
	require.True(t, v.IsError())
	require.True(t, doc.HasErrors())
}

func TestEvalConstantArithmeticFolds(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewBinaryOp(doc, pos(), "+",
		ast.NewLiteral(doc, pos(), "number", "1"),
		ast.NewLiteral(doc, pos(), "number", "2"))
	v := ev.Eval(expr)
	require.Equal(t, typeval.TypeNumber, v.DataType)
	require.Equal(t, "3", v.Value.Literal)
	require.Equal(t, "literal", v.Value.Op)
}

func TestEvalAdditiveRequiresNumericOperands(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewBinaryOp(doc, pos(), "+",
		ast.NewFieldRef(doc, pos(), []string{"state"}),
		ast.NewLiteral(doc, pos(), "number", "1"))
	v := ev.Eval(expr)
	require.True(t, v.IsError())
	require.True(t, doc.HasErrors())
}

func TestEvalEqualityNullCompareIsNullSafe(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewBinaryOp(doc, pos(), "=",
		ast.NewFieldRef(doc, pos(), []string{"state"}),
		ast.NewLiteral(doc, pos(), "null", "null"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, typeval.TypeBoolean, v.DataType)
	require.Equal(t, "isnull", v.Value.Op)
}

func TestEvalDivisionRoutesThroughDivFragment(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewBinaryOp(doc, pos(), "/",
		ast.NewFieldRef(doc, pos(), []string{"amount"}),
		ast.NewLiteral(doc, pos(), "number", "2"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, "div", v.Value.Op)
}

func TestEvalUnaryNotRequiresBoolean(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewUnaryOp(doc, pos(), "not", ast.NewFieldRef(doc, pos(), []string{"amount"}))
	v := ev.Eval(expr)
	require.True(t, v.IsError())
}

func TestEvalDurationCarriesGranularity(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewDuration(doc, pos(), ast.NewLiteral(doc, pos(), "number", "3"), "day")
	v := ev.Eval(expr)
	require.Equal(t, typeval.TypeDuration, v.DataType)
	require.NotNil(t, v.Granularity)
	require.Equal(t, typeval.TimeframeDay, v.Granularity.Unit)
}

func TestEvalFunctionCallCountReturnsNumber(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewFunctionCall(doc, pos(), "count", nil)
	v := ev.Eval(expr)
	require.Equal(t, typeval.TypeNumber, v.DataType)
}

func TestEvalFunctionCallSumIsAggregate(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewFunctionCall(doc, pos(), "sum", []ast.Expression{ast.NewFieldRef(doc, pos(), []string{"amount"})})
	v := ev.Eval(expr)
	require.Equal(t, typeval.KindAggregate, v.ExpressionType)
	require.Equal(t, typeval.TypeNumber, v.DataType)
}

func TestEvalAlternationOrsMembers(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	expr := ast.NewAlternation(doc, pos(), []ast.Expression{
		ast.NewBinaryOp(doc, pos(), "=", ast.NewFieldRef(doc, pos(), []string{"state"}), ast.NewLiteral(doc, pos(), "string", "WA")),
		ast.NewBinaryOp(doc, pos(), "=", ast.NewFieldRef(doc, pos(), []string{"state"}), ast.NewLiteral(doc, pos(), "string", "CA")),
	})
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, "or", v.Value.Op)
}

func TestEvalErrorCascadeSuppressesFurtherDiagnostics(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(ordersSpace(doc))
	// left is already an error (unknown field); the binary op must not
	// add a second diagnostic for the additive type check.
	left := ast.NewFieldRef(doc, pos(), []string{"missing"})
	expr := ast.NewBinaryOp(doc, pos(), "+", left, ast.NewLiteral(doc, pos(), "number", "1"))
	v := ev.Eval(expr)
	require.True(t, v.IsError())
	require.Len(t, doc.Diagnostics, 1)
}
