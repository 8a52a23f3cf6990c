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

func TestClassifyFunctionWindowFunctionsAreAnalytic(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(fieldspace.NewStaticSpace(&schema.StructDef{}))
	expr := ast.NewFunctionCall(doc, ast.Position{}, "row_number", nil)
	v := ev.Eval(expr)
	require.Equal(t, typeval.KindAnalytic, v.ExpressionType)
}

func TestClassifyFunctionUnknownFunctionIsScalar(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(fieldspace.NewStaticSpace(&schema.StructDef{}))
	expr := ast.NewFunctionCall(doc, ast.Position{}, "upper", []ast.Expression{ast.NewLiteral(doc, ast.Position{}, "string", "x")})
	v := ev.Eval(expr)
	require.Equal(t, typeval.KindScalar, v.ExpressionType)
	require.Equal(t, typeval.TypeString, v.DataType)
}

func TestFunctionCallErrorArgumentCascades(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(fieldspace.NewStaticSpace(&schema.StructDef{}))
	expr := ast.NewFunctionCall(doc, ast.Position{}, "sum", []ast.Expression{ast.NewFieldRef(doc, ast.Position{}, []string{"missing"})})
	v := ev.Eval(expr)
	require.True(t, v.IsError())
	require.Equal(t, typeval.KindAggregate, v.ExpressionType)
}
