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

func dateTimestampSpace(doc *ast.Document) fieldspace.FieldSpace {
	sd := &schema.StructDef{
		Name: "events",
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "day", Type: typeval.TypeDate},
			schema.AtomicFieldDef{Name: "at", Type: typeval.TypeTimestamp},
		},
	}
	return fieldspace.NewStaticSpace(sd)
}

// morphTimeOperands is exercised indirectly: comparing a date column to a
// timestamp column must not error, since both are time types eligible for
// morphing.
func TestEvalComparisonMorphsDateAndTimestamp(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(dateTimestampSpace(doc))
	expr := ast.NewBinaryOp(doc, ast.Position{}, "<",
		ast.NewFieldRef(doc, ast.Position{}, []string{"day"}),
		ast.NewFieldRef(doc, ast.Position{}, []string{"at"}))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, typeval.TypeBoolean, v.DataType)
}

func TestEvalComparisonTimeVsNonTimeWithNullIsFalseNotError(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(dateTimestampSpace(doc))
	expr := ast.NewBinaryOp(doc, ast.Position{}, "<",
		ast.NewFieldRef(doc, ast.Position{}, []string{"day"}),
		ast.NewLiteral(doc, ast.Position{}, "null", "null"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, "false", v.Value.Literal)
}

func TestEvalComparisonTimeVsNonTimeLogsDiagnostic(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(dateTimestampSpace(doc))
	expr := ast.NewBinaryOp(doc, ast.Position{}, "<",
		ast.NewFieldRef(doc, ast.Position{}, []string{"day"}),
		ast.NewLiteral(doc, ast.Position{}, "number", "1"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.True(t, doc.HasErrors())
}

func TestEvalTimeOffsetPromotesNumberToDuration(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(dateTimestampSpace(doc))
	expr := ast.NewBinaryOp(doc, ast.Position{}, "+",
		ast.NewFieldRef(doc, ast.Position{}, []string{"day"}),
		ast.NewLiteral(doc, ast.Position{}, "number", "1"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, typeval.TypeDate, v.DataType)
	require.Equal(t, "+", v.Value.Op)
}

func TestEvalStringLikeOperatorUsesLikeFragment(t *testing.T) {
	doc := ast.NewDocument()
	sd := &schema.StructDef{Fields: []schema.FieldDef{schema.AtomicFieldDef{Name: "name", Type: typeval.TypeString}}}
	ev := eval.New(fieldspace.NewStaticSpace(sd))
	expr := ast.NewBinaryOp(doc, ast.Position{}, "~",
		ast.NewFieldRef(doc, ast.Position{}, []string{"name"}),
		ast.NewLiteral(doc, ast.Position{}, "string", "Al%"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, "like", v.Value.Op)
}
