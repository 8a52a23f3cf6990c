package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/eval"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
)

func TestFoldCollapsesFullyLiteralComparison(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(fieldspace.NewStaticSpace(&schema.StructDef{}))
	expr := ast.NewBinaryOp(doc, ast.Position{}, "=",
		ast.NewLiteral(doc, ast.Position{}, "number", "1"),
		ast.NewLiteral(doc, ast.Position{}, "number", "1"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, "true", v.Value.Literal)
	require.Equal(t, "literal", v.Value.Op)
}

func TestFoldSkipsOperatorsCELCannotRepresent(t *testing.T) {
	doc := ast.NewDocument()
	ev := eval.New(fieldspace.NewStaticSpace(&schema.StructDef{}))
	// `~` against a regex literal can't be folded (celBinaryOp has no
	// mapping for it), so the ordinary regexp_match dispatch must survive
	// unchanged rather than being replaced by a folded literal.
	expr := ast.NewBinaryOp(doc, ast.Position{}, "~",
		ast.NewLiteral(doc, ast.Position{}, "string", "abc"),
		ast.NewLiteral(doc, ast.Position{}, "regex", "a.*"))
	v := ev.Eval(expr)
	require.False(t, v.IsError())
	require.Equal(t, "regexp_match", v.Value.Op)
}
