package errs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/errs"
)

func TestIsErrorStructDefRecognizesSentinelOnly(t *testing.T) {
	require.True(t, errs.IsErrorStructDef(errs.StructDef()))
	require.False(t, errs.IsErrorStructDef(nil))

	other := errs.StructDef()
	other.Name = "orders"
	require.False(t, errs.IsErrorStructDef(other))
}

func TestQuerySentinelWrapsStructDefSentinel(t *testing.T) {
	q := errs.Query()
	require.True(t, errs.IsErrorStructDef(q.StructRef.Inline))
	require.NotNil(t, q.Pipeline)
}

func TestRecoverLogsDiagnosticOnPanic(t *testing.T) {
	doc := ast.NewDocument()
	node := ast.NewLiteral(doc, ast.Position{}, "number", "1")

	func() {
		defer errs.Recover(node, "reduce")
		panic("boom")
	}()

	require.True(t, doc.HasErrors())
}

func TestRecoverIsNoOpWithoutPanic(t *testing.T) {
	doc := ast.NewDocument()
	node := ast.NewLiteral(doc, ast.Position{}, "number", "1")

	func() {
		defer errs.Recover(node, "reduce")
	}()

	require.False(t, doc.HasErrors())
}
