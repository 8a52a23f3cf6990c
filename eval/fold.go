package eval

import (
	"fmt"
	"strconv"

	"github.com/google/cel-go/cel"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/typeval"
)

// foldEnv is a single shared CEL environment with no declared variables:
// every expression it compiles must be fully literal by construction,
// which is exactly the subset this evaluator ever hands it.
var foldEnv = func() *cel.Env {
	env, err := cel.NewEnv()
	if err != nil {
		panic(err)
	}
	return env
}()

// tryFoldConstant attempts to collapse a fully-literal scalar/boolean
// sub-expression into a single precomputed literal fragment, so the plan
// a downstream dialect writer sees for e.g. `1 + 2 = 3` is `Lit("true")`
// rather than an `eq(add(1,2), 3)` fragment tree. Only scalar arithmetic,
// comparison and boolean literals are attempted; anything else (dates,
// field references, function calls) is left for the ordinary dispatcher.
func tryFoldConstant(expr ast.Expression) (*typeval.Fragment, typeval.AtomicFieldType, bool) {
	src, ok := toCELSource(expr)
	if !ok {
		return nil, typeval.TypeUnknown, false
	}
	celAst, iss := foldEnv.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, typeval.TypeUnknown, false
	}
	prg, err := foldEnv.Program(celAst)
	if err != nil {
		return nil, typeval.TypeUnknown, false
	}
	out, _, err := prg.Eval(cel.NoVars())
	if err != nil {
		return nil, typeval.TypeUnknown, false
	}
	switch v := out.Value().(type) {
	case bool:
		return typeval.Lit(strconv.FormatBool(v)), typeval.TypeBoolean, true
	case int64:
		return typeval.Lit(strconv.FormatInt(v, 10)), typeval.TypeNumber, true
	case float64:
		return typeval.Lit(strconv.FormatFloat(v, 'g', -1, 64)), typeval.TypeNumber, true
	case string:
		return typeval.Lit(v), typeval.TypeString, true
	default:
		return nil, typeval.TypeUnknown, false
	}
}

// toCELSource renders a fully-literal expression subtree as CEL source, ok
// false the moment it hits a node CEL cannot represent on its own
// (field references, function calls, durations, dates).
func toCELSource(expr ast.Expression) (string, bool) {
	switch n := expr.(type) {
	case *ast.Literal:
		switch n.Kind {
		case "number", "boolean":
			return n.Value, true
		case "string":
			return strconv.Quote(n.Value), true
		default:
			return "", false
		}
	case *ast.BinaryOp:
		op, ok := celBinaryOp(n.Op)
		if !ok {
			return "", false
		}
		l, ok := toCELSource(n.Left)
		if !ok {
			return "", false
		}
		r, ok := toCELSource(n.Right)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("(%s %s %s)", l, op, r), true
	case *ast.UnaryOp:
		inner, ok := toCELSource(n.Operand)
		if !ok {
			return "", false
		}
		switch n.Op {
		case "not":
			return fmt.Sprintf("!(%s)", inner), true
		case "-":
			return fmt.Sprintf("-(%s)", inner), true
		}
		return "", false
	default:
		return "", false
	}
}

func celBinaryOp(op string) (string, bool) {
	switch op {
	case "+", "-", "*", "/", "%":
		return op, true
	case "=":
		return "==", true
	case "!=":
		return "!=", true
	case "<", "<=", ">", ">=":
		return op, true
	default:
		return "", false
	}
}
