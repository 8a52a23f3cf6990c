// Package eval implements the expression evaluator: for every AST
// expression node it produces a typeval.ExprValue, dispatching binary
// operators by class (equality/comparison/additive/multiplicative),
// folding fully-literal sub-expressions with a CEL environment, and
// honoring the error-cascade and unsupported-operand policies
// (spec.md §4.3).
package eval

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/typeval"
)

// Evaluator walks one expression tree against a FieldSpace, logging
// diagnostics on the node that triggered them and satisfying ast.Evaluator
// so Expression.Apply hooks can call back into it without an import cycle.
type Evaluator struct {
	Space fieldspace.FieldSpace
	loc   ast.Position
}

// New builds an Evaluator bound to a lookup space.
func New(space fieldspace.FieldSpace) *Evaluator {
	return &Evaluator{Space: space}
}

// EvalLocation implements ast.Evaluator.
func (e *Evaluator) EvalLocation() ast.Position { return e.loc }

// Eval produces the ExprValue for any expression AST node. Errors are
// logged on expr's own location (spec.md §7 policy: "every error is
// reported at most once at the most-specific node").
func (e *Evaluator) Eval(expr ast.Expression) typeval.ExprValue {
	e.loc = expr.Position()
	switch n := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(n)
	case *ast.FieldRef:
		return e.evalFieldRef(n)
	case *ast.BinaryOp:
		left := e.Eval(n.Left)
		right := e.Eval(n.Right)
		return foldIfConstant(n, e.evalBinary(n, n.Op, left, right))
	case *ast.UnaryOp:
		return foldIfConstant(n, e.evalUnary(n))
	case *ast.Duration:
		return e.evalDuration(n)
	case *ast.FunctionCall:
		return e.evalFunctionCall(n)
	case *ast.Alternation:
		return e.evalAlternation(n)
	case *ast.ExcludeRef:
		return e.evalUngroup(n, n.Names)
	case *ast.AllRef:
		return e.evalUngroup(n, n.Names)
	default:
		logNode(expr, "unrecognized expression node")
		return typeval.ErrorValue()
	}
}

// foldIfConstant collapses v's plan fragment into a single precomputed
// literal when expr turned out to be a fully-literal scalar/boolean
// subtree; v's type/kind/space are left untouched since folding only
// simplifies the rendered fragment, never the value's classification.
func foldIfConstant(expr ast.Expression, v typeval.ExprValue) typeval.ExprValue {
	if v.IsError() || v.EvalSpace != typeval.SpaceLiteral && v.EvalSpace != typeval.SpaceConstant {
		return v
	}
	if frag, _, ok := tryFoldConstant(expr); ok {
		v.Value = frag
	}
	return v
}

func logNode(n ast.Node, msg string, args ...any) {
	if logger, ok := n.(ast.Logger); ok {
		logger.Log(msg, args...)
	}
}

func (e *Evaluator) evalLiteral(l *ast.Literal) typeval.ExprValue {
	switch l.Kind {
	case "string":
		return typeval.ExprValue{DataType: typeval.TypeString, EvalSpace: typeval.SpaceLiteral, Value: typeval.Lit(l.Value)}
	case "number":
		return typeval.ExprValue{DataType: typeval.TypeNumber, EvalSpace: typeval.SpaceLiteral, Value: typeval.Lit(l.Value)}
	case "boolean":
		return typeval.ExprValue{DataType: typeval.TypeBoolean, EvalSpace: typeval.SpaceLiteral, Value: typeval.Lit(l.Value)}
	case "date":
		return typeval.ExprValue{DataType: typeval.TypeDate, EvalSpace: typeval.SpaceLiteral, Value: typeval.Lit(l.Value)}
	case "timestamp":
		return typeval.ExprValue{DataType: typeval.TypeTimestamp, EvalSpace: typeval.SpaceLiteral, Value: typeval.Lit(l.Value)}
	case "regex":
		return typeval.ExprValue{DataType: typeval.TypeRegex, EvalSpace: typeval.SpaceLiteral, Value: typeval.Lit(l.Value)}
	case "null":
		return typeval.ExprValue{DataType: typeval.TypeNull, EvalSpace: typeval.SpaceConstant, Value: typeval.Lit("null")}
	default:
		logNode(l, "unrecognized literal kind '%s'", l.Kind)
		return typeval.ErrorValue()
	}
}

func (e *Evaluator) evalFieldRef(f *ast.FieldRef) typeval.ExprValue {
	res := e.Space.Lookup(f.Path)
	if !res.Found {
		logNode(f, "%s", res.Error)
		return typeval.ErrorValue()
	}
	switch entry := res.Entry.(type) {
	case *fieldspace.ColumnSpaceField:
		return typeval.ExprValue{
			DataType:       entry.Field.Type,
			ExpressionType: typeval.KindScalar,
			EvalSpace:      typeval.SpaceInput,
			Value:          typeval.Lit(entry.Field.Name),
		}
	case *fieldspace.ExpressionField:
		return e.Eval(entry.Expr)
	case *fieldspace.DefinedParameter:
		if entry.Param.Value != nil {
			return *entry.Param.Value
		}
		return typeval.ErrorValue()
	case *fieldspace.AbstractParameter:
		logNode(f, "required parameter '%s' is not bound", entry.Param.Name)
		return typeval.ErrorValue()
	case *fieldspace.ReferenceField:
		return typeval.ExprValue{
			DataType:       typeval.TypeUnknown,
			ExpressionType: typeval.KindScalar,
			EvalSpace:      typeval.SpaceInput,
			Value:          typeval.Lit(joinPath(entry.Path)),
		}
	default:
		logNode(f, "'%s' cannot be used in an expression", f.String())
		return typeval.ErrorValue()
	}
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

func (e *Evaluator) evalUnary(u *ast.UnaryOp) typeval.ExprValue {
	operand := e.Eval(u.Operand)
	if operand.IsError() {
		return typeval.ErrorValue(operand.ExpressionType)
	}
	switch u.Op {
	case "not":
		if operand.DataType != typeval.TypeBoolean {
			logNode(u, "'not' requires a boolean operand, got %s", operand.DataType)
			return typeval.ErrorValue(operand.ExpressionType)
		}
		return typeval.BoolValue(typeval.Call("not", operand.Value), operand.ExpressionType, operand.EvalSpace)
	case "-":
		if operand.DataType != typeval.TypeNumber {
			logNode(u, "unary '-' requires a number operand, got %s", operand.DataType)
			return typeval.ErrorValue(operand.ExpressionType)
		}
		return typeval.ExprValue{
			DataType:       typeval.TypeNumber,
			ExpressionType: operand.ExpressionType,
			EvalSpace:      operand.EvalSpace,
			Value:          typeval.Call("negate", operand.Value),
		}
	default:
		logNode(u, "unrecognized unary operator '%s'", u.Op)
		return typeval.ErrorValue(operand.ExpressionType)
	}
}

func (e *Evaluator) evalDuration(d *ast.Duration) typeval.ExprValue {
	amount := e.Eval(d.Amount)
	if amount.IsError() {
		return typeval.ErrorValue(amount.ExpressionType)
	}
	if amount.DataType != typeval.TypeNumber {
		logNode(d, "duration amount must be a number, got %s", amount.DataType)
		return typeval.ErrorValue(amount.ExpressionType)
	}
	unit, ok := typeval.ParseTimeframe(d.Timeframe)
	if !ok {
		logNode(d, "unrecognized time unit '%s'", d.Timeframe)
		return typeval.ErrorValue(amount.ExpressionType)
	}
	return typeval.ExprValue{
		DataType:       typeval.TypeDuration,
		ExpressionType: amount.ExpressionType,
		EvalSpace:      amount.EvalSpace,
		Value:          typeval.Call("duration", amount.Value, typeval.Lit(d.Timeframe)),
		Granularity:    &typeval.Granularity{Unit: unit},
	}
}

func (e *Evaluator) evalFunctionCall(f *ast.FunctionCall) typeval.ExprValue {
	args := make([]typeval.ExprValue, len(f.Args))
	anyErr := false
	kinds := make([]typeval.ExpressionKind, 0, len(f.Args)+1)
	fragArgs := make([]*typeval.Fragment, len(f.Args))
	for i, a := range f.Args {
		args[i] = e.Eval(a)
		if args[i].IsError() {
			anyErr = true
		}
		kinds = append(kinds, args[i].ExpressionType)
		fragArgs[i] = args[i].Value
	}
	kind := typeval.MaxExpressionType(classifyFunction(f.Name), typeval.MaxOfExpressionTypes(kinds...))
	if anyErr {
		return typeval.ErrorValue(kind)
	}
	return typeval.ExprValue{
		DataType:       returnType(f.Name, args),
		ExpressionType: kind,
		EvalSpace:      mergeSpaces(args),
		Value:          typeval.Call(f.Name, fragArgs...),
	}
}

// returnType resolves a built-in function's result type, grounded on the
// teacher's FunctionSignature.ReturnTypeByArg convention: by-arg functions
// (sum/avg/min/max/coalesce/ifnull) return their first argument's type;
// count always returns a number; everything unrecognized keeps the
// first argument's type as the best guess available to the core.
func returnType(name string, args []typeval.ExprValue) typeval.AtomicFieldType {
	if name == "count" {
		return typeval.TypeNumber
	}
	if len(args) > 0 {
		return args[0].DataType
	}
	return typeval.TypeUnknown
}

func mergeSpaces(args []typeval.ExprValue) typeval.EvalSpace {
	space := typeval.SpaceConstant
	for _, a := range args {
		space = typeval.MergeEvalSpaces(space, a.EvalSpace)
	}
	return space
}

// evalUngroup handles exclude()/all(): an ungrouped-aggregate reference that
// names dimensions of the nearest enclosing (non-nested) query's output.
// Each name is checked, deferred until that output space finalizes, against
// spec.md §8 scenario 6: a name missing from the enclosing output logs
// "exclude() '<name>' is missing from query output" exactly once, at this
// node's location. A bare exclude()/all() outside any nest is itself an
// authoring error, diagnosed immediately since there is no parent to defer
// the check to.
func (e *Evaluator) evalUngroup(node ast.Node, names []string) typeval.ExprValue {
	qs, ok := e.Space.(*fieldspace.QuerySpace)
	if !ok || qs.NestParent() == nil {
		logNode(node, "exclude()/all() can only be used inside a nested query")
		return typeval.ErrorValue()
	}
	for _, name := range names {
		qs.CheckUngroupName(name, func(msg string, args ...any) { logNode(node, msg, args...) })
	}
	return typeval.ExprValue{
		DataType:       typeval.TypeUnknown,
		ExpressionType: typeval.KindUngroupedAggregate,
		EvalSpace:      typeval.SpaceOutput,
		Value:          typeval.Call("ungroup", litNames(names)...),
	}
}

func litNames(names []string) []*typeval.Fragment {
	out := make([]*typeval.Fragment, len(names))
	for i, n := range names {
		out[i] = typeval.Lit(n)
	}
	return out
}

func (e *Evaluator) evalAlternation(a *ast.Alternation) typeval.ExprValue {
	if len(a.Members) == 0 {
		return typeval.ErrorValue()
	}
	members := make([]typeval.ExprValue, len(a.Members))
	frags := make([]*typeval.Fragment, len(a.Members))
	kind := typeval.KindScalar
	space := typeval.SpaceConstant
	anyErr := false
	for i, m := range a.Members {
		members[i] = e.Eval(m)
		if members[i].IsError() {
			anyErr = true
		}
		kind = typeval.MaxExpressionType(kind, members[i].ExpressionType)
		space = typeval.MergeEvalSpaces(space, members[i].EvalSpace)
		frags[i] = members[i].Value
	}
	if anyErr {
		return typeval.ErrorValue(kind)
	}
	return typeval.BoolValue(typeval.Call("or", frags...), kind, space)
}
