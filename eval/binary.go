package eval

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/typeval"
)

var equalityOps = map[string]bool{"=": true, "!=": true, "~": true, "!~": true}
var comparisonOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var additiveOps = map[string]bool{"+": true, "-": true}
var multiplicativeOps = map[string]bool{"*": true, "%": true, "/": true}

func isTimeType(t typeval.AtomicFieldType) bool {
	return t == typeval.TypeDate || t == typeval.TypeTimestamp
}

// evalBinary routes (left, op, right) by operator class
// (spec.md §4.3 table), applying the error-cascade and unsupported-operand
// policies ahead of any class-specific rule.
func (e *Evaluator) evalBinary(n ast.Node, op string, left, right typeval.ExprValue) typeval.ExprValue {
	kind := typeval.MaxExpressionType(left.ExpressionType, right.ExpressionType)
	space := typeval.MergeEvalSpaces(left.EvalSpace, right.EvalSpace)

	// Error cascade: no further diagnostic once either operand is already
	// error-typed.
	if left.IsError() || right.IsError() {
		return typeval.ErrorValue(kind)
	}

	if msg, bad := unsupportedOperandError(op, left, right); bad {
		logNode(n, "%s", msg)
		return typeval.ErrorValue(kind)
	}

	switch {
	case equalityOps[op]:
		return e.evalEquality(n, op, left, right, kind, space)
	case comparisonOps[op]:
		return e.evalComparison(n, op, left, right, kind, space)
	case additiveOps[op]:
		return e.evalAdditive(n, op, left, right, kind, space)
	case multiplicativeOps[op]:
		return e.evalMultiplicative(n, op, left, right, kind, space)
	default:
		logNode(n, "unrecognized operator '%s'", op)
		return typeval.ErrorValue(kind)
	}
}

// unsupportedOperandError enforces: an `unsupported`-typed operand may only
// participate in a null compare or an equality with another
// `unsupported`-typed operand; anything else is a diagnostic (spec.md §4.3
// "Unsupported operands"). ExprValue carries no raw database type, so two
// unsupported operands pass whatever their underlying types are.
func unsupportedOperandError(op string, left, right typeval.ExprValue) (string, bool) {
	for _, pair := range [][2]typeval.ExprValue{{left, right}, {right, left}} {
		operand, other := pair[0], pair[1]
		if operand.DataType != typeval.TypeUnsupported {
			continue
		}
		if other.DataType == typeval.TypeNull {
			continue
		}
		if equalityOps[op] && other.DataType == typeval.TypeUnsupported {
			continue
		}
		return "operand of unsupported type can only be compared to null or another unsupported value", true
	}
	return "", false
}

func (e *Evaluator) evalEquality(n ast.Node, op string, left, right typeval.ExprValue, kind typeval.ExpressionKind, space typeval.EvalSpace) typeval.ExprValue {
	negate := op == "!=" || op == "!~"
	if left.DataType == typeval.TypeNull || right.DataType == typeval.TypeNull {
		operand := left
		if left.DataType == typeval.TypeNull {
			operand = right
		}
		frag := typeval.Call("isnull", operand.Value)
		if negate {
			frag = nullsafeNot(frag)
		}
		return typeval.BoolValue(frag, kind, space)
	}

	if left.DataType == typeval.TypeRegex || right.DataType == typeval.TypeRegex {
		str, pattern := left, right
		if left.DataType == typeval.TypeRegex {
			str, pattern = right, left
		}
		frag := typeval.Call("regexp_match", str.Value, pattern.Value)
		if negate {
			frag = nullsafeNot(frag)
		}
		return typeval.BoolValue(frag, kind, space)
	}

	if left.DataType == typeval.TypeString && right.DataType == typeval.TypeString && (op == "~" || op == "!~") {
		frag := typeval.Call("like", left.Value, right.Value)
		if negate {
			frag = nullsafeNot(frag)
		}
		return typeval.BoolValue(frag, kind, space)
	}

	lv, rv, ok := morphTimeOperands(left, right)
	if !ok {
		logNode(n, "cannot compare %s to %s", left.DataType, right.DataType)
		return typeval.ErrorValue(kind)
	}
	fragOp := "eq"
	if op == "!~" || op == "!=" {
		fragOp = "neq"
	}
	return typeval.BoolValue(typeval.Call(fragOp, lv, rv), kind, space)
}

// nullsafeNot wraps a comparison fragment's negative form; grounded on the
// spec's "nullsafeNot wraps the negative form" rule so a negated null
// compare never silently becomes a 3-valued-logic trap downstream.
func nullsafeNot(frag *typeval.Fragment) *typeval.Fragment {
	return typeval.Call("nullsafe_not", frag)
}

func (e *Evaluator) evalComparison(n ast.Node, op string, left, right typeval.ExprValue, kind typeval.ExpressionKind, space typeval.EvalSpace) typeval.ExprValue {
	if isTimeType(left.DataType) != isTimeType(right.DataType) {
		if left.DataType == typeval.TypeNull || right.DataType == typeval.TypeNull {
			return typeval.BoolValue(typeval.Lit("false"), kind, space)
		}
		logNode(n, "cannot compare %s to %s", left.DataType, right.DataType)
		return typeval.BoolValue(typeval.Lit("false"), kind, space)
	}
	lv, rv, ok := morphTimeOperands(left, right)
	if !ok {
		logNode(n, "cannot compare %s to %s", left.DataType, right.DataType)
		return typeval.ErrorValue(kind)
	}
	return typeval.BoolValue(typeval.Call(op, lv, rv), kind, space)
}

// morphTimeOperands renders both operands in a common type, morphing
// date↔timestamp via each value's Morphic sidecar when they disagree
// (spec.md §4.3 "Morphing").
func morphTimeOperands(left, right typeval.ExprValue) (*typeval.Fragment, *typeval.Fragment, bool) {
	if left.DataType == right.DataType {
		return left.Value, right.Value, true
	}
	if !isTimeType(left.DataType) || !isTimeType(right.DataType) {
		return left.Value, right.Value, true
	}
	lf, lok := left.Morph(typeval.TypeTimestamp)
	rf, rok := right.Morph(typeval.TypeTimestamp)
	if !lok {
		lf = left.Value
		lok = true
	}
	if !rok {
		rf = right.Value
		rok = true
	}
	return lf, rf, lok && rok
}

func (e *Evaluator) evalAdditive(n ast.Node, op string, left, right typeval.ExprValue, kind typeval.ExpressionKind, space typeval.EvalSpace) typeval.ExprValue {
	if isTimeType(left.DataType) {
		return e.evalTimeOffset(n, op, left, right, kind, space)
	}
	if left.DataType != typeval.TypeNumber || right.DataType != typeval.TypeNumber {
		logNode(n, "'%s' requires numeric operands, got %s and %s", op, left.DataType, right.DataType)
		return typeval.ErrorValue(kind)
	}
	return typeval.ExprValue{
		DataType:       typeval.TypeNumber,
		ExpressionType: kind,
		EvalSpace:      space,
		Value:          typeval.Call(op, left.Value, right.Value),
	}
}

// evalTimeOffset implements `time +/- duration`. A bare scalar on the
// right is promoted to an ExprDuration carrying left's own granularity
// unit, or `day` when left is an untruncated date (spec.md §4.3
// "additive"). Granularity is preserved only when the duration's unit
// matches left's truncation unit.
func (e *Evaluator) evalTimeOffset(n ast.Node, op string, left, right typeval.ExprValue, kind typeval.ExpressionKind, space typeval.EvalSpace) typeval.ExprValue {
	durUnit := typeval.TimeframeDay
	if left.Granularity != nil && left.Granularity.Unit != typeval.TimeframeNone {
		durUnit = left.Granularity.Unit
	}

	rightFrag := right.Value
	rightUnit := durUnit
	switch right.DataType {
	case typeval.TypeDuration:
		if right.Granularity != nil {
			rightUnit = right.Granularity.Unit
		}
	case typeval.TypeNumber:
		rightFrag = typeval.Call("duration", right.Value, typeval.Lit(durUnit.String()))
	default:
		logNode(n, "'%s' on a %s requires a duration or number operand, got %s", op, left.DataType, right.DataType)
		return typeval.ErrorValue(kind)
	}

	result := typeval.ExprValue{
		DataType:       left.DataType,
		ExpressionType: kind,
		EvalSpace:      space,
		Value:          typeval.Call(op, left.Value, rightFrag),
	}
	if left.IsGranular() && typeval.SameUnit(left.Granularity, &typeval.Granularity{Unit: rightUnit}) {
		result.Granularity = left.Granularity
	}
	return result
}

func (e *Evaluator) evalMultiplicative(n ast.Node, op string, left, right typeval.ExprValue, kind typeval.ExpressionKind, space typeval.EvalSpace) typeval.ExprValue {
	if left.DataType != typeval.TypeNumber || right.DataType != typeval.TypeNumber {
		logNode(n, "'%s' requires numeric operands, got %s and %s", op, left.DataType, right.DataType)
		return typeval.ErrorValue(kind)
	}
	if op == "/" {
		// Division routes through a dialect `div` fragment rather than a
		// raw `/` so each dialect writer can decide how to guard against
		// division by zero (spec.md §4.3, §8 boundary behavior).
		return typeval.ExprValue{
			DataType:       typeval.TypeNumber,
			ExpressionType: kind,
			EvalSpace:      space,
			Value:          typeval.Call("div", left.Value, right.Value),
		}
	}
	return typeval.ExprValue{
		DataType:       typeval.TypeNumber,
		ExpressionType: kind,
		EvalSpace:      space,
		Value:          typeval.Call(op, left.Value, right.Value),
	}
}
