package typeval

// Fragment is an opaque plan fragment: a small Op-tagged tree a downstream
// per-dialect SQL writer pattern-matches on. Grounded on the teacher's
// Op-tagged Instruction shape (intermediate/intermediate_format.go) — this
// core never renders SQL text, it only builds the tagged tree.
type Fragment struct {
	Op      string
	Literal string     // for Op=="literal"
	Args    []*Fragment
}

// Lit builds a literal plan fragment.
func Lit(value string) *Fragment { return &Fragment{Op: "literal", Literal: value} }

// Call builds an Op-tagged fragment over child fragments.
func Call(op string, args ...*Fragment) *Fragment { return &Fragment{Op: op, Args: args} }

// CastTo builds a `castTo(type, value, safe)`-shaped fragment: a plan-level
// type cast of value to target, safe indicating whether the cast is a
// non-failing widen (e.g. parameter-binding coercion) versus a narrowing
// cast that can error at runtime.
func CastTo(target AtomicFieldType, value *Fragment, safe bool) *Fragment {
	safeLit := "false"
	if safe {
		safeLit = "true"
	}
	return Call("cast", Lit(target.String()), value, Lit(safeLit))
}

// ErrFragment is the sentinel plan fragment substituted for an
// un-renderable operand (e.g. an unsupported-type operand used illegally);
// it renders as an opaque "error" marker downstream rather than SQL.
var ErrFragment = &Fragment{Op: "error"}

// Morphic is the alternate-type rendering sidecar on an ExprValue: e.g. a
// date value's companion timestamp rendering, consulted when the other
// operand of a binary operation demands a different type (spec.md §4.3).
type Morphic map[AtomicFieldType]*Fragment

// ExprValue is the typed plan fragment produced for every expression AST
// node by the evaluator (spec.md §4.1).
type ExprValue struct {
	DataType       AtomicFieldType
	ExpressionType ExpressionKind
	EvalSpace      EvalSpace
	Value          *Fragment
	Morphic        Morphic
	Granularity    *Granularity
}

// IsError reports whether this value is the error sentinel.
func (v ExprValue) IsError() bool { return v.DataType == TypeError }

// IsGranular reports whether this value carries a truncation unit.
func (v ExprValue) IsGranular() bool { return v.Granularity != nil && v.Granularity.Unit != TimeframeNone }

// Morph returns the fragment rendering this value as target type, either
// the value itself (if already that type) or a morphic sidecar rendering,
// ok=false if no rendering is available.
func (v ExprValue) Morph(target AtomicFieldType) (*Fragment, bool) {
	if v.DataType == target {
		return v.Value, true
	}
	if v.Morphic != nil {
		if f, ok := v.Morphic[target]; ok {
			return f, true
		}
	}
	return nil, false
}

// ErrorValue builds an error-typed ExprValue. Per the error-cascade policy
// (spec.md §4.3/§7), the expressionType is the max of any input kinds so a
// cascading use sees the right calculation-kind without emitting another
// diagnostic.
func ErrorValue(kinds ...ExpressionKind) ExprValue {
	return ExprValue{
		DataType:       TypeError,
		ExpressionType: MaxOfExpressionTypes(kinds...),
		EvalSpace:      SpaceConstant,
		Value:          ErrFragment,
	}
}

// BoolValue builds a plain scalar boolean ExprValue from a pre-built
// fragment, merging expression-kind/eval-space from its operands.
func BoolValue(frag *Fragment, kind ExpressionKind, space EvalSpace) ExprValue {
	return ExprValue{DataType: TypeBoolean, ExpressionType: kind, EvalSpace: space, Value: frag}
}
