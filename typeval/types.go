// Package typeval defines the type and value vocabulary shared by every
// downstream package: atomic field types, expression kinds, the eval-space
// lattice, granularity units, and the ExprValue tuple carried through
// expression evaluation (spec.md §4.1).
package typeval

// AtomicFieldType is the set of scalar column/value types a Malloy field
// or expression can have.
type AtomicFieldType int

const (
	TypeUnknown AtomicFieldType = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeDate
	TypeTimestamp
	TypeRegex
	TypeNull
	TypeUnsupported
	TypeDuration
	TypeError
)

func (t AtomicFieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	case TypeRegex:
		return "regular expression"
	case TypeNull:
		return "null"
	case TypeUnsupported:
		return "unsupported"
	case TypeDuration:
		return "duration"
	case TypeError:
		return "error"
	default:
		return "unknown"
	}
}

// TypeEq reports whether two atomic types are the same, with the
// dealiasing spec.md calls for: date and timestamp are distinct base
// types here, morphing between them happens in the evaluator instead.
func TypeEq(a, b AtomicFieldType) bool { return a == b }

// In reports whether value is one of allowed.
func In(value AtomicFieldType, allowed ...AtomicFieldType) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// ExpressionKind classifies what "flavor" of computation an expression
// performs: scalar row-level, aggregate across a group, analytic (window)
// or ungrouped-aggregate (exclude()/all()).
type ExpressionKind int

const (
	KindScalar ExpressionKind = iota
	KindAggregate
	KindAnalytic
	KindUngroupedAggregate
)

func (k ExpressionKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindAggregate:
		return "aggregate"
	case KindAnalytic:
		return "analytic"
	case KindUngroupedAggregate:
		return "ungrouped_aggregate"
	default:
		return "scalar"
	}
}

// rank orders ExpressionKind along the max-lattice described in spec.md
// §4.1: scalar < aggregate < analytic < ungrouped_aggregate, except that
// ungrouped_aggregate dominates everything it is combined with.
func rank(k ExpressionKind) int {
	switch k {
	case KindScalar:
		return 0
	case KindAggregate:
		return 1
	case KindAnalytic:
		return 2
	case KindUngroupedAggregate:
		return 3
	default:
		return 0
	}
}

// MaxExpressionType returns the most-derived of a and b along the
// calculation-kind lattice: mixing scalar with aggregate gives aggregate;
// aggregate with analytic gives analytic; any with ungrouped_aggregate
// gives ungrouped_aggregate.
func MaxExpressionType(a, b ExpressionKind) ExpressionKind {
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// MaxOfExpressionTypes folds MaxExpressionType over a slice, defaulting to
// scalar for an empty slice.
func MaxOfExpressionTypes(kinds ...ExpressionKind) ExpressionKind {
	out := KindScalar
	for _, k := range kinds {
		out = MaxExpressionType(out, k)
	}
	return out
}

// EvalSpace is the scope in which a value can be evaluated.
type EvalSpace int

const (
	SpaceConstant EvalSpace = iota
	SpaceLiteral
	SpaceInput
	SpaceOutput
)

func (s EvalSpace) String() string {
	switch s {
	case SpaceConstant:
		return "constant"
	case SpaceLiteral:
		return "literal"
	case SpaceInput:
		return "input"
	case SpaceOutput:
		return "output"
	default:
		return "constant"
	}
}

func spaceRank(s EvalSpace) int {
	switch s {
	case SpaceConstant:
		return 0
	case SpaceLiteral:
		return 1
	case SpaceInput:
		return 2
	case SpaceOutput:
		return 3
	default:
		return 0
	}
}

// MergeEvalSpaces returns the max of a and b along the eval-space lattice
// (constant < literal < input < output); the most-derived space wins and
// the operation commutes: MergeEvalSpaces(a,b) == MergeEvalSpaces(b,a).
func MergeEvalSpaces(a, b EvalSpace) EvalSpace {
	if spaceRank(a) >= spaceRank(b) {
		return a
	}
	return b
}
