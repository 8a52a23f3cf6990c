package schema

import "github.com/fzakaria/malloy/typeval"

// Parameter is either a value parameter or a condition parameter
// (spec.md §3). Required when declared without a default; overridable via
// an `is`-block unless marked constant.
type Parameter struct {
	Name      string
	Type      typeval.AtomicFieldType
	Condition bool // true for a condition parameter

	// Value parameter fields.
	Value    *typeval.ExprValue // nil if no default and not yet bound
	Constant bool

	// Condition parameter fields: the bound/default condition, produced by
	// constantCondition(declType) when unbound.
	ConditionExpr *typeval.ExprValue
}

// Satisfied reports whether this parameter has a usable value: bound or
// defaulted.
func (p *Parameter) Satisfied() bool {
	if p.Condition {
		return p.ConditionExpr != nil
	}
	return p.Value != nil
}
