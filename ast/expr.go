package ast

// Expression is implemented by every expression-AST node variant. Apply is
// the overridable hook from spec.md §4.3 that lets nodes such as Duration
// or Alternation rewrite how a binary operator applies to them (e.g.
// `x > 3` applied inside an alternation of `x`).
type Expression interface {
	Node
	Apply(fs Evaluator, op string, left Expression) Expression
}

// Evaluator is the minimal surface the eval package exposes back into ast
// so Expression.Apply implementations can recurse without an import cycle.
type Evaluator interface {
	EvalLocation() Position
}

// exprBase gives every expression node a default Apply that returns nil,
// meaning the node does not rewrite the operator application.
type exprBase struct {
	BaseNode
}

func (e exprBase) Apply(_ Evaluator, _ string, _ Expression) Expression { return nil }

// Literal is a constant scalar (string/number/boolean/date/timestamp/null).
type Literal struct {
	exprBase
	Kind  string // "string" | "number" | "boolean" | "date" | "timestamp" | "null" | "regex"
	Value string
}

func NewLiteral(doc *Document, pos Position, kind, value string) *Literal {
	return &Literal{exprBase{BaseNode{NodeLiteral, pos, doc}}, kind, value}
}
func (l *Literal) String() string { return l.Value }

// FieldRef is a (possibly dotted) name lookup, e.g. `state` or `a.b.c`.
type FieldRef struct {
	exprBase
	Path []string
}

func NewFieldRef(doc *Document, pos Position, path []string) *FieldRef {
	return &FieldRef{exprBase{BaseNode{NodeFieldRef, pos, doc}}, path}
}
func (f *FieldRef) String() string { return joinDots(f.Path) }
func (f *FieldRef) indexMember()   {}

func joinDots(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// BinaryOp is `left op right`.
type BinaryOp struct {
	exprBase
	Op    string
	Left  Expression
	Right Expression
}

func NewBinaryOp(doc *Document, pos Position, op string, left, right Expression) *BinaryOp {
	return &BinaryOp{exprBase{BaseNode{NodeBinaryOp, pos, doc}}, op, left, right}
}
func (b *BinaryOp) String() string { return b.Left.String() + " " + b.Op + " " + b.Right.String() }

// Apply lets `x > 3` rewrite itself when applied inside an alternation of
// `x` (spec.md §4.3): the incoming left operand replaces this node's own
// left operand, producing a fresh comparison.
func (b *BinaryOp) Apply(_ Evaluator, op string, left Expression) Expression {
	return NewBinaryOp(b.Doc, b.Pos, op, left, b.Right)
}

// UnaryOp is `op operand` (e.g. `not x`).
type UnaryOp struct {
	exprBase
	Op      string
	Operand Expression
}

func NewUnaryOp(doc *Document, pos Position, op string, operand Expression) *UnaryOp {
	return &UnaryOp{exprBase{BaseNode{NodeUnaryOp, pos, doc}}, op, operand}
}
func (u *UnaryOp) String() string { return u.Op + " " + u.Operand.String() }

// Duration is a scalar quantity with a timeframe unit, e.g. `3 days`.
type Duration struct {
	exprBase
	Amount    Expression
	Timeframe string
}

func NewDuration(doc *Document, pos Position, amount Expression, timeframe string) *Duration {
	return &Duration{exprBase{BaseNode{NodeDuration, pos, doc}}, amount, timeframe}
}
func (d *Duration) String() string { return d.Amount.String() + " " + d.Timeframe }

// Apply rewrites a partial comparison applied to a duration, e.g. so
// `now.month` style granular offsets can recompute their own application.
func (d *Duration) Apply(_ Evaluator, op string, left Expression) Expression {
	return NewBinaryOp(d.Doc, d.Pos, op, left, d)
}

// FunctionCall is `name(args...)`.
type FunctionCall struct {
	exprBase
	Name string
	Args []Expression
}

func NewFunctionCall(doc *Document, pos Position, name string, args []Expression) *FunctionCall {
	return &FunctionCall{exprBase{BaseNode{NodeFunctionCall, pos, doc}}, name, args}
}
func (f *FunctionCall) String() string { return f.Name + "(...)" }

// Alternation is a parenthesized `|`-joined set of partial expressions
// (`x > 3 | x < 1`) each of which will have `op`/`left` threaded through
// its Apply hook.
type Alternation struct {
	exprBase
	Members []Expression
}

func NewAlternation(doc *Document, pos Position, members []Expression) *Alternation {
	return &Alternation{exprBase{BaseNode{NodeAlternation, pos, doc}}, members}
}
func (a *Alternation) String() string { return "(alternation)" }

func (a *Alternation) Apply(fs Evaluator, op string, left Expression) Expression {
	applied := make([]Expression, len(a.Members))
	for i, m := range a.Members {
		applied[i] = m.Apply(fs, op, left)
	}
	return NewAlternation(a.Doc, a.Pos, applied)
}

// ExcludeRef is `exclude(name, ...)` used inside a nested query to remove
// names from the ungrouped-aggregate computation context.
type ExcludeRef struct {
	exprBase
	Names []string
}

func NewExcludeRef(doc *Document, pos Position, names []string) *ExcludeRef {
	return &ExcludeRef{exprBase{BaseNode{NodeExcludeRef, pos, doc}}, names}
}
func (e *ExcludeRef) String() string { return "exclude(...)" }

// AllRef is `all()`/`all(name,...)`, the full-ungrouping counterpart of
// ExcludeRef.
type AllRef struct {
	exprBase
	Names []string
}

func NewAllRef(doc *Document, pos Position, names []string) *AllRef {
	return &AllRef{exprBase{BaseNode{NodeAllRef, pos, doc}}, names}
}
func (a *AllRef) String() string { return "all(...)" }
