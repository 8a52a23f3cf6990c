package eval

import "github.com/fzakaria/malloy/typeval"

// functionKind classifies the built-in functions a FunctionCall may name,
// grounded on the teacher's per-dialect FunctionSignatures table
// (functionsigs.go): SUM/AVG/COUNT/MIN/MAX are its aggregate entries,
// ROW_NUMBER/RANK/DENSE_RANK/LEAD/LAG/FIRST_VALUE/LAST_VALUE are its window
// entries, everything else in that table is scalar.
var functionKind = map[string]typeval.ExpressionKind{
	"sum":   typeval.KindAggregate,
	"avg":   typeval.KindAggregate,
	"count": typeval.KindAggregate,
	"min":   typeval.KindAggregate,
	"max":   typeval.KindAggregate,

	"row_number":  typeval.KindAnalytic,
	"rank":        typeval.KindAnalytic,
	"dense_rank":  typeval.KindAnalytic,
	"lead":        typeval.KindAnalytic,
	"lag":         typeval.KindAnalytic,
	"first_value": typeval.KindAnalytic,
	"last_value":  typeval.KindAnalytic,
}

// classifyFunction returns the ExpressionKind a named function call
// computes; unrecognized names default to scalar (ordinary scalar builtins
// such as coalesce, upper, trim, substring, date_add all fall through here).
func classifyFunction(name string) typeval.ExpressionKind {
	if k, ok := functionKind[name]; ok {
		return k
	}
	return typeval.KindScalar
}
