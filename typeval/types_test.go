package typeval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/typeval"
)

func TestMaxExpressionType(t *testing.T) {
	cases := []struct {
		name     string
		a, b     typeval.ExpressionKind
		want     typeval.ExpressionKind
	}{
		{"scalar/scalar", typeval.KindScalar, typeval.KindScalar, typeval.KindScalar},
		{"scalar/aggregate", typeval.KindScalar, typeval.KindAggregate, typeval.KindAggregate},
		{"aggregate/analytic", typeval.KindAggregate, typeval.KindAnalytic, typeval.KindAnalytic},
		{"analytic/ungrouped dominates", typeval.KindAnalytic, typeval.KindUngroupedAggregate, typeval.KindUngroupedAggregate},
		{"ungrouped dominates scalar", typeval.KindUngroupedAggregate, typeval.KindScalar, typeval.KindUngroupedAggregate},
		{"commutes", typeval.KindAggregate, typeval.KindScalar, typeval.KindAggregate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, typeval.MaxExpressionType(c.a, c.b))
		})
	}
}

func TestMaxOfExpressionTypesEmptyDefaultsScalar(t *testing.T) {
	require.Equal(t, typeval.KindScalar, typeval.MaxOfExpressionTypes())
}

func TestMergeEvalSpacesCommutes(t *testing.T) {
	require.Equal(t, typeval.SpaceOutput, typeval.MergeEvalSpaces(typeval.SpaceConstant, typeval.SpaceOutput))
	require.Equal(t, typeval.SpaceOutput, typeval.MergeEvalSpaces(typeval.SpaceOutput, typeval.SpaceConstant))
	require.Equal(t, typeval.SpaceInput, typeval.MergeEvalSpaces(typeval.SpaceInput, typeval.SpaceLiteral))
}

func TestTypeEqDoesNotAliasDateAndTimestamp(t *testing.T) {
	require.False(t, typeval.TypeEq(typeval.TypeDate, typeval.TypeTimestamp))
	require.True(t, typeval.TypeEq(typeval.TypeDate, typeval.TypeDate))
}

func TestIn(t *testing.T) {
	require.True(t, typeval.In(typeval.TypeNumber, typeval.TypeString, typeval.TypeNumber))
	require.False(t, typeval.In(typeval.TypeBoolean, typeval.TypeString, typeval.TypeNumber))
}

func TestAtomicFieldTypeString(t *testing.T) {
	require.Equal(t, "number", typeval.TypeNumber.String())
	require.Equal(t, "unknown", typeval.AtomicFieldType(99).String())
}
