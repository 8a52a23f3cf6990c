package fieldspace_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// nestedQuerySpaces builds an outer ReduceFieldSpace (simulating a segment
// that has already selected `state` into its output) and an inner
// QuerySpace nested under it, mirroring how segment.addNest wires a nest's
// inner QuerySpace against its parent (spec.md §4.2, §8 scenario 6).
func nestedQuerySpaces(t *testing.T) (*fieldspace.ReduceFieldSpace, *fieldspace.QuerySpace) {
	t.Helper()
	input := &schema.StructDef{
		Name: "orders",
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "state", Type: typeval.TypeString},
			schema.AtomicFieldDef{Name: "city", Type: typeval.TypeString},
		},
	}
	outer := fieldspace.NewReduceFieldSpace(input, nil)
	require.NoError(t, outer.AddField("state", fieldspace.NewColumnEntry(schema.AtomicFieldDef{Name: "state", Type: typeval.TypeString})))

	inner := fieldspace.NewQuerySpace(input, outer.ExprSpace)
	return outer, inner
}

func TestCheckUngroupNamePassesWhenNameInOuterOutput(t *testing.T) {
	outer, inner := nestedQuerySpaces(t)

	var msg string
	inner.CheckUngroupName("state", func(m string, args ...any) { msg = fmt.Sprintf(m, args...) })
	outer.StructDef() // forces finalize, draining the deferred check

	require.Empty(t, msg)
}

func TestCheckUngroupNameFailsWhenNameMissingFromOuterOutput(t *testing.T) {
	outer, inner := nestedQuerySpaces(t)

	var msg string
	inner.CheckUngroupName("region", func(m string, args ...any) { msg = fmt.Sprintf(m, args...) })
	outer.StructDef()

	require.Equal(t, "exclude() 'region' is missing from query output", msg)
}

func TestCheckUngroupNameNoopWithoutNestParent(t *testing.T) {
	top := fieldspace.NewQuerySpace(&schema.StructDef{Name: "orders"}, nil)
	calls := 0
	top.CheckUngroupName("anything", func(string, ...any) { calls++ })
	require.Equal(t, 0, calls)
}
