package fieldspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

func TestReduceFieldSpaceAllowsAnyKindAndTurtles(t *testing.T) {
	rs := fieldspace.NewReduceFieldSpace(&schema.StructDef{Name: "orders"}, nil)
	ok, _ := rs.CanContain(typeval.KindAggregate, true)
	require.True(t, ok)
}

func TestProjectFieldSpaceRejectsAggregatesAndTurtles(t *testing.T) {
	ps := fieldspace.NewProjectFieldSpace(&schema.StructDef{Name: "orders"}, nil)

	ok, msg := ps.CanContain(typeval.KindAggregate, false)
	require.False(t, ok)
	require.Contains(t, msg, "aggregate")

	ok, msg = ps.CanContain(typeval.KindScalar, true)
	require.False(t, ok)
	require.Contains(t, msg, "nested")

	ok, _ = ps.CanContain(typeval.KindScalar, false)
	require.True(t, ok)
}

func TestIndexFieldSpaceAddNameDedupesPreservingOrder(t *testing.T) {
	idx := fieldspace.NewIndexFieldSpace(&schema.StructDef{Name: "orders"}, nil)
	idx.AddName("a")
	idx.AddName("b")
	idx.AddName("a")
	require.Equal(t, []string{"a", "b"}, idx.Names())
}
