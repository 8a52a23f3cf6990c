package fieldspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

func TestDefSpaceDetectsCircularReference(t *testing.T) {
	inner := fieldspace.NewStaticSpace(&schema.StructDef{
		Fields: []schema.FieldDef{schema.AtomicFieldDef{Name: "total_amount", Type: typeval.TypeNumber}},
	})
	ds := fieldspace.NewDefSpace(inner, "total_amount")

	res := ds.Lookup([]string{"total_amount"})
	require.False(t, res.Found)
	require.Contains(t, res.Error, "Circular reference")
	require.True(t, ds.HitCircular())
}

func TestDefSpacePassesThroughUnrelatedLookups(t *testing.T) {
	inner := fieldspace.NewStaticSpace(&schema.StructDef{
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "total_amount", Type: typeval.TypeNumber},
			schema.AtomicFieldDef{Name: "qty", Type: typeval.TypeNumber},
		},
	})
	ds := fieldspace.NewDefSpace(inner, "total_amount")

	res := ds.Lookup([]string{"qty"})
	require.True(t, res.Found)
	require.False(t, ds.HitCircular())
}
