package fieldspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

func ordersStruct() *schema.StructDef {
	custs := &schema.StructDef{
		Name: "customers",
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "id", Type: typeval.TypeNumber},
			schema.AtomicFieldDef{Name: "name", Type: typeval.TypeString},
		},
	}
	return &schema.StructDef{
		Name: "orders",
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "id", Type: typeval.TypeNumber},
			schema.AtomicFieldDef{Name: "amount", Type: typeval.TypeNumber},
			schema.JoinFieldDef{Name: "customer", Struct: custs, Many: false},
		},
	}
}

func TestStaticSpaceLookupLeafField(t *testing.T) {
	ss := fieldspace.NewStaticSpace(ordersStruct())
	res := ss.Lookup([]string{"amount"})
	require.True(t, res.Found)
	col, ok := res.Entry.(*fieldspace.ColumnSpaceField)
	require.True(t, ok)
	require.Equal(t, "amount", col.EntryName())
}

func TestStaticSpaceLookupThroughJoin(t *testing.T) {
	ss := fieldspace.NewStaticSpace(ordersStruct())
	res := ss.Lookup([]string{"customer", "name"})
	require.True(t, res.Found)
	col, ok := res.Entry.(*fieldspace.ColumnSpaceField)
	require.True(t, ok)
	require.Equal(t, "name", col.EntryName())
}

func TestStaticSpaceLookupMissingSuggestsTypo(t *testing.T) {
	ss := fieldspace.NewStaticSpace(ordersStruct())
	res := ss.Lookup([]string{"amoun"})
	require.False(t, res.Found)
	require.Contains(t, res.Error, "did you mean 'amount'")
}

func TestStaticSpaceLookupThroughNonStructFails(t *testing.T) {
	ss := fieldspace.NewStaticSpace(ordersStruct())
	res := ss.Lookup([]string{"amount", "cents"})
	require.False(t, res.Found)
	require.Contains(t, res.Error, "cannot contain")
}

func TestStaticSpaceWhenCompleteRunsImmediately(t *testing.T) {
	ss := fieldspace.NewStaticSpace(ordersStruct())
	ran := false
	ss.WhenComplete(func() { ran = true })
	require.True(t, ran)
}
