package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/pipeline"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

func baseInput() *schema.StructDef {
	return &schema.StructDef{Name: "orders"}
}

func TestNextStructDefReduceProjectsSelectedFieldsOnly(t *testing.T) {
	seg := &schema.ReduceSegment{
		Fields: []schema.SelectedField{
			{Name: "state", Expr: typeval.ExprValue{DataType: typeval.TypeString}},
			{Name: "total", Expr: typeval.ExprValue{DataType: typeval.TypeNumber}},
		},
	}
	out := pipeline.NextStructDef(baseInput(), seg)
	require.Len(t, out.Fields, 2)
	require.Equal(t, schema.RelationshipNested, out.StructRelationship)
	require.Equal(t, "orders", out.Name)
}

func TestNextStructDefReduceAppendsExtendSource(t *testing.T) {
	seg := &schema.ReduceSegment{
		ExtendSource: []schema.FieldDef{schema.AtomicFieldDef{Name: "derived", Type: typeval.TypeNumber}},
	}
	out := pipeline.NextStructDef(baseInput(), seg)
	require.Len(t, out.Fields, 1)
}

func TestNextStructDefIndexProducesFixedFourColumnShape(t *testing.T) {
	out := pipeline.NextStructDef(baseInput(), &schema.IndexSegment{})
	require.Len(t, out.Fields, 4)
	names := make([]string, len(out.Fields))
	for i, f := range out.Fields {
		names[i] = f.(schema.AtomicFieldDef).Name
	}
	require.Equal(t, []string{"fieldName", "fieldValue", "fieldType", "weight"}, names)
}
