// Package pipeline implements the pipeline composer: it drives the
// segment executors across a QOPDesc chain, threads the output struct of
// each segment into the next, and handles head-turtle refinement
// (spec.md §4.5).
package pipeline

import (
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// NextStructDef computes the StructDef produced by running segment against
// input. Treated as a pure, black-box function per spec.md §4.5/§6: segment
// executors never reach into this directly, the composer calls it once
// per appended segment.
func NextStructDef(input *schema.StructDef, seg schema.PipeSegment) *schema.StructDef {
	switch s := seg.(type) {
	case *schema.ReduceSegment:
		return selectedStructDef(input, s.Fields, s.ExtendSource)
	case *schema.ProjectSegment:
		return selectedStructDef(input, s.Fields, s.ExtendSource)
	case *schema.IndexSegment:
		return indexStructDef(input)
	default:
		return input
	}
}

func selectedStructDef(input *schema.StructDef, fields []schema.SelectedField, extend []schema.FieldDef) *schema.StructDef {
	out := &schema.StructDef{
		Name:               input.Name,
		Dialect:            input.Dialect,
		StructRelationship: schema.RelationshipNested,
	}
	for _, f := range fields {
		out.Fields = append(out.Fields, schema.AtomicFieldDef{Name: f.Name, Type: f.Expr.DataType})
	}
	out.Fields = append(out.Fields, extend...)
	return out
}

// indexStructDef is the fixed four-column row shape every index segment
// produces: one row per indexed field/value pair.
func indexStructDef(input *schema.StructDef) *schema.StructDef {
	return &schema.StructDef{
		Name:               input.Name,
		Dialect:            input.Dialect,
		StructRelationship: schema.RelationshipNested,
		Fields: []schema.FieldDef{
			schema.AtomicFieldDef{Name: "fieldName", Type: typeval.TypeString},
			schema.AtomicFieldDef{Name: "fieldValue", Type: typeval.TypeString},
			schema.AtomicFieldDef{Name: "fieldType", Type: typeval.TypeString},
			schema.AtomicFieldDef{Name: "weight", Type: typeval.TypeNumber},
		},
	}
}
