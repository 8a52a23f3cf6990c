// Package schema defines the canonical, post-compilation model: StructDef
// (a table-like relational schema), its FieldDefs, Parameters, and the
// PipeSegment/Pipeline/Query tree a downstream per-dialect SQL writer
// consumes (spec.md §3).
package schema

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/typeval"
)

// StructSourceKind tags where a StructDef's rows come from.
type StructSourceKind int

const (
	StructSourceTable StructSourceKind = iota
	StructSourceSQL
	StructSourceQuery
	StructSourceNested
)

// StructRelationshipKind tags how a StructDef relates to its parent, when
// it is a join or nested field rather than a base table.
type StructRelationshipKind int

const (
	RelationshipBaseTable StructRelationshipKind = iota
	RelationshipJoin
	RelationshipNested
	RelationshipInline
)

// StructSource records provenance for a StructDef.
type StructSource struct {
	Kind  StructSourceKind
	Query *Query // set when Kind == StructSourceQuery
}

// StructDef is a table-like relational schema: the output of source
// resolution and of every pipeline segment.
type StructDef struct {
	Name             string
	Dialect          string
	Fields           []FieldDef
	Parameters       []*Parameter
	FilterList       []Filter
	PrimaryKey       string // "" if unset
	StructSource     StructSource
	StructRelationship StructRelationshipKind
	Location         *ast.Position
}

// FieldByName returns the field with the given output name, ok=false if
// absent. Output names are unique within a StructDef per spec.md's
// invariant.
func (s *StructDef) FieldByName(name string) (FieldDef, bool) {
	for _, f := range s.Fields {
		if f.OutputName() == name {
			return f, true
		}
	}
	return nil, false
}

// FieldDef is implemented by every kind of column a StructDef can carry:
// an atomic column, a nested struct (join), or a turtle (named query).
type FieldDef interface {
	OutputName() string
	fieldDef()
}

// AtomicFieldDef is a plain scalar/typed column.
type AtomicFieldDef struct {
	Name string
	Type typeval.AtomicFieldType
}

func (f AtomicFieldDef) OutputName() string { return f.Name }
func (AtomicFieldDef) fieldDef()             {}

// JoinFieldDef is a nested StructDef reachable by name (a join).
type JoinFieldDef struct {
	Name   string
	Struct *StructDef
	Many   bool // join_many vs join_one
}

func (f JoinFieldDef) OutputName() string { return f.Name }
func (JoinFieldDef) fieldDef()             {}

// TurtleFieldDef is a named query defined as a field of a source.
type TurtleFieldDef struct {
	Name     string
	Pipeline *Pipeline
}

func (f TurtleFieldDef) OutputName() string { return f.Name }
func (TurtleFieldDef) fieldDef()             {}

// Filter is one boolean condition attached to a StructDef or PipeSegment.
type Filter struct {
	Expr typeval.ExprValue
}

// OrderByItem is one entry of a finalized ORDER BY.
type OrderByItem struct {
	FieldName string
	Desc      bool
}
