package ast

// Source is implemented by every source-AST variant (table/sql/named/
// query/refined-explore).
type Source interface {
	Node
	source()
}

type sourceBase struct{ BaseNode }

func (sourceBase) source() {}

// TableSource is `table('name')`.
type TableSource struct {
	sourceBase
	Name string
}

func NewTableSource(doc *Document, pos Position, name string) *TableSource {
	return &TableSource{sourceBase{BaseNode{NodeTableSource, pos, doc}}, name}
}

func (t *TableSource) String() string { return "table('" + t.Name + "')" }

// SQLSource is `from_sql('name')`.
type SQLSource struct {
	sourceBase
	Name string
}

func NewSQLSource(doc *Document, pos Position, name string) *SQLSource {
	return &SQLSource{sourceBase{BaseNode{NodeSQLSource, pos, doc}}, name}
}

func (s *SQLSource) String() string { return "from_sql('" + s.Name + "')" }

// ParamValue is one `p is expr` binding passed when invoking a
// parameterized named source.
type ParamValue struct {
	Name string
	Expr Expression
}

// NamedSource is a reference to a named model entry, optionally invoked
// with parameter bindings: `s(p is @2020-01-01)`.
type NamedSource struct {
	sourceBase
	Ref    string
	Params []ParamValue
}

func NewNamedSource(doc *Document, pos Position, ref string, params []ParamValue) *NamedSource {
	return &NamedSource{sourceBase{BaseNode{NodeNamedSource, pos, doc}}, ref, params}
}

func (n *NamedSource) String() string { return n.Ref }

// QuerySource is `from(query)`: an inline query used as a source.
type QuerySource struct {
	sourceBase
	Query *Query
}

func NewQuerySource(doc *Document, pos Position, q *Query) *QuerySource {
	return &QuerySource{sourceBase{BaseNode{NodeQuerySource, pos, doc}}, q}
}

func (q *QuerySource) String() string { return "from(query)" }

// ExploreProperty is implemented by every element that can appear inside a
// RefinedExplore body (primary_key, accept/except, join, declare, turtle,
// rename, filter, parameter defaults).
type ExploreProperty interface {
	Node
	exploreProperty()
}

type explorePropBase struct{ BaseNode }

func (explorePropBase) exploreProperty() {}

// PrimaryKeyProp is `primary_key: name`.
type PrimaryKeyProp struct {
	explorePropBase
	Field string
}

func NewPrimaryKeyProp(doc *Document, pos Position, field string) *PrimaryKeyProp {
	return &PrimaryKeyProp{explorePropBase{BaseNode{NodePrimaryKey, pos, doc}}, field}
}

func (p *PrimaryKeyProp) String() string { return "primary_key: " + p.Field }

// FieldListEditKind distinguishes accept from except.
type FieldListEditKind int

const (
	FieldListAccept FieldListEditKind = iota
	FieldListExcept
)

// FieldListEditProp is `accept: a, b` or `except: a, b`.
type FieldListEditProp struct {
	explorePropBase
	Kind   FieldListEditKind
	Fields []string
}

func NewFieldListEditProp(doc *Document, pos Position, kind FieldListEditKind, fields []string) *FieldListEditProp {
	return &FieldListEditProp{explorePropBase{BaseNode{NodeFieldListEdit, pos, doc}}, kind, fields}
}

func (f *FieldListEditProp) String() string {
	if f.Kind == FieldListAccept {
		return "accept"
	}
	return "except"
}

// RenameProp is `rename: new_name is old_name`.
type RenameProp struct {
	explorePropBase
	NewName string
	OldName string
}

func NewRenameProp(doc *Document, pos Position, newName, oldName string) *RenameProp {
	return &RenameProp{explorePropBase{BaseNode{NodeRename, pos, doc}}, newName, oldName}
}

func (r *RenameProp) String() string { return "rename: " + r.NewName + " is " + r.OldName }

// TurtleDefProp is `name is { ... }`: a named query defined as a field.
type TurtleDefProp struct {
	explorePropBase
	Name     string
	Pipeline *Pipeline
}

func NewTurtleDefProp(doc *Document, pos Position, name string, p *Pipeline) *TurtleDefProp {
	return &TurtleDefProp{explorePropBase{BaseNode{NodeTurtleDef, pos, doc}}, name, p}
}

func (t *TurtleDefProp) String() string { return t.Name + " is {...}" }

// ParameterDeclProp declares a value or condition parameter on a source.
type ParameterDeclProp struct {
	explorePropBase
	Name      string
	TypeName  string
	Condition bool // true for a condition parameter
	Default   Expression
	Constant  bool
}

func NewParameterDeclProp(doc *Document, pos Position, name, typeName string, condition bool, def Expression, constant bool) *ParameterDeclProp {
	return &ParameterDeclProp{explorePropBase{BaseNode{NodeParameterDecl, pos, doc}}, name, typeName, condition, def, constant}
}

func (p *ParameterDeclProp) String() string { return p.Name + "::" + p.TypeName }

// RefinedExplore clones a source and overlays ExploreProperty edits.
type RefinedExplore struct {
	sourceBase
	Base       Source
	Properties []ExploreProperty
}

func NewRefinedExplore(doc *Document, pos Position, base Source, props []ExploreProperty) *RefinedExplore {
	return &RefinedExplore{sourceBase{BaseNode{NodeRefinedExplore, pos, doc}}, base, props}
}

func (r *RefinedExplore) String() string { return "explore" }
