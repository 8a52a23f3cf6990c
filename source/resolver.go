package source

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/errs"
	"github.com/fzakaria/malloy/eval"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// QueryCompiler compiles an inline query (QuerySource) into a schema.Query;
// a function-type hook so this package doesn't import pipeline/compiler and
// create a cycle back through segment's own SourceResolver hook.
type QueryCompiler func(q *ast.Query) (*schema.Query, error)

// Resolver implements segment.SourceResolver (its Resolve method has that
// exact signature) by dispatching on the concrete ast.Source variant
// (spec.md §4.6).
type Resolver struct {
	Tables      SchemaZone
	SQLBlocks   SchemaZone
	Env         ModelEnvironment
	CompileQuery QueryCompiler
}

// NewResolver builds a Resolver; CompileQuery may be set after construction
// since QuerySource resolution is rarely exercised in a simple pipeline.
func NewResolver(tables, sqlBlocks SchemaZone, env ModelEnvironment) *Resolver {
	return &Resolver{Tables: tables, SQLBlocks: sqlBlocks, Env: env}
}

func logNode(n ast.Node, msg string, args ...any) {
	if logger, ok := n.(ast.Logger); ok {
		logger.Log(msg, args...)
	}
}

// Resolve dispatches src to the matching resolution function.
func (r *Resolver) Resolve(src ast.Source) (*schema.StructDef, error) {
	switch s := src.(type) {
	case *ast.TableSource:
		return r.resolveTable(s), nil
	case *ast.SQLSource:
		return r.resolveSQL(s), nil
	case *ast.NamedSource:
		return r.resolveNamed(s), nil
	case *ast.QuerySource:
		return r.resolveQuery(s), nil
	case *ast.RefinedExplore:
		return r.resolveRefinedExplore(s), nil
	default:
		logNode(src, "unrecognized source node")
		return errs.StructDef(), nil
	}
}

func (r *Resolver) resolveTable(t *ast.TableSource) *schema.StructDef {
	entry := r.Tables.GetEntry(t.Name)
	switch entry.Status {
	case ZonePresent:
		loc := t.Position()
		sd := *entry.Value
		sd.Location = &loc
		return &sd
	case ZoneError:
		t.Log("%s", entry.Message)
		return errs.StructDef()
	default:
		t.Log("schema read failure for table '%s'", t.Name)
		return errs.StructDef()
	}
}

func (r *Resolver) resolveSQL(s *ast.SQLSource) *schema.StructDef {
	entry := r.SQLBlocks.GetEntry(s.Name)
	switch entry.Status {
	case ZonePresent:
		loc := s.Position()
		sd := *entry.Value
		sd.Location = &loc
		return &sd
	case ZoneError:
		s.Log("%s", entry.Message)
		return errs.StructDef()
	default:
		s.Log("schema read failure for sql block '%s'", s.Name)
		return errs.StructDef()
	}
}

func (r *Resolver) resolveNamed(n *ast.NamedSource) *schema.StructDef {
	entry, ok := r.Env.ModelEntry(n.Ref)
	if !ok {
		n.Log("undefined source '%s'", n.Ref)
		return errs.StructDef()
	}
	switch entry.Kind {
	case ModelEntryQuery:
		n.Log("'%s' is a query; use from() to use it as a source", n.Ref)
		return errs.StructDef()
	case ModelEntrySQL:
		n.Log("'%s' is a sql block; use from_sql() to use it as a source", n.Ref)
		return errs.StructDef()
	}

	sd := cloneStruct(entry.Struct)
	ev := eval.New(fieldspace.NewDynamicSpace(sd.Name, sd.Dialect))
	bound := make(map[string]bool, len(n.Params))
	for _, pv := range n.Params {
		param := findParameter(sd, pv.Name)
		if param == nil {
			n.Log("'%s' has no parameter '%s'", n.Ref, pv.Name)
			continue
		}
		bound[pv.Name] = true
		val := ev.Eval(pv.Expr)
		if param.Condition {
			param.ConditionExpr = &val
			continue
		}
		if param.Constant {
			n.Log("parameter '%s' is constant and cannot be overridden", pv.Name)
			continue
		}
		if val.DataType != param.Type && param.Type != typeval.TypeUnknown {
			val.Value = typeval.CastTo(param.Type, val.Value, true)
			val.DataType = param.Type
		}
		param.Value = &val
	}
	for _, p := range sd.Parameters {
		if !p.Satisfied() && !bound[p.Name] {
			n.Log("missing required parameter '%s'", p.Name)
		}
	}
	return sd
}

func (r *Resolver) resolveQuery(q *ast.QuerySource) *schema.StructDef {
	if r.CompileQuery == nil {
		logNode(q, "query source at %s: no query compiler configured", q.Position())
		return errs.StructDef()
	}
	compiled, err := r.CompileQuery(q.Query)
	if err != nil {
		q.Log("%s", err.Error())
		return errs.StructDef()
	}
	sd := lastOutputStruct(compiled)
	sd.StructSource = schema.StructSource{Kind: schema.StructSourceQuery, Query: compiled}
	return sd
}

// lastOutputStruct derives a StructDef shape from a compiled query's final
// segment; a real implementation would reuse pipeline.NextStructDef, kept
// local here to avoid source importing pipeline just for this one call.
func lastOutputStruct(q *schema.Query) *schema.StructDef {
	sd := &schema.StructDef{Name: q.StructRef.Name, StructRelationship: schema.RelationshipNested}
	if q.Pipeline == nil || len(q.Pipeline.Segments) == 0 {
		return sd
	}
	switch last := q.Pipeline.Segments[len(q.Pipeline.Segments)-1].(type) {
	case *schema.ReduceSegment:
		for _, f := range last.Fields {
			sd.Fields = append(sd.Fields, schema.AtomicFieldDef{Name: f.Name, Type: f.Expr.DataType})
		}
	case *schema.ProjectSegment:
		for _, f := range last.Fields {
			sd.Fields = append(sd.Fields, schema.AtomicFieldDef{Name: f.Name, Type: f.Expr.DataType})
		}
	}
	return sd
}

func findParameter(sd *schema.StructDef, name string) *schema.Parameter {
	for _, p := range sd.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func cloneStruct(sd *schema.StructDef) *schema.StructDef {
	out := *sd
	out.Fields = append([]schema.FieldDef{}, sd.Fields...)
	out.Parameters = append([]*schema.Parameter{}, sd.Parameters...)
	out.FilterList = append([]schema.Filter{}, sd.FilterList...)
	return &out
}
