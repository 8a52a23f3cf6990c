package source

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/errs"
	"github.com/fzakaria/malloy/eval"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// resolveRefinedExplore clones the base source's StructDef and overlays
// each ExploreProperty edit in order (spec.md §4.6): primary_key,
// accept/except, rename, turtle and parameter declarations, explore-level
// joins, inline declares, and top-level filters (which reject
// calculation-kinded expressions). The accept/except edit is the
// exception: it is applied once, after every other edit.
func (r *Resolver) resolveRefinedExplore(re *ast.RefinedExplore) *schema.StructDef {
	base, err := r.Resolve(re.Base)
	if err != nil {
		re.Log("%s", err.Error())
		return errs.StructDef()
	}
	sd := cloneStruct(base)

	havePrimaryKey := false
	var fieldEdit *ast.FieldListEditProp
	seenRename := make(map[string]bool)

	for _, prop := range re.Properties {
		switch p := prop.(type) {
		case *ast.PrimaryKeyProp:
			if havePrimaryKey {
				p.Log("duplicate primary_key")
				continue
			}
			havePrimaryKey = true
			if _, ok := sd.FieldByName(p.Field); !ok {
				p.Log("primary_key '%s' is not a field of this source", p.Field)
				continue
			}
			sd.PrimaryKey = p.Field
		case *ast.FieldListEditProp:
			if fieldEdit != nil {
				p.Log("duplicate accept/except")
				continue
			}
			fieldEdit = p
		case *ast.RenameProp:
			if p.NewName == p.OldName {
				p.Log("cannot rename '%s' to itself", p.OldName)
				continue
			}
			if seenRename[p.OldName] {
				p.Log("'%s' has already been renamed", p.OldName)
				continue
			}
			fd, ok := sd.FieldByName(p.OldName)
			if !ok {
				p.Log("'%s' is not a field of this source", p.OldName)
				continue
			}
			seenRename[p.OldName] = true
			sd.Fields = renameField(sd.Fields, fd, p.NewName)
		case *ast.TurtleDefProp:
			sd.Fields = append(sd.Fields, schema.TurtleFieldDef{Name: p.Name, Pipeline: nil})
		case *ast.ParameterDeclProp:
			sd.Parameters = append(sd.Parameters, declareParameter(p))
		case *ast.Join:
			r.resolveExploreJoin(sd, p)
		case *ast.DeclareField:
			resolveExploreDeclare(sd, p)
		case *ast.Filter:
			resolveExploreFilter(sd, p)
		}
	}

	if fieldEdit != nil {
		ds, err := fieldspace.FilteredFrom(sd, int(fieldEdit.Kind), fieldEdit.Fields)
		if err != nil {
			fieldEdit.Log("%s", err.Error())
		} else {
			primaryKey := sd.PrimaryKey
			parameters := sd.Parameters
			sd = ds.StructDef()
			sd.PrimaryKey = primaryKey
			sd.Parameters = parameters
		}
	}

	return sd
}

// resolveExploreJoin resolves j's source and appends it to sd as a
// JoinFieldDef, then checks j.On (if given) evaluates to a boolean against
// the struct-so-far (spec.md §4.6 "add fields from Joins").
func (r *Resolver) resolveExploreJoin(sd *schema.StructDef, j *ast.Join) {
	joinStruct, err := r.Resolve(j.From)
	if err != nil {
		j.Log("%s", err.Error())
		return
	}
	sd.Fields = append(sd.Fields, schema.JoinFieldDef{Name: j.Name, Struct: joinStruct, Many: j.Kind == "many"})
	if j.On == nil {
		return
	}
	cond := eval.New(fieldspace.NewStaticSpace(sd)).Eval(j.On)
	if !cond.IsError() && cond.DataType != typeval.TypeBoolean {
		j.Log("join 'on' condition must be boolean, got %s", cond.DataType)
	}
}

// resolveExploreDeclare evaluates d's expression against sd (catching
// self-reference via DefSpace, as core.execDeclare does at the query level)
// and appends the resulting typed field to sd (spec.md §4.6 "add fields
// from ... DeclareFields").
func resolveExploreDeclare(sd *schema.StructDef, d *ast.DeclareField) {
	space := exploreFieldSpace(sd)
	if err := space.AddField(d.Name, fieldspace.NewExpressionEntry(d.Name, d.Expr)); err != nil {
		d.Log("%s", err.Error())
		return
	}
	def := fieldspace.NewDefSpace(space, d.Name)
	val := eval.New(def).Eval(d.Expr)
	if def.HitCircular() {
		return
	}
	sd.Fields = append(sd.Fields, schema.AtomicFieldDef{Name: d.Name, Type: val.DataType})
}

// resolveExploreFilter evaluates f's expressions against sd and appends
// them to sd.FilterList, rejecting calculation-kinded (aggregate/analytic)
// expressions: a source-level filter applies at every query against it, so
// it cannot depend on a particular query's grouping (spec.md §4.6 "applies
// Filters (rejecting calculation-kinded ones at the top level)").
func resolveExploreFilter(sd *schema.StructDef, f *ast.Filter) {
	space := fieldspace.NewStaticSpace(sd)
	for _, expr := range f.Exprs {
		val := eval.New(space).Eval(expr)
		if val.DataType != typeval.TypeBoolean && !val.IsError() {
			f.Log("filter expression must be boolean")
			continue
		}
		if val.ExpressionType != typeval.KindScalar {
			f.Log("a source-level filter cannot contain an aggregate or analytic expression")
			continue
		}
		sd.FilterList = append(sd.FilterList, schema.Filter{Expr: val})
	}
}

// exploreFieldSpace builds a mutable space seeded from sd's current atomic
// and join fields, so a declare's self-reference can be registered and
// caught before it is appended.
func exploreFieldSpace(sd *schema.StructDef) *fieldspace.DynamicSpace {
	space := fieldspace.NewDynamicSpace(sd.Name, sd.Dialect)
	for _, f := range sd.Fields {
		switch fd := f.(type) {
		case schema.AtomicFieldDef:
			_ = space.AddField(fd.Name, fieldspace.NewColumnEntry(fd))
		case schema.JoinFieldDef:
			_ = space.AddField(fd.Name, fieldspace.NewJoinEntry(fd.Name, fieldspace.NewStaticSpace(fd.Struct), fd.Many))
		}
	}
	return space
}

func renameField(fields []schema.FieldDef, target schema.FieldDef, newName string) []schema.FieldDef {
	out := make([]schema.FieldDef, len(fields))
	for i, f := range fields {
		if f == target {
			if af, ok := f.(schema.AtomicFieldDef); ok {
				af.Name = newName
				out[i] = af
				continue
			}
		}
		out[i] = f
	}
	return out
}

func declareParameter(p *ast.ParameterDeclProp) *schema.Parameter {
	param := &schema.Parameter{Name: p.Name, Type: parseParamType(p.TypeName), Condition: p.Condition, Constant: p.Constant}
	if p.Default != nil {
		val := eval.New(fieldspace.NewDynamicSpace("", "")).Eval(p.Default)
		if p.Condition {
			param.ConditionExpr = &val
		} else {
			param.Value = &val
		}
	}
	return param
}

func parseParamType(name string) typeval.AtomicFieldType {
	switch name {
	case "string":
		return typeval.TypeString
	case "number":
		return typeval.TypeNumber
	case "boolean":
		return typeval.TypeBoolean
	case "date":
		return typeval.TypeDate
	case "timestamp":
		return typeval.TypeTimestamp
	default:
		return typeval.TypeUnknown
	}
}
