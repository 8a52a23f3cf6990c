package segment

import (
	"fmt"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/eval"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/typeval"
)

// outputSpace is the subset of a ResultSpace variant every executor needs:
// installing a computed field, checking whether its kind is legal here, and
// reading back the space's (possibly still-building) shape.
type outputSpace interface {
	fieldspace.FieldSpace
	AddField(name string, e fieldspace.SpaceEntry) error
	CanContain(kind typeval.ExpressionKind, isTurtle bool) (bool, string)
}

// SourceResolver turns a join's source AST into a StructDef; segment
// executors treat source resolution as a black box supplied by the caller
// (ordinarily the pipeline composer, which owns the `source` package)
// (spec.md §4.5 "black box" convention applied one level down).
type SourceResolver func(ast.Source) (*schema.StructDef, error)

// PipelineCompiler compiles a nest's inner AST pipeline into a schema
// Pipeline against its own nested QuerySpace, another black box the
// pipeline composer supplies so segment doesn't need to import it back
// (avoiding the obvious import cycle segment↔pipeline).
type PipelineCompiler func(p *ast.Pipeline, nestParent *fieldspace.QuerySpace) (*schema.Pipeline, error)

// core holds the state shared by ReduceExecutor and ProjectExecutor: both
// accept the same property grammar, differing only in which properties are
// legal and what CanContain enforces on computed fields.
type core struct {
	qspace      *fieldspace.QuerySpace
	result      outputSpace
	ev          *eval.Evaluator
	resolve     SourceResolver
	compilePipe PipelineCompiler
	fields      []schema.SelectedField
	orderBy     []schema.OrderByItem
	orderSet    bool
	by          *typeval.ExprValue
	limit       *int
	limitSet    bool
	filterList  []schema.Filter
}

func newCore(qspace *fieldspace.QuerySpace, result outputSpace, resolve SourceResolver, compilePipe PipelineCompiler) *core {
	return &core{qspace: qspace, result: result, ev: eval.New(qspace), resolve: resolve, compilePipe: compilePipe}
}

// logNode attaches a diagnostic to n's location; used wherever the static
// type in hand is an interface (ast.QueryProperty, ast.Expression) that
// doesn't itself expose Log, even though every concrete node does via
// BaseNode.
func logNode(n ast.Node, msg string, args ...any) {
	if logger, ok := n.(ast.Logger); ok {
		logger.Log(msg, args...)
	}
}

// addNest compiles a nest's inner pipeline and, if the output space allows
// turtles here, installs it as a query field entry.
func (c *core) addNest(prop ast.QueryProperty, name string, p *ast.Pipeline) {
	if ok, msg := c.result.CanContain(typeval.KindAggregate, true); !ok {
		logNode(prop, "%s", msg)
		return
	}
	if c.compilePipe == nil {
		logNode(prop, "nest '%s': no pipeline compiler configured", name)
		return
	}
	compiled, err := c.compilePipe(p, c.qspace)
	if err != nil {
		logNode(prop, "%s", err.Error())
		return
	}
	c.fields = append(c.fields, schema.SelectedField{Name: name})
	_ = c.result.AddField(name, fieldspace.NewQueryEntry(name, compiled))
}

// addComputed evaluates expr, checks it against the output space's
// CanContain rule, appends it to fields and installs a same-typed column
// entry in the output space so later segments can see it. A kind the
// output space rejects is diagnosed and the field is kept as an error
// value.
func (c *core) addComputed(prop ast.QueryProperty, name string, expr ast.Expression, isTurtle bool) {
	val := c.ev.Eval(expr)
	if ok, msg := c.result.CanContain(val.ExpressionType, isTurtle); !ok {
		logNode(prop, "%s", msg)
		val = typeval.ErrorValue(val.ExpressionType)
	}
	c.fields = append(c.fields, schema.SelectedField{Name: name, Expr: val})
	_ = c.result.AddField(name, fieldspace.NewColumnEntry(schema.AtomicFieldDef{Name: name, Type: val.DataType}))
}

// addReference passes an input field straight through to the output,
// unevaluated beyond resolving its type (used by project: references).
func (c *core) addReference(prop ast.QueryProperty, path []string) {
	res := c.qspace.Lookup(path)
	if !res.Found {
		logNode(prop, "%s", res.Error)
		return
	}
	name := path[len(path)-1]
	dt := typeval.TypeUnknown
	if col, ok := res.Entry.(*fieldspace.ColumnSpaceField); ok {
		dt = col.Field.Type
	}
	c.fields = append(c.fields, schema.SelectedField{Name: name, Expr: typeval.ExprValue{DataType: dt, EvalSpace: typeval.SpaceInput, Value: typeval.Lit(name)}})
	_ = c.result.AddField(name, fieldspace.NewColumnEntry(schema.AtomicFieldDef{Name: name, Type: dt}))
}

// addWildcard expands `*`/`**`/`a.b.*` into one addReference-style entry
// per atomic field of the (possibly joined-into) struct named by prefix.
// Deep wildcards additionally descend into nested joins; this core does
// not flatten turtle fields into a wildcard expansion, matching the plan
// format's treatment of turtles as always-explicit.
func (c *core) addWildcard(prop ast.QueryProperty, prefix []string, deep bool) {
	base := c.qspace.StructDef()
	if len(prefix) > 0 {
		res := c.qspace.Lookup(prefix)
		if !res.Found {
			logNode(prop, "%s", res.Error)
			return
		}
		join, ok := res.Entry.(*fieldspace.StructSpaceField)
		if !ok {
			logNode(prop, "'%s' is not a join", dotPath(prefix))
			return
		}
		base = join.Space.StructDef()
	}
	c.expandStruct(prop, base, deep)
}

func (c *core) expandStruct(prop ast.QueryProperty, s *schema.StructDef, deep bool) {
	for _, f := range s.Fields {
		switch fd := f.(type) {
		case schema.AtomicFieldDef:
			c.fields = append(c.fields, schema.SelectedField{Name: fd.Name, Expr: typeval.ExprValue{DataType: fd.Type, EvalSpace: typeval.SpaceInput, Value: typeval.Lit(fd.Name)}})
			_ = c.result.AddField(fd.Name, fieldspace.NewColumnEntry(fd))
		case schema.JoinFieldDef:
			if deep {
				c.expandStruct(prop, fd.Struct, deep)
			}
		}
	}
}

func dotPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// execDeclare evaluates an inline declare: field against a DefSpace-wrapped
// input space so self-reference is diagnosed once, not cascaded
// (spec.md §7 Structural errors, §8 scenario 5).
func (c *core) execDeclare(d *ast.DeclareField) error {
	if err := c.qspace.AddField(d.Name, fieldspace.NewExpressionEntry(d.Name, d.Expr)); err != nil {
		return err
	}
	def := fieldspace.NewDefSpace(c.qspace, d.Name)
	val := eval.New(def).Eval(d.Expr)
	if def.HitCircular() {
		return nil
	}
	fd := schema.AtomicFieldDef{Name: d.Name, Type: val.DataType}
	return c.qspace.ExtendSource(fd)
}

func (c *core) execFilter(f *ast.Filter) {
	for _, expr := range f.Exprs {
		val := c.ev.Eval(expr)
		if val.DataType != typeval.TypeBoolean && !val.IsError() {
			f.Log("filter expression must be boolean")
			continue
		}
		if f.Having {
			if val.ExpressionType == typeval.KindScalar {
				f.Log("having: requires an aggregate or analytic expression")
				continue
			}
		} else if val.ExpressionType != typeval.KindScalar {
			f.Log("where: cannot contain an aggregate expression")
			continue
		}
		c.filterList = append(c.filterList, schema.Filter{Expr: val})
	}
}

func (c *core) execTop(t *ast.Top) {
	if c.orderSet {
		t.Log("already sorted")
		return
	}
	c.orderSet = true
	if t.By == nil {
		c.orderBy = nil
		return
	}
	by := c.ev.Eval(t.By)
	if by.ExpressionType == typeval.KindScalar {
		t.Log("top by expression must be an aggregate")
		return
	}
	c.by = &by
}

func (c *core) execOrdering(o *ast.Ordering) {
	if c.orderSet {
		o.Log("already sorted")
		return
	}
	c.orderSet = true
	for _, item := range o.Items {
		ref, ok := item.Field.(*ast.FieldRef)
		if !ok {
			o.Log("order_by entries must reference an output field by name")
			continue
		}
		c.orderBy = append(c.orderBy, schema.OrderByItem{FieldName: ref.String(), Desc: item.Desc})
	}
}

func (c *core) execLimit(l *ast.Limit) {
	if c.limitSet {
		l.Log("already limited")
		return
	}
	c.limitSet = true
	n := l.N
	c.limit = &n
}

func (c *core) execJoin(j *ast.Join) error {
	if c.resolve == nil {
		return fmt.Errorf("join '%s' at %s: no source resolver configured", j.Name, j.Position())
	}
	src, err := c.resolve(j.From)
	if err != nil {
		j.Log("%s", err.Error())
		return nil
	}
	if err := c.qspace.ExtendSource(schema.JoinFieldDef{Name: j.Name, Struct: src, Many: j.Kind == "many"}); err != nil {
		return err
	}
	if j.On != nil {
		c.qspace.RegisterFixup(func(complete fieldspace.FieldSpace) {
			cond := eval.New(complete).Eval(j.On)
			if cond.IsError() {
				return
			}
			if cond.DataType != typeval.TypeBoolean {
				j.Log("join 'on' condition must be boolean, got %s", cond.DataType)
			}
		})
	}
	return nil
}

// inheritFrom copies a prior segment's orderBy/by/limit/filterList onto this
// one unless this segment's own properties already overrode them, and
// concatenates filters in `[...existing, ...new]` order
// (spec.md §4.4 finalize, §6 Plan format).
func (c *core) inheritFrom(orderBy []schema.OrderByItem, by *typeval.ExprValue, limit *int, filterList []schema.Filter) {
	if !c.orderSet {
		c.orderBy = orderBy
		c.by = by
	}
	if !c.limitSet {
		c.limit = limit
	}
	c.filterList = append(append([]schema.Filter{}, filterList...), c.filterList...)
}
