// Package compiler wires source resolution, field spaces, and the pipeline
// composer into the single top-level entry point a driver calls: Execute
// takes a parsed ast.Document and produces the compiled schema.Query list
// (spec.md §4, §6 "Produced").
package compiler

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/pipeline"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/source"
)

// Compiler holds the process-scoped, read-only-within-a-pass lookup
// tables (spec.md §5 "Shared resources"): the schema zone, the sql-query
// zone, and the model environment.
type Compiler struct {
	Tables    source.SchemaZone
	SQLBlocks source.SchemaZone
	Env       source.ModelEnvironment
}

// New builds a Compiler against its three external lookup surfaces.
func New(tables, sqlBlocks source.SchemaZone, env source.ModelEnvironment) *Compiler {
	return &Compiler{Tables: tables, SQLBlocks: sqlBlocks, Env: env}
}

// composerBox lets the turtle resolver and the QuerySource compiler close
// over a *pipeline.Composer before it exists, since the composer itself
// needs those two hooks to construct (spec.md §4.5/§4.6 mutual black-box
// convention, resolved here with the same forward-pointer trick used
// between segment's executors and this driver).
type composerBox struct{ composer *pipeline.Composer }

// Execute runs every top-level query in doc.QueryList through source
// resolution and the pipeline composer, returning the compiled queries in
// doc.QueryList order. Named queries are not compiled on their own; one is
// compiled only when a pipeline uses it as its pipe head. Per spec.md §5, a real driver
// facing an unresolved SQL-block schema would receive a
// *source.ModelDataRequest here instead of an error; this core always
// resolves synchronously against the zones it was given, so that return is
// always nil — the signature keeps the slot for a driver that backs its
// SchemaZone with an async fetch.
func (c *Compiler) Execute(doc *ast.Document) ([]*schema.Query, *source.ModelDataRequest, error) {
	box := &composerBox{}
	resolver := source.NewResolver(c.Tables, c.SQLBlocks, c.Env)
	resolver.CompileQuery = func(q *ast.Query) (*schema.Query, error) {
		return c.compileQuery(box, resolver, q)
	}
	box.composer = pipeline.NewComposer(resolver.Resolve, namedQueryResolver(doc, box, resolver))

	out := make([]*schema.Query, 0, len(doc.QueryList))
	for _, q := range doc.QueryList {
		cq, err := c.compileQuery(box, resolver, q)
		if err != nil {
			return out, nil, err
		}
		out = append(out, cq)
	}
	return out, nil, nil
}

func (c *Compiler) compileQuery(box *composerBox, resolver *source.Resolver, q *ast.Query) (*schema.Query, error) {
	structDef, err := resolver.Resolve(q.Struct)
	if err != nil {
		return nil, err
	}
	p, err := box.composer.Compile(q.Pipeline, structDef, nil)
	if err != nil {
		return nil, err
	}
	return &schema.Query{
		StructRef: schema.StructRef{Inline: structDef},
		Pipeline:  p,
		Location:  q.Position(),
	}, nil
}

// namedQueryResolver resolves a pipeline's `pipeHead` name against doc's
// top-level named queries, compiling them on first reference and caching
// the result so a turtle referenced by several pipelines is only compiled
// once per pass.
func namedQueryResolver(doc *ast.Document, box *composerBox, resolver *source.Resolver) pipeline.TurtleResolver {
	cache := make(map[string]*schema.Pipeline)
	return func(name string) (*schema.Pipeline, error) {
		if p, ok := cache[name]; ok {
			return p, nil
		}
		nq, ok := doc.NamedQuery[name]
		if !ok {
			return nil, namedQueryNotFound(name)
		}
		structDef, err := resolver.Resolve(nq.Struct)
		if err != nil {
			return nil, err
		}
		p, err := box.composer.Compile(nq.Pipeline, structDef, nil)
		if err != nil {
			return nil, err
		}
		cache[name] = p
		return p, nil
	}
}

func namedQueryNotFound(name string) error {
	return &turtleNotFoundError{name: name}
}

type turtleNotFoundError struct{ name string }

func (e *turtleNotFoundError) Error() string {
	return "undefined query '" + e.name + "' used as a pipeline head"
}
