package pipeline

import (
	"fmt"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/errs"
	"github.com/fzakaria/malloy/fieldspace"
	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/segment"
)

// TurtleResolver looks up a named turtle's compiled pipeline (a field of a
// source or a top-level named query), used for a pipeline's `pipeHead`.
type TurtleResolver func(name string) (*schema.Pipeline, error)

// Composer compiles an ast.Pipeline into a schema.Pipeline, appending one
// PipeSegment per QOPDesc and threading NextStructDef's output into the
// following segment (spec.md §4.5).
type Composer struct {
	resolveSource segment.SourceResolver
	resolveTurtle TurtleResolver
}

// NewComposer builds a Composer with its two black-box lookup hooks.
func NewComposer(resolveSource segment.SourceResolver, resolveTurtle TurtleResolver) *Composer {
	return &Composer{resolveSource: resolveSource, resolveTurtle: resolveTurtle}
}

// Compile builds a schema.Pipeline for p against input, the StructDef its
// first segment reads from. nestParent is non-nil when p is a nest's inner
// pipeline: only the first appended segment is told about it, since later
// segments read the prior segment's output, not the enclosing scope
// (spec.md §4.5 "very first appended segment is told whether it is nested").
func (c *Composer) Compile(p *ast.Pipeline, input *schema.StructDef, nestParent *fieldspace.QuerySpace) (*schema.Pipeline, error) {
	out := &schema.Pipeline{}
	cur := input
	segs := p.Segments
	var refineTarget schema.PipeSegment

	if p.PipeHeadName != "" {
		head, err := c.resolveTurtle(p.PipeHeadName)
		if err != nil {
			return nil, err
		}
		out.PipeHead = &schema.PipeHead{Name: p.PipeHeadName}
		for _, hs := range head.Segments {
			out.Segments = append(out.Segments, hs)
			cur = safeNextStructDef(p, cur, hs)
		}
		if len(out.Segments) > 0 {
			refineTarget = out.Segments[len(out.Segments)-1]
			out.Segments = out.Segments[:len(out.Segments)-1]
		}
		// refinePipeline: if the pipeline's own first segment carries no
		// properties it is a bare `-> turtleName` invocation, not a
		// refinement; skip it and leave the head's segments untouched.
		if len(segs) > 0 && len(segs[0].Properties) == 0 && segs[0].Explicit == ast.KindUnknown {
			if refineTarget != nil {
				out.Segments = append(out.Segments, refineTarget)
			}
			refineTarget = nil
			segs = segs[1:]
		}
		// A refined head is materialized into the segments, so the
		// pipeline no longer names it as its PipeHead.
		if refineTarget != nil {
			out.PipeHead = nil
		}
	}

	for i, qop := range segs {
		var np *fieldspace.QuerySpace
		if i == 0 {
			np = nestParent
		}
		seg, err := c.compileSegment(qop, cur, np, refineTarget)
		if err != nil {
			return nil, err
		}
		out.Segments = append(out.Segments, seg)
		cur = safeNextStructDef(qop, cur, seg)
		refineTarget = nil
	}

	return out, nil
}

// safeNextStructDef calls NextStructDef, recovering a panic into a logged
// internal error and the sentinel struct (spec.md §7 "Internal errors":
// "caught exceptions from the segment struct-def function are logged with
// the offending segment ... the segment is replaced by an error
// sentinel"). NextStructDef itself is a pure black box per spec.md §4.5;
// this wrapper is the one place the composer is allowed to assume it
// might not be.
func safeNextStructDef(n ast.Node, input *schema.StructDef, seg schema.PipeSegment) (out *schema.StructDef) {
	defer func() {
		if r := recover(); r != nil {
			if logger, ok := n.(ast.Logger); ok {
				logger.Log("internal error computing %s segment: %v", kindLabel(seg), r)
			}
			out = errs.StructDef()
		}
	}()
	return NextStructDef(input, seg)
}

func kindLabel(seg schema.PipeSegment) string {
	switch seg.(type) {
	case *schema.ReduceSegment:
		return "reduce"
	case *schema.ProjectSegment:
		return "project"
	case *schema.IndexSegment:
		return "index"
	default:
		return "unknown"
	}
}

var wantLabel = map[ast.SegmentKind]string{
	ast.KindGrouping: "reduce",
	ast.KindAggregate: "reduce",
	ast.KindProject:  "project",
	ast.KindIndex:    "index",
}

// compileSegment runs one QOPDesc's properties through the matching
// executor kind (segment.ComputeType classifies it, defaulting to the
// refinement target's kind when ambiguous) and finalizes it, inheriting
// from refineTarget when present and shape-compatible.
func (c *Composer) compileSegment(qop *ast.QOPDesc, input *schema.StructDef, nestParent *fieldspace.QuerySpace, refineTarget schema.PipeSegment) (schema.PipeSegment, error) {
	kind := qop.Explicit
	if kind == ast.KindUnknown {
		kind = segment.ComputeType(qop, refineTarget != nil)
	}
	if kind == ast.KindUnknown && refineTarget != nil {
		switch refineTarget.(type) {
		case *schema.ReduceSegment:
			kind = ast.KindGrouping
		case *schema.ProjectSegment:
			kind = ast.KindProject
		case *schema.IndexSegment:
			kind = ast.KindIndex
		}
	}

	want := wantLabel[kind]
	if refineTarget != nil && kindLabel(refineTarget) != want {
		qop.Warn("%s segment cannot refine a %s segment", want, kindLabel(refineTarget))
		refineTarget = nil
	}

	switch want {
	case "reduce":
		exec := segment.NewReduceExecutor(input, nestParent, c.resolveSource, c.compileNested)
		for _, p := range qop.Properties {
			if err := exec.Execute(p); err != nil {
				return nil, err
			}
		}
		var from *schema.ReduceSegment
		if refineTarget != nil {
			from, _ = refineTarget.(*schema.ReduceSegment)
		}
		return exec.Finalize(from)
	case "project":
		exec := segment.NewProjectExecutor(input, nestParent, c.resolveSource)
		for _, p := range qop.Properties {
			if err := exec.Execute(p); err != nil {
				return nil, err
			}
		}
		var from *schema.ProjectSegment
		if refineTarget != nil {
			from, _ = refineTarget.(*schema.ProjectSegment)
		}
		return exec.Finalize(from)
	case "index":
		exec := segment.NewIndexExecutor(input, nestParent)
		for _, p := range qop.Properties {
			if err := exec.Execute(p); err != nil {
				return nil, err
			}
		}
		var from *schema.IndexSegment
		if refineTarget != nil {
			from, _ = refineTarget.(*schema.IndexSegment)
		}
		return exec.Finalize(from)
	default:
		return nil, fmt.Errorf("segment at %s: could not determine segment kind", qop.Position())
	}
}

// compileNested satisfies segment.PipelineCompiler: a nest's inner pipeline
// reads from the same input struct as the segment that owns it.
func (c *Composer) compileNested(p *ast.Pipeline, nestParent *fieldspace.QuerySpace) (*schema.Pipeline, error) {
	return c.Compile(p, nestParent.StructDef(), nestParent)
}
