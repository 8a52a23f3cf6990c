// Package errs provides the sentinel error shapes every stage substitutes
// for a result it could not legally compute, so a downstream consumer sees
// a well-formed (if empty) shape instead of a cascading diagnostic
// (spec.md §4.7).
package errs

import (
	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/schema"
)

// sentinelName marks every error sentinel's StructDef.Name; no legitimate
// source ever produces this name since the parser rejects angle brackets
// in identifiers.
const sentinelName = "<error>"

// StructDef returns the sentinel struct substituted when a source or
// explore refinement fails to resolve.
func StructDef() *schema.StructDef {
	return &schema.StructDef{Name: sentinelName}
}

// IsErrorStructDef reports whether s is the error sentinel.
func IsErrorStructDef(s *schema.StructDef) bool {
	return s != nil && s.Name == sentinelName
}

// ReduceSegment, ProjectSegment, and IndexSegment are the sentinel
// PipeSegments substituted when a segment executor's struct-def function
// panics or a shape error makes finalizing it meaningless
// (spec.md §7 Internal errors).
func ReduceSegment() *schema.ReduceSegment   { return &schema.ReduceSegment{} }
func ProjectSegment() *schema.ProjectSegment { return &schema.ProjectSegment{} }
func IndexSegment() *schema.IndexSegment     { return &schema.IndexSegment{} }

// Query returns the sentinel Query substituted when a top-level query
// fails to resolve its source or pipeline.
func Query() *schema.Query {
	return &schema.Query{StructRef: schema.StructRef{Inline: StructDef()}, Pipeline: &schema.Pipeline{}}
}

// Recover, when deferred, stops a panic raised while computing a
// segment's struct-def and logs it on n as an internal error for kind. It
// returns nothing and substitutes no sentinel; a caller that needs the
// error StructDef in place of the failed result supplies it itself.
func Recover(n ast.Node, kind string) {
	if r := recover(); r != nil {
		if logger, ok := n.(ast.Logger); ok {
			logger.Log("internal error computing %s segment: %v", kind, r)
		}
	}
}
