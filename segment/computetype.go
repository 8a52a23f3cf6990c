// Package segment implements the per-segment-kind executors: small state
// machines that accept QueryProperty elements one at a time and produce a
// finalized schema.PipeSegment (spec.md §4.4).
package segment

import "github.com/fzakaria/malloy/ast"

// ComputeType classifies an unlabeled QOPDesc by scanning its properties in
// order and using the first property that fixes a kind. index:/sample
// fixes index; group_by/nest/nested-query-ref fixes grouping; a lone aggregate
// fixes aggregate (promoted to grouping the moment a group_by appears);
// project references/wildcards fix project. Anything that contradicts an
// already-fixed kind is diagnosed on that property and otherwise ignored.
// An empty, unlabeled, unrefined segment defaults to grouping with a
// diagnostic (spec.md §4.4).
func ComputeType(q *ast.QOPDesc, hasRefineTarget bool) ast.SegmentKind {
	if q.Explicit == ast.KindProject || q.Explicit == ast.KindIndex {
		return q.Explicit
	}

	kind := ast.KindUnknown
	for _, prop := range q.Properties {
		switch p := prop.(type) {
		case *ast.IndexProp, *ast.SampleProp:
			kind = fix(prop, kind, ast.KindIndex)
		case *ast.Nest, *ast.NestedQueryRef:
			kind = fix(prop, kind, ast.KindGrouping)
		case *ast.NamedExpr:
			switch p.Type() {
			case ast.NodeGroupBy:
				if kind == ast.KindAggregate {
					kind = ast.KindGrouping
					continue
				}
				kind = fix(prop, kind, ast.KindGrouping)
			case ast.NodeAggregate:
				if kind == ast.KindUnknown {
					kind = ast.KindAggregate
				} else if kind != ast.KindGrouping && kind != ast.KindAggregate {
					logNode(prop, "aggregate is not valid in a %s segment", kind)
				}
			}
		case *ast.ProjectRef, *ast.Wildcard:
			kind = fix(prop, kind, ast.KindProject)
		}
	}

	if kind == ast.KindUnknown {
		if hasRefineTarget {
			return ast.KindUnknown
		}
		q.Warn("segment has no group_by, aggregate, project, or index member; defaulting to grouping")
		return ast.KindGrouping
	}
	return kind
}

// fix sets kind to want the first time a disambiguating property is seen;
// a later property implying a different kind is diagnosed in place.
func fix(prop ast.QueryProperty, kind, want ast.SegmentKind) ast.SegmentKind {
	if kind == ast.KindUnknown {
		return want
	}
	if kind != want {
		logNode(prop, "'%s' is not valid in a %s segment", prop.String(), kind)
	}
	return kind
}
