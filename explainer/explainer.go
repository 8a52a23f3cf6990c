// Package explainer pretty-prints a compiled schema.Query/Pipeline tree —
// a supplemented feature grounded on the teacher's plan-describer
// (intermediate/plan_describer.go), adapted from table/column name
// resolution onto pipeline segment description.
package explainer

import (
	"fmt"
	"strings"

	"github.com/fzakaria/malloy/schema"
)

// Explain renders q as an indented text tree: the source, then each
// segment's kind and field list, matching the order a reader would expect
// to trace execution in.
func Explain(q *schema.Query) string {
	var b strings.Builder
	name := q.StructRef.Name
	if name == "" && q.StructRef.Inline != nil {
		name = q.StructRef.Inline.Name
	}
	fmt.Fprintf(&b, "query on %s\n", name)
	if q.Pipeline == nil {
		return b.String()
	}
	if q.Pipeline.PipeHead != nil {
		fmt.Fprintf(&b, "  -> %s\n", q.Pipeline.PipeHead.Name)
	}
	for i, seg := range q.Pipeline.Segments {
		explainSegment(&b, i, seg)
	}
	return b.String()
}

func explainSegment(b *strings.Builder, index int, seg schema.PipeSegment) {
	indent := "  "
	switch s := seg.(type) {
	case *schema.ReduceSegment:
		fmt.Fprintf(b, "%s[%d] reduce\n", indent, index)
		explainFields(b, s.Fields)
		explainFilters(b, s.FilterList)
		explainOrdering(b, s.OrderBy, s.Limit)
	case *schema.ProjectSegment:
		fmt.Fprintf(b, "%s[%d] project\n", indent, index)
		explainFields(b, s.Fields)
		explainFilters(b, s.FilterList)
		explainOrdering(b, s.OrderBy, s.Limit)
	case *schema.IndexSegment:
		fmt.Fprintf(b, "%s[%d] index on %s\n", indent, index, strings.Join(s.Fields, ", "))
		if s.WeightMeasure != "" {
			fmt.Fprintf(b, "%s  weight by %s\n", indent, s.WeightMeasure)
		}
		explainFilters(b, s.FilterList)
		if s.Limit != nil {
			fmt.Fprintf(b, "%s  limit %d\n", indent, *s.Limit)
		}
	default:
		fmt.Fprintf(b, "%s[%d] <unknown segment>\n", indent, index)
	}
}

func explainFields(b *strings.Builder, fields []schema.SelectedField) {
	for _, f := range fields {
		fmt.Fprintf(b, "    %s: %s\n", f.Name, f.Expr.DataType)
	}
}

func explainFilters(b *strings.Builder, filters []schema.Filter) {
	for _, f := range filters {
		fmt.Fprintf(b, "    filter: %s\n", f.Expr.DataType)
	}
}

func explainOrdering(b *strings.Builder, orderBy []schema.OrderByItem, limit *int) {
	if len(orderBy) > 0 {
		names := make([]string, len(orderBy))
		for i, o := range orderBy {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			names[i] = fmt.Sprintf("%s %s", o.FieldName, dir)
		}
		fmt.Fprintf(b, "    order by %s\n", strings.Join(names, ", "))
	}
	if limit != nil {
		fmt.Fprintf(b, "    limit %d\n", *limit)
	}
}
