package fieldspace

import (
	"github.com/fzakaria/malloy/schema"
)

// QuerySpace is the input-side field space of a segment: a DynamicSpace
// used for expression lookup. It carries nestParent (the enclosing
// query's QuerySpace, when this query is a nested one, for exclude()/
// all() back-references) and an extendList (fields added via inline
// declare:/join: inside the segment, which flow into the finalized
// segment's ExtendSource) (spec.md §4.2).
type QuerySpace struct {
	*DynamicSpace
	nestParent *QuerySpace
	extendList []schema.FieldDef
	isNested   bool
	output     FieldSpace
}

// NewQuerySpace wraps inputStruct as the input space for one segment.
func NewQuerySpace(inputStruct *schema.StructDef, nestParent *QuerySpace) *QuerySpace {
	ds := NewDynamicSpace(inputStruct.Name, inputStruct.Dialect)
	for _, f := range inputStruct.Fields {
		_ = ds.addFieldDef(f)
	}
	for _, p := range inputStruct.Parameters {
		_ = ds.AddParameters([]*schema.Parameter{p})
	}
	return &QuerySpace{DynamicSpace: ds, nestParent: nestParent, isNested: nestParent != nil}
}

// NestParent returns the enclosing query's QuerySpace, nil at the
// top level.
func (q *QuerySpace) NestParent() *QuerySpace { return q.nestParent }

// IsNested reports whether this query space belongs to a nested query.
func (q *QuerySpace) IsNested() bool { return q.isNested }

// SetOutputSpace records fs (the ResultSpace sharing this QuerySpace as its
// expression-evaluation side) as the output space a nested query's
// exclude()/all() ungrouping references should check against. Set once, by
// the segment executor that owns this QuerySpace, immediately after
// construction.
func (q *QuerySpace) SetOutputSpace(fs FieldSpace) { q.output = fs }

// OutputSpace returns the output-side field space registered via
// SetOutputSpace, nil if none was set.
func (q *QuerySpace) OutputSpace() FieldSpace { return q.output }

// ExtendSource adds a declare:/join: field made within this segment; these
// flow, in insertion order, into the finalized segment's ExtendSource
// (spec.md §6 Plan format).
func (q *QuerySpace) ExtendSource(f schema.FieldDef) error {
	if err := q.addFieldDef(f); err != nil {
		return err
	}
	q.extendList = append(q.extendList, f)
	return nil
}

// ExtendList returns the fields added via ExtendSource, in insertion
// order.
func (q *QuerySpace) ExtendList() []schema.FieldDef { return q.extendList }

// CheckUngroupName registers a deferred check that name names a field of
// the nearest enclosing query's output struct, used by exclude()/all()
// ungrouping (spec.md §4.3, §5, §8 scenario 6). The check runs once the
// enclosing output space finalizes — which, per spec.md §5, happens after
// every nested child has structurally contributed but before diagnostics
// are emitted — so logNode fires at most once, at fail time, on onFail's
// node. Reports "missing from query output" and does nothing if this
// QuerySpace has no nest parent (a standalone exclude()/all() authoring
// error the caller already diagnosed).
func (q *QuerySpace) CheckUngroupName(name string, onFail func(msg string, args ...any)) {
	if q.nestParent == nil || q.nestParent.output == nil {
		return
	}
	out := q.nestParent.output
	out.WhenComplete(func() {
		if _, ok := out.StructDef().FieldByName(name); !ok {
			onFail("exclude() '%s' is missing from query output", name)
		}
	})
}

var _ FieldSpace = (*QuerySpace)(nil)
