package fieldspace

import (
	"fmt"

	"github.com/fzakaria/malloy/schema"
)

// StaticSpace memoizes a name→SpaceEntry map from a StructDef's fields and
// parameters. Lookup is path-walked: each segment must resolve to either a
// leaf field or a nested struct-space; walking through a non-struct
// returns a "cannot contain" diagnostic (spec.md §4.2).
type StaticSpace struct {
	structDef *schema.StructDef
	entries   map[string]SpaceEntry
	order     []string
	refs      []ReferenceRecord
	callbacks []func()
}

// NewStaticSpace builds a StaticSpace over an already-finalized StructDef.
func NewStaticSpace(s *schema.StructDef) *StaticSpace {
	sp := &StaticSpace{structDef: s, entries: make(map[string]SpaceEntry)}
	for _, f := range s.Fields {
		sp.bind(f.OutputName(), toEntry(f))
	}
	for _, p := range s.Parameters {
		if p.Satisfied() {
			sp.bind(p.Name, &DefinedParameter{entryBase{p.Name}, p})
		} else {
			sp.bind(p.Name, &AbstractParameter{entryBase{p.Name}, p})
		}
	}
	return sp
}

func toEntry(f schema.FieldDef) SpaceEntry {
	switch v := f.(type) {
	case schema.AtomicFieldDef:
		return &ColumnSpaceField{entryBase{v.Name}, v}
	case schema.JoinFieldDef:
		return &StructSpaceField{entryBase{v.Name}, NewStaticSpace(v.Struct), v.Many}
	case schema.TurtleFieldDef:
		return &QueryField{entryBase{v.Name}, v.Pipeline}
	default:
		return &ReferenceField{entryBase{f.OutputName()}, []string{f.OutputName()}}
	}
}

func (s *StaticSpace) bind(name string, e SpaceEntry) {
	if _, exists := s.entries[name]; !exists {
		s.order = append(s.order, name)
	}
	s.entries[name] = e
}

// Lookup implements FieldSpace.
func (s *StaticSpace) Lookup(path []string) LookupResult {
	if len(path) == 0 {
		return LookupResult{Found: false, Error: "empty reference"}
	}
	entry, ok := s.entries[path[0]]
	if !ok {
		return LookupResult{Found: false, Error: notFoundMessage(path[0], s.order)}
	}
	if len(path) == 1 {
		s.refs = append(s.refs, ReferenceRecord{Path: path, IsJoin: isJoinEntry(entry)})
		return LookupResult{Found: true, Entry: entry}
	}
	nested, ok := entry.(*StructSpaceField)
	if !ok {
		return LookupResult{Found: false, Error: fmt.Sprintf("'%s' cannot contain '%s'", path[0], path[1])}
	}
	s.refs = append(s.refs, ReferenceRecord{Path: path[:1], IsJoin: true})
	return nested.Space.Lookup(path[1:])
}

func isJoinEntry(e SpaceEntry) bool {
	_, ok := e.(*StructSpaceField)
	return ok
}

// StructDef implements FieldSpace.
func (s *StaticSpace) StructDef() *schema.StructDef { return s.structDef }

// EmptyStructDef implements FieldSpace.
func (s *StaticSpace) EmptyStructDef() *schema.StructDef {
	return &schema.StructDef{
		Name:       s.structDef.Name,
		Dialect:    s.structDef.Dialect,
		Parameters: s.structDef.Parameters,
	}
}

// Dialect implements FieldSpace.
func (s *StaticSpace) Dialect() string { return s.structDef.Dialect }

// WhenComplete implements FieldSpace; a StaticSpace is already complete,
// so callbacks run immediately.
func (s *StaticSpace) WhenComplete(cb func()) { cb() }

// References returns the reference records emitted by lookups so far, for
// downstream tooling.
func (s *StaticSpace) References() []ReferenceRecord { return s.refs }

func notFoundMessage(name string, candidates []string) string {
	if sug, ok := Suggest(name, candidates); ok {
		return fmt.Sprintf("'%s' is not defined, did you mean '%s'?", name, sug)
	}
	return fmt.Sprintf("'%s' is not defined", name)
}

var _ FieldSpace = (*StaticSpace)(nil)
