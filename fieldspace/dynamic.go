package fieldspace

import (
	"fmt"

	"github.com/fzakaria/malloy/ast"
	"github.com/fzakaria/malloy/schema"
)

// spaceState is the Mutable → Finalizing → Frozen state machine every
// finalize-once space runs through (spec.md §3 Lifecycle / §9).
type spaceState int

const (
	stateMutable spaceState = iota
	stateFinalizing
	stateFrozen
)

// DynamicSpace is a StaticSpace that accepts incremental additions before
// finalizing into a StructDef. Finalization emits fields in deterministic
// order — atomic fields, then joins, then turtles — followed by a fixup
// pass that resolves join-on expressions against the now-complete space
// (spec.md §4.2).
type DynamicSpace struct {
	dialect    string
	name       string
	entries    map[string]SpaceEntry
	order      []string
	state      spaceState
	callbacks  []func()
	frozen     *schema.StructDef
	joinFixups []func(FieldSpace)
}

// NewDynamicSpace starts an empty mutable space over the given dialect.
func NewDynamicSpace(name, dialect string) *DynamicSpace {
	return &DynamicSpace{name: name, dialect: dialect, entries: make(map[string]SpaceEntry)}
}

// FilteredFrom constructs a DynamicSpace seeded from an existing StructDef
// with an accept/except filter applied over the seed entries.
func FilteredFrom(src *schema.StructDef, editKind int, fields []string) (*DynamicSpace, error) {
	ds := NewDynamicSpace(src.Name, src.Dialect)
	allow := make(map[string]bool, len(fields))
	for _, f := range fields {
		allow[f] = true
	}
	for _, f := range src.Fields {
		name := f.OutputName()
		switch editKind {
		case 0: // accept
			if !allow[name] {
				continue
			}
		case 1: // except
			if allow[name] {
				continue
			}
		}
		if err := ds.addFieldDef(f); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (s *DynamicSpace) mustBeMutable(op string) error {
	if s.state != stateMutable {
		return fmt.Errorf("cannot %s: field space is already finalized", op)
	}
	return nil
}

// AddField binds a plain name→entry pair (used for renames, bare
// expression fields, wildcard placeholders, references).
func (s *DynamicSpace) AddField(name string, e SpaceEntry) error {
	if err := s.mustBeMutable("add field"); err != nil {
		return err
	}
	if _, exists := s.entries[name]; !exists {
		s.order = append(s.order, name)
	}
	s.entries[name] = e
	return nil
}

// NewEntry is an alias for AddField matching the spec's naming
// (spec.md §4.2 lists `addField`, `newEntry` as distinct incremental
// mutators on DynamicSpace; both share this implementation since neither
// carries extra behavior beyond binding a name).
func (s *DynamicSpace) NewEntry(name string, e SpaceEntry) error { return s.AddField(name, e) }

// AddParameters installs a batch of source parameters.
func (s *DynamicSpace) AddParameters(params []*schema.Parameter) error {
	if err := s.mustBeMutable("add parameters"); err != nil {
		return err
	}
	for _, p := range params {
		if p.Satisfied() {
			if err := s.AddField(p.Name, &DefinedParameter{entryBase{p.Name}, p}); err != nil {
				return err
			}
		} else {
			if err := s.AddField(p.Name, &AbstractParameter{entryBase{p.Name}, p}); err != nil {
				return err
			}
		}
	}
	return nil
}

// addFieldDef installs an already-built FieldDef (used by FilteredFrom,
// NewQuerySpace and QuerySpace.ExtendSource).
func (s *DynamicSpace) addFieldDef(f schema.FieldDef) error {
	return s.AddField(f.OutputName(), toEntry(f))
}

// AddJoin records a join together with its `on` expression. It does not
// evaluate `on` or queue a fixup for it; a caller that wants the condition
// checked against the finished space registers one with RegisterFixup.
func (s *DynamicSpace) AddJoin(name string, src *schema.StructDef, many bool, on ast.Expression) error {
	if err := s.AddField(name, &JoinSpaceField{entryBase{name}, src, many, on}); err != nil {
		return err
	}
	return nil
}

// RegisterFixup queues fn to run once, against this space, at the moment
// it finalizes — after every field it will ever carry is bound. Callers
// use this to resolve a join's `on` expression against siblings that may
// be declared later in the same segment (spec.md §4.2 "fixup" pass).
func (s *DynamicSpace) RegisterFixup(fn func(FieldSpace)) {
	if s.state == stateFrozen {
		fn(s)
		return
	}
	s.joinFixups = append(s.joinFixups, fn)
}

// Lookup implements FieldSpace.
func (s *DynamicSpace) Lookup(path []string) LookupResult {
	if len(path) == 0 {
		return LookupResult{Found: false, Error: "empty reference"}
	}
	entry, ok := s.entries[path[0]]
	if !ok {
		return LookupResult{Found: false, Error: notFoundMessage(path[0], s.order)}
	}
	if len(path) == 1 {
		return LookupResult{Found: true, Entry: entry}
	}
	nested, ok := entry.(*StructSpaceField)
	if !ok {
		return LookupResult{Found: false, Error: fmt.Sprintf("'%s' cannot contain '%s'", path[0], path[1])}
	}
	return nested.Space.Lookup(path[1:])
}

// StructDef implements FieldSpace: finalizing on first structural read.
func (s *DynamicSpace) StructDef() *schema.StructDef {
	s.finalize()
	return s.frozen
}

// EmptyStructDef implements FieldSpace, without forcing finalization.
func (s *DynamicSpace) EmptyStructDef() *schema.StructDef {
	return &schema.StructDef{Name: s.name, Dialect: s.dialect}
}

func (s *DynamicSpace) Dialect() string { return s.dialect }

// WhenComplete registers a callback run, in registration order, at the
// moment this space finalizes.
func (s *DynamicSpace) WhenComplete(cb func()) {
	if s.state == stateFrozen {
		cb()
		return
	}
	s.callbacks = append(s.callbacks, cb)
}

// finalize transitions Mutable → Finalizing → Frozen exactly once,
// emitting fields in the order atomic, joins, turtles, then running the
// join-on fixup pass and draining completion callbacks.
func (s *DynamicSpace) finalize() {
	if s.state != stateMutable {
		return
	}
	s.state = stateFinalizing

	var atomics, joins, turtles []schema.FieldDef
	for _, name := range s.order {
		switch e := s.entries[name].(type) {
		case *ColumnSpaceField:
			atomics = append(atomics, e.Field)
		case *JoinSpaceField:
			joinStruct := e.Source
			joins = append(joins, schema.JoinFieldDef{Name: name, Struct: joinStruct, Many: e.Many})
		case *StructSpaceField:
			joins = append(joins, schema.JoinFieldDef{Name: name, Struct: e.Space.StructDef(), Many: e.Many})
		case *QueryField:
			turtles = append(turtles, schema.TurtleFieldDef{Name: name, Pipeline: e.Pipeline})
		}
	}

	fields := make([]schema.FieldDef, 0, len(atomics)+len(joins)+len(turtles))
	fields = append(fields, atomics...)
	fields = append(fields, joins...)
	fields = append(fields, turtles...)

	s.frozen = &schema.StructDef{
		Name:    s.name,
		Dialect: s.dialect,
		Fields:  fields,
	}

	s.state = stateFrozen

	// Fixup pass: join-on expressions resolve against the now-complete
	// space, which by construction includes every sibling this join could
	// reference.
	for _, fix := range s.joinFixups {
		fix(s)
	}

	for _, cb := range s.callbacks {
		cb()
	}
}

var _ FieldSpace = (*DynamicSpace)(nil)
