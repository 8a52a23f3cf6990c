// Package source implements source resolution: turning a TableSource,
// SQLSource, NamedSource, QuerySource, or RefinedExplore AST node into a
// schema.StructDef (spec.md §4.6).
package source

import "github.com/fzakaria/malloy/schema"

// ZoneStatus tags a schema/sql zone lookup result (spec.md §6 "Consumed").
type ZoneStatus int

const (
	ZonePresent ZoneStatus = iota
	ZoneError
	ZoneReference
)

// ZoneEntry is one schema-zone or sql-zone lookup result.
type ZoneEntry struct {
	Status  ZoneStatus
	Value   *schema.StructDef
	Message string
}

// SchemaZone is the process-scoped, read-only-within-a-pass lookup table
// mapping a table/sql-block name to its resolved schema.
type SchemaZone interface {
	GetEntry(name string) ZoneEntry
	// Reference records that name was consulted, for a driver that
	// wants to track dependency edges across re-invocations; a no-op
	// implementation is legal.
	Reference(name string)
}

// ModelDataRequest is the continuation token returned by the top-level
// compiler when a dependent schema isn't resolved yet (spec.md §5/§6).
type ModelDataRequest struct {
	CompileSQL  string // name of the SQL block to compile, "" if unset
	PartialModel bool
}
