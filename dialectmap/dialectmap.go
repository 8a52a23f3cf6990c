// Package dialectmap is the static registry of built-in Dialects consulted
// by dialect-aware expression emission hooks (spec.md §4.6 "Dialect map").
package dialectmap

import "sort"

// Dialect names a target SQL engine's emission quirks; the core never
// renders SQL itself, it only stamps a StructDef with the name a
// downstream per-dialect writer keys its behavior on.
type Dialect struct {
	Name string

	// QuoteChar is this dialect's identifier quote character (downstream
	// writer concern; carried here only as the field a writer would key
	// off of).
	QuoteChar string

	// SupportsDivisionByZeroNull reports whether `a / 0` evaluates to NULL
	// rather than raising — a dialect-aware hook matching spec.md §4.3's
	// division fragment's need for dialect context.
	SupportsDivisionByZeroNull bool
}

var registry = map[string]Dialect{
	"postgres": {Name: "postgres", QuoteChar: `"`, SupportsDivisionByZeroNull: false},
	"mysql":    {Name: "mysql", QuoteChar: "`", SupportsDivisionByZeroNull: true},
	"sqlite":   {Name: "sqlite", QuoteChar: `"`, SupportsDivisionByZeroNull: false},
	"duckdb":   {Name: "duckdb", QuoteChar: `"`, SupportsDivisionByZeroNull: false},
}

// GetDialect returns the named built-in Dialect, ok=false if unregistered.
func GetDialect(name string) (Dialect, bool) {
	d, ok := registry[name]
	return d, ok
}

// Register adds or overrides a dialect, used by a driver wiring in a
// custom target.
func Register(d Dialect) { registry[d.Name] = d }

// List returns every registered dialect, sorted by name.
func List() []Dialect {
	out := make([]Dialect, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
