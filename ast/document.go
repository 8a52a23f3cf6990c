package ast

import "github.com/google/uuid"

// Document is the top-level compilation unit: a Malloy source file's
// parsed AST plus the diagnostics accumulated while compiling it and the
// list of anonymous top-level queries discovered along the way.
type Document struct {
	Explores    map[string]*RefinedExplore
	NamedQuery  map[string]*Query
	QueryList   []*Query
	Diagnostics []Diagnostic
}

// NewDocument creates an empty compilation unit.
func NewDocument() *Document {
	return &Document{
		Explores:   make(map[string]*RefinedExplore),
		NamedQuery: make(map[string]*Query),
	}
}

func (d *Document) log(pos Position, sev Severity, msg string) {
	d.Diagnostics = append(d.Diagnostics, Diagnostic{
		Severity: sev,
		Message:  msg,
		Location: pos,
	})
}

// PushQuery records an anonymous top-level query.
func (d *Document) PushQuery(q *Query) {
	d.QueryList = append(d.QueryList, q)
}

// HasErrors reports whether any error-severity diagnostic was logged.
func (d *Document) HasErrors() bool {
	for _, diag := range d.Diagnostics {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// NewDiagnosticID mints a fresh random correlation id. Neither Diagnostic
// nor ModelDataRequest has an id field, so nothing here attaches one; a
// driver that wants to correlate re-invocations keeps the id itself.
func NewDiagnosticID() uuid.UUID {
	return uuid.New()
}
