// Package schemazone is a reference source.SchemaZone backed by a local
// SQLite catalog, grounded on the teacher pack's GORM+sqlite usage
// (termfx-morfx's db package). It is swappable: any process standing up
// its own source.SchemaZone never needs this package.
package schemazone

import (
	"encoding/json"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/source"
	"github.com/fzakaria/malloy/typeval"
)

// tableSchema is the GORM-migrated row backing one catalog entry: a
// table or sql-block name plus its column list, serialized since GORM has
// no native mapping for our tagged FieldDef interface.
type tableSchema struct {
	Name        string `gorm:"primaryKey"`
	Dialect     string
	ColumnsJSON string
	ErrMessage  string // set when this name resolves to a recorded error
}

type column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Catalog is a GORM-backed SchemaZone: one row per table/sql-block name.
type Catalog struct {
	db *gorm.DB
}

// Open connects to the SQLite file at dsn (":memory:" for an ephemeral
// catalog) and migrates the schema table.
func Open(dsn string) (*Catalog, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("schemazone: failed to connect: %w", err)
	}
	if err := db.AutoMigrate(&tableSchema{}); err != nil {
		return nil, fmt.Errorf("schemazone: migration failed: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Put registers sd under name, overwriting any prior entry. Used to seed
// the catalog from a model file or an introspected live database.
func (c *Catalog) Put(name string, sd *schema.StructDef) error {
	cols := make([]column, 0, len(sd.Fields))
	for _, f := range sd.Fields {
		if af, ok := f.(schema.AtomicFieldDef); ok {
			cols = append(cols, column{Name: af.Name, Type: af.Type.String()})
		}
	}
	buf, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	row := tableSchema{Name: name, Dialect: sd.Dialect, ColumnsJSON: string(buf)}
	return c.db.Save(&row).Error
}

// PutError records that name resolves to a recorded schema-read failure,
// surfaced as ZoneError on GetEntry.
func (c *Catalog) PutError(name, message string) error {
	row := tableSchema{Name: name, ErrMessage: message}
	return c.db.Save(&row).Error
}

// GetEntry implements source.SchemaZone.
func (c *Catalog) GetEntry(name string) source.ZoneEntry {
	var row tableSchema
	if err := c.db.First(&row, "name = ?", name).Error; err != nil {
		return source.ZoneEntry{Status: source.ZoneReference}
	}
	if row.ErrMessage != "" {
		return source.ZoneEntry{Status: source.ZoneError, Message: row.ErrMessage}
	}
	var cols []column
	if err := json.Unmarshal([]byte(row.ColumnsJSON), &cols); err != nil {
		return source.ZoneEntry{Status: source.ZoneError, Message: err.Error()}
	}
	sd := &schema.StructDef{Name: row.Name, Dialect: row.Dialect}
	for _, col := range cols {
		sd.Fields = append(sd.Fields, schema.AtomicFieldDef{Name: col.Name, Type: parseType(col.Type)})
	}
	return source.ZoneEntry{Status: source.ZonePresent, Value: sd}
}

// Reference is a no-op: this reference catalog doesn't track dependency
// edges across re-invocations.
func (c *Catalog) Reference(name string) {}

func parseType(name string) typeval.AtomicFieldType {
	switch name {
	case "string":
		return typeval.TypeString
	case "number":
		return typeval.TypeNumber
	case "boolean":
		return typeval.TypeBoolean
	case "date":
		return typeval.TypeDate
	case "timestamp":
		return typeval.TypeTimestamp
	default:
		return typeval.TypeUnknown
	}
}

var _ source.SchemaZone = (*Catalog)(nil)
