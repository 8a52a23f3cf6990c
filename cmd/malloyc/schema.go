package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/fzakaria/malloy/schema"
	"github.com/fzakaria/malloy/schemazone"
	"github.com/fzakaria/malloy/source"
	"github.com/fzakaria/malloy/typeval"
)

// modelFile is the YAML shape an operator hand-writes to seed the catalog:
// a flat list of tables, each with a name and typed columns.
type modelFile struct {
	Tables []struct {
		Name    string `yaml:"name"`
		Dialect string `yaml:"dialect"`
		Columns []struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		} `yaml:"columns"`
	} `yaml:"tables"`
}

// SchemaImportCmd loads table definitions from a YAML file into the
// catalog's schema zone.
type SchemaImportCmd struct {
	File string `arg:"" help:"YAML model file to import" type:"existingfile"`
}

func (c *SchemaImportCmd) Run(ctx *Context) error {
	raw, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("reading model file: %w", err)
	}
	var mf modelFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return fmt.Errorf("parsing model file: %w", err)
	}
	cat, err := schemazone.Open(ctx.CatalogDSN)
	if err != nil {
		return err
	}
	for _, t := range mf.Tables {
		sd := &schema.StructDef{Name: t.Name, Dialect: t.Dialect}
		for _, col := range t.Columns {
			sd.Fields = append(sd.Fields, schema.AtomicFieldDef{Name: col.Name, Type: parseYAMLType(col.Type)})
		}
		if err := cat.Put(t.Name, sd); err != nil {
			return fmt.Errorf("importing table %s: %w", t.Name, err)
		}
		if !ctx.Quiet {
			fmt.Println(color.GreenString("imported"), t.Name, fmt.Sprintf("(%d columns)", len(sd.Fields)))
		}
	}
	return nil
}

// SchemaShowCmd prints one catalog entry's resolved shape.
type SchemaShowCmd struct {
	Name string `arg:"" help:"Table or sql-block name to look up"`
}

func (c *SchemaShowCmd) Run(ctx *Context) error {
	cat, err := schemazone.Open(ctx.CatalogDSN)
	if err != nil {
		return err
	}
	entry := cat.GetEntry(c.Name)
	switch entry.Status {
	case source.ZonePresent:
		fmt.Println(color.CyanString(c.Name))
		for _, f := range entry.Value.Fields {
			if af, ok := f.(schema.AtomicFieldDef); ok {
				fmt.Printf("  %s: %s\n", af.Name, af.Type)
			}
		}
	default:
		fmt.Fprintln(os.Stderr, color.RedString("not found: %s", c.Name))
	}
	return nil
}

func parseYAMLType(name string) typeval.AtomicFieldType {
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
