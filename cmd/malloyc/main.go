// Command malloyc is the ambient CLI wrapping the compiler core: it
// manages the reference SQLite-backed schema zone and lists the built-in
// dialect registry. Compiling actual Malloy source requires an external
// parser producing the ast.Document this core consumes (spec.md §6
// "Consumed"); that parser is outside this repository's scope, so this
// CLI's commands operate on the schema zone and dialect map directly
// rather than pretending to parse source text.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context carries global flags shared by every subcommand.
type Context struct {
	CatalogDSN string
	Quiet      bool
}

var cli struct {
	Catalog string `help:"SQLite DSN for the schema zone catalog" default:"malloy_catalog.db"`
	Quiet   bool   `help:"Suppress non-error output" short:"q"`

	SchemaImport SchemaImportCmd `cmd:"" help:"Load table schemas from a YAML config into the catalog"`
	SchemaShow   SchemaShowCmd   `cmd:"" help:"Print one catalog entry"`
	Dialects     DialectsCmd     `cmd:"" help:"List the built-in SQL dialects"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("malloyc"), kong.Description("Malloy semantic-analysis toolkit"))
	runCtx := &Context{CatalogDSN: cli.Catalog, Quiet: cli.Quiet}
	if err := ctx.Run(runCtx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
