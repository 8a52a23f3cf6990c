package dialectmap_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/dialectmap"
)

func TestGetDialectKnownNames(t *testing.T) {
	for _, name := range []string{"postgres", "mysql", "sqlite", "duckdb"} {
		d, ok := dialectmap.GetDialect(name)
		require.True(t, ok, name)
		require.Equal(t, name, d.Name)
	}
}

func TestGetDialectUnknownNameNotOK(t *testing.T) {
	_, ok := dialectmap.GetDialect("oracle")
	require.False(t, ok)
}

func TestRegisterAddsNewDialect(t *testing.T) {
	dialectmap.Register(dialectmap.Dialect{Name: "redshift", QuoteChar: `"`})
	d, ok := dialectmap.GetDialect("redshift")
	require.True(t, ok)
	require.Equal(t, `"`, d.QuoteChar)
}

func TestListIncludesRegisteredDialectsSortedByName(t *testing.T) {
	dialects := dialectmap.List()
	var names []string
	for _, d := range dialects {
		names = append(names, d.Name)
	}
	require.Contains(t, names, "postgres")
	require.Contains(t, names, "mysql")
	require.True(t, sort.StringsAreSorted(names))
}
