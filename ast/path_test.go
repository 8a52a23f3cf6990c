package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fzakaria/malloy/ast"
)

func TestParsePathSingleSegment(t *testing.T) {
	segs, err := ast.ParsePath("orders")
	require.NoError(t, err)
	require.Equal(t, []string{"orders"}, segs)
}

func TestParsePathDottedSegments(t *testing.T) {
	segs, err := ast.ParsePath("orders.line_items.sku")
	require.NoError(t, err)
	require.Equal(t, []string{"orders", "line_items", "sku"}, segs)
}

func TestParsePathEmptySegmentRoundTrips(t *testing.T) {
	// tokenizePath always emits a matching ident/dot/ident shape for any
	// input, so a trailing dot parses as an empty trailing segment rather
	// than failing — callers validate segment non-emptiness themselves.
	segs, err := ast.ParsePath("orders.")
	require.NoError(t, err)
	require.Equal(t, []string{"orders", ""}, segs)
}
