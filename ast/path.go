package ast

import (
	"strings"

	pc "github.com/shibukawa/parsercombinator"
)

// ParsePath parses a dotted join-path literal (as it appears inside
// exclude()/primary_key/rename name-lists, e.g. "orders.line_items.sku")
// into its segments. Grounded on parser2/parserstep2's use of
// parsercombinator for small token grammars: dotted identifiers are first
// split into a flat token list, then validated and collected with a
// combinator grammar instead of ad hoc strings.Split error handling.
func ParsePath(raw string) ([]string, error) {
	tokens := tokenizePath(raw)
	pctx := pc.NewParseContext[pathSeg]()

	segs, _, err := pathGrammar(pctx, tokens)
	if err != nil {
		return nil, err
	}
	if segs != len(tokens) {
		return nil, pc.ErrNotMatch
	}

	var out []string
	for _, t := range tokens {
		if t.Val.kind == segIdent {
			out = append(out, t.Val.text)
		}
	}
	return out, nil
}

type segKind int

const (
	segIdent segKind = iota
	segDot
)

type pathSeg struct {
	kind segKind
	text string
}

func tokenizePath(raw string) []pc.Token[pathSeg] {
	parts := strings.Split(raw, ".")
	tokens := make([]pc.Token[pathSeg], 0, len(parts)*2-1)
	for i, part := range parts {
		if i > 0 {
			tokens = append(tokens, pc.Token[pathSeg]{Type: "dot", Val: pathSeg{kind: segDot, text: "."}, Raw: "."})
		}
		tokens = append(tokens, pc.Token[pathSeg]{Type: "ident", Val: pathSeg{kind: segIdent, text: part}, Raw: part})
	}
	return tokens
}

func primitiveSeg(kind segKind) pc.Parser[pathSeg] {
	return func(_ *pc.ParseContext[pathSeg], tokens []pc.Token[pathSeg]) (int, []pc.Token[pathSeg], error) {
		if len(tokens) > 0 && tokens[0].Val.kind == kind {
			return 1, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

var (
	identSeg = primitiveSeg(segIdent)
	dotSeg   = primitiveSeg(segDot)
	pathGrammar = pc.Seq(
		identSeg,
		pc.ZeroOrMore("dotted-segment", pc.Seq(dotSeg, identSeg)),
	)
)
