package refactor

import (
	"strings"

	"github.com/gnana997/jsxtract/pkg/parser"
)

// Probe decides whether an arbitrary text fragment is a syntactically
// valid, self-contained JSX expression. It is called speculatively and
// often, so parse failures are translated to false, never surfaced.
type Probe struct {
	parser *parser.Parser
}

// NewProbe creates a probe backed by the given parser (and its cache).
func NewProbe(p *parser.Parser) *Probe {
	return &Probe{parser: p}
}

// IsJSX reports whether fragment parses as a standalone JSX expression
// statement. Anything else (plain text, a bare identifier, malformed
// markup, a non-JSX expression) yields false.
func (p *Probe) IsJSX(fragment string) bool {
	trimmed := strings.TrimSpace(fragment)

	// Fast reject before paying for a parse.
	if !strings.HasPrefix(trimmed, "<") || !strings.HasSuffix(trimmed, ">") {
		return false
	}

	tree, err := p.parser.Parse(trimmed)
	if err != nil {
		return false
	}

	root := tree.Root()
	if root.NamedChildCount() != 1 {
		return false
	}
	stmt := root.NamedChild(0)
	if stmt.Kind() != "expression_statement" {
		return false
	}
	expr := stmt.NamedChild(0)
	return expr != nil && isJSXKind(expr.Kind())
}
