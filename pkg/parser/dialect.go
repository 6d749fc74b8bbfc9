package parser

import "strings"

// Dialect names a grammar extension the parser understands. The set of
// enabled dialects is supplied by configuration and may change at runtime;
// a change invalidates all cached parse trees.
type Dialect string

const (
	// DialectJSX enables JSX element syntax. It is always on in practice:
	// both grammars below parse JSX.
	DialectJSX Dialect = "jsx"
	// DialectTypeScript switches parsing to the TSX grammar.
	DialectTypeScript Dialect = "typescript"
	// DialectClassProperties accepts class property syntax. The bundled
	// grammars already parse it; the name is kept for config compatibility.
	DialectClassProperties Dialect = "classProperties"
	// DialectObjectRestSpread accepts object rest/spread syntax. Same
	// remark as DialectClassProperties.
	DialectObjectRestSpread Dialect = "objectRestSpread"
)

// DefaultDialects returns the dialect set used when no configuration is
// present: plain JavaScript with JSX, rest/spread and class properties.
func DefaultDialects() []Dialect {
	return []Dialect{DialectJSX, DialectObjectRestSpread, DialectClassProperties}
}

// ParseDialect converts a config string to a Dialect.
// Returns false if the name is not recognized.
func ParseDialect(name string) (Dialect, bool) {
	switch strings.TrimSpace(name) {
	case "jsx":
		return DialectJSX, true
	case "typescript", "tsx":
		return DialectTypeScript, true
	case "classProperties":
		return DialectClassProperties, true
	case "objectRestSpread":
		return DialectObjectRestSpread, true
	default:
		return "", false
	}
}

// grammar identifies which tree-sitter grammar backs a dialect set.
type grammar int

const (
	grammarJavaScript grammar = iota
	grammarTSX
)

// String returns the string representation of the grammar.
func (g grammar) String() string {
	switch g {
	case grammarTSX:
		return "tsx"
	default:
		return "javascript"
	}
}

// grammarFor maps a dialect set to the grammar that parses it. The
// TypeScript dialect selects TSX (TypeScript with JSX); everything else is
// handled by the JavaScript grammar, which has JSX built in.
func grammarFor(dialects []Dialect) grammar {
	for _, d := range dialects {
		if d == DialectTypeScript {
			return grammarTSX
		}
	}
	return grammarJavaScript
}

// dialectsEqual reports whether two dialect sets are identical, order
// included (the set is ordered per the external interface contract).
func dialectsEqual(a, b []Dialect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
