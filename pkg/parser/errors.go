package parser

import "fmt"

// ParseError reports that source text failed to parse under the configured
// dialect set. Positions are 1-based for display.
type ParseError struct {
	Line    int
	Column  int
	Snippet string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Snippet)
	}
	return fmt.Sprintf("syntax error at %d:%d", e.Line, e.Column)
}
