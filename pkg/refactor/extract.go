package refactor

import (
	"fmt"
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/jsxtract/pkg/parser"
)

// ExtractionContext carries one extraction request: the full document text,
// the selected byte range, the new component's name and its output shape.
type ExtractionContext struct {
	Name  string
	Text  string
	Start int
	End   int
	Class bool
	Style Style
}

// RefactorResult is the outcome of an extraction. ReplaceJSXCode substitutes
// the selection in the original document, ComponentCode is the declaration
// of the new component, and InsertAt is the byte offset in the document
// where that declaration belongs (just before the enclosing component,
// above its leading comments).
type RefactorResult struct {
	ReplaceJSXCode string `json:"replaceJSXCode"`
	ComponentCode  string `json:"componentCode"`
	InsertAt       int    `json:"insertAt"`
}

// Extractor runs the extraction pipeline: probe, parse, resolve, coalesce,
// bind, emit. Safe for concurrent use; all per-request state lives on the
// stack.
type Extractor struct {
	parser *parser.Parser
	probe  *Probe
	logger *slog.Logger
}

// NewExtractor creates an extractor backed by the given parser.
func NewExtractor(p *parser.Parser, logger *slog.Logger) *Extractor {
	return &Extractor{
		parser: p,
		probe:  NewProbe(p),
		logger: logger,
	}
}

// IsExtractable reports whether fragment is a self-contained JSX expression
// that Extract would accept without wrapping.
func (e *Extractor) IsExtractable(fragment string) bool {
	return e.probe.IsJSX(fragment)
}

// Extract pulls the selected markup out of its component, rewrites its
// outer-scope reads as prop accesses, and renders both the new component
// declaration and the usage tag that replaces the selection.
//
// A selection that is not valid JSX on its own gets one recovery attempt:
// it is wrapped in a synthetic <div> and retried, which covers selections
// of multiple sibling elements. Selections that still do not parse yield
// ErrInvalidJSX; selections outside any component yield ErrInvalidComponent.
func (e *Extractor) Extract(ctx ExtractionContext) (*RefactorResult, error) {
	if ctx.Start < 0 || ctx.End < ctx.Start || ctx.End > len(ctx.Text) {
		return nil, fmt.Errorf("selection [%d, %d) out of range for document of %d bytes", ctx.Start, ctx.End, len(ctx.Text))
	}
	name := NormalizeComponentName(ctx.Name)
	if name == "" {
		return nil, fmt.Errorf("component name is required")
	}

	working := ctx.Text
	end := ctx.End
	fragment := ctx.Text[ctx.Start:ctx.End]
	if !e.probe.IsJSX(fragment) {
		wrapped := "<div>" + fragment + "</div>"
		if !e.probe.IsJSX(wrapped) {
			return nil, ErrInvalidJSX
		}
		working = ctx.Text[:ctx.Start] + wrapped + ctx.Text[ctx.End:]
		end = ctx.Start + len(wrapped)
		e.logger.Debug("selection wrapped in synthetic root", "start", ctx.Start, "end", ctx.End)
	}

	tree, err := e.parser.Parse(working)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	resolver := NewResolver(tree)
	selected := resolver.FindSelectedElement(ctx.Start, end)
	if selected == nil {
		return nil, ErrInvalidJSX
	}
	component, err := resolver.FindEnclosingComponent(selected.Node)
	if err != nil {
		return nil, err
	}

	refs := resolver.FindExternalReferences(component.Node, selected.Node, selected.Start(), selected.End())
	containers := Coalesce(refs)

	style := ctx.Style
	if style == "" {
		style = StyleFunction
	}
	if ctx.Class {
		style = StyleClass
	}

	src := []byte(working)
	props, edits := BindProps(refs, containers, style == StyleClass, selected.Node, src)

	body := edits.ApplyTo(working[selected.Start():selected.End()], selected.Start())

	result := &RefactorResult{
		ReplaceJSXCode: RenderTag(name, props.Props()),
		ComponentCode:  RenderComponent(name, body, style),
		InsertAt:       insertionOffset(component.Node),
	}
	e.logger.Debug("extraction complete",
		"component", name,
		"props", props.Len(),
		"containers", len(containers),
		"insertAt", result.InsertAt)
	return result, nil
}

// insertionOffset finds where the new component declaration should be
// inserted: the start of the statement declaring the enclosing component,
// lifted above any comment lines attached directly to it.
func insertionOffset(component *ts.Node) int {
	stmt := component
	for parent := stmt.Parent(); parent != nil; parent = stmt.Parent() {
		switch parent.Kind() {
		case "lexical_declaration", "variable_declaration", "export_statement":
			stmt = parent
		default:
			offset := int(stmt.StartByte())
			for prev := stmt.PrevSibling(); prev != nil && prev.Kind() == "comment"; prev = prev.PrevSibling() {
				offset = int(prev.StartByte())
			}
			return offset
		}
	}
	return int(stmt.StartByte())
}

// InsertedLineSpan computes the 1-based line range the component code would
// occupy once inserted into doc at insertAt. Used by extract-to-file
// callers to report where the new component landed.
func InsertedLineSpan(doc string, insertAt int, componentCode string) (first, last int) {
	if insertAt > len(doc) {
		insertAt = len(doc)
	}
	first = strings.Count(doc[:insertAt], "\n") + 1
	last = first + strings.Count(componentCode, "\n")
	return first, last
}
