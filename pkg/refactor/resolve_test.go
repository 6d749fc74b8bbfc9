package refactor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsxtract/pkg/parser"
)

func parseDoc(t *testing.T, doc string) *Resolver {
	t.Helper()
	tree, err := parser.NewParser(testLogger()).Parse(doc)
	require.NoError(t, err)
	return NewResolver(tree)
}

// selection returns the byte range of needle within doc.
func selection(t *testing.T, doc, needle string) (int, int) {
	t.Helper()
	start := strings.Index(doc, needle)
	require.GreaterOrEqual(t, start, 0, "needle %q not in document", needle)
	return start, start + len(needle)
}

func TestFindSelectedElement(t *testing.T) {
	doc := `function App() {
  return <ul><li>one</li></ul>;
}`
	r := parseDoc(t, doc)

	start, end := selection(t, doc, "<li>one</li>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	assert.Equal(t, "<li>one</li>", sel.Text())

	// Widening the range still returns the first fully contained element.
	outer := r.FindSelectedElement(0, len(doc))
	require.NotNil(t, outer)
	assert.Equal(t, "<ul><li>one</li></ul>", outer.Text())
}

func TestFindSelectedElementNoJSX(t *testing.T) {
	doc := `const n = 1 + 2;`
	r := parseDoc(t, doc)
	assert.Nil(t, r.FindSelectedElement(0, len(doc)))
}

func TestFindEnclosingComponent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind string
	}{
		{
			"class component",
			"class Foo extends Component {\n  render() {\n    return <div />;\n  }\n}",
			"class_declaration",
		},
		{
			"function declaration",
			"function Foo() {\n  return <div />;\n}",
			"function_declaration",
		},
		{
			"arrow declarator",
			"const Foo = () => <div />;",
			"variable_declarator",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := parseDoc(t, tt.doc)
			start, end := selection(t, tt.doc, "<div />")
			sel := r.FindSelectedElement(start, end)
			require.NotNil(t, sel)

			comp, err := r.FindEnclosingComponent(sel.Node)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, comp.Node.Kind())
		})
	}
}

func TestFindEnclosingComponentMissing(t *testing.T) {
	doc := `<div />;`
	r := parseDoc(t, doc)
	sel := r.FindSelectedElement(0, len(doc))
	require.NotNil(t, sel)

	_, err := r.FindEnclosingComponent(sel.Node)
	assert.ErrorIs(t, err, ErrInvalidComponent)
}

func refTexts(refs []NodeHandle) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Text()
	}
	return out
}

func TestFindExternalReferencesClassState(t *testing.T) {
	doc := `class Foo extends Component {
  render() {
    return <div>{this.state.x}</div>;
  }
}`
	r := parseDoc(t, doc)
	start, end := selection(t, doc, "<div>{this.state.x}</div>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)

	refs := r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
	assert.Equal(t, []string{"this.state.x"}, refTexts(refs))
}

func TestFindExternalReferencesIteratorParam(t *testing.T) {
	doc := `function List(props) {
  return (
    <ul>
      {props.items.map(item => (
        <li key={item.id}>{item.name}</li>
      ))}
    </ul>
  );
}`
	r := parseDoc(t, doc)
	start, end := selection(t, doc, "<li key={item.id}>{item.name}</li>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)
	assert.Equal(t, "function_declaration", comp.Node.Kind())

	refs := r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
	assert.Equal(t, []string{"item.id", "item.name"}, refTexts(refs))
}

func TestFindExternalReferencesOuterLocals(t *testing.T) {
	doc := `function Panel() {
  const a = getA();
  const b = getB();
  return <div>{a.value}{b.value}</div>;
}`
	r := parseDoc(t, doc)
	start, end := selection(t, doc, "<div>{a.value}{b.value}</div>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)

	refs := r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
	assert.Equal(t, []string{"a.value", "b.value"}, refTexts(refs))
}

func TestFindExternalReferencesShadowedLocal(t *testing.T) {
	doc := `function Widget() {
  const z = outer();
  return <div>{(() => { const z = inner(); return z.name; })()}</div>;
}`
	r := parseDoc(t, doc)
	start, end := selection(t, doc, "<div>{(() => { const z = inner(); return z.name; })()}</div>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)

	// The inner const rebinds z; its reads belong to the inner binding and
	// must not surface as references to the outer local.
	refs := r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
	assert.Empty(t, refTexts(refs))
}

func TestFindExternalReferencesShadowedAndOuterReads(t *testing.T) {
	doc := `function Widget() {
  const z = outer();
  return <div>{z.label}{(() => { const z = inner(); return z.name; })()}</div>;
}`
	r := parseDoc(t, doc)
	start, end := selection(t, doc, "<div>{z.label}{(() => { const z = inner(); return z.name; })()}</div>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)

	refs := r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
	assert.Equal(t, []string{"z.label"}, refTexts(refs))
}

func TestFindExternalReferencesBindCall(t *testing.T) {
	doc := `class Form extends Component {
  render() {
    return <button onClick={this.onSubmit.bind(this)}>go</button>;
  }
}`
	r := parseDoc(t, doc)
	start, end := selection(t, doc, "<button onClick={this.onSubmit.bind(this)}>go</button>")
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)

	refs := r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
	assert.Equal(t, []string{"this.onSubmit.bind(this)"}, refTexts(refs))
}
