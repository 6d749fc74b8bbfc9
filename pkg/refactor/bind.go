package refactor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Prop is one attribute of the generated component tag: Name is the prop
// identifier, Value the expression passed from the call site.
type Prop struct {
	Name  string
	Value string
}

// PropsMap accumulates props in first-registration order while keeping
// names unique. Registering the same value under the same name is
// idempotent; a name collision with a different value prepends underscores
// until a free name is found.
type PropsMap struct {
	props []Prop
	index map[string]int
}

// NewPropsMap creates an empty props map.
func NewPropsMap() *PropsMap {
	return &PropsMap{index: make(map[string]int)}
}

// Register reserves a prop name for value and returns the name actually
// assigned, which differs from the requested one only on collision.
func (m *PropsMap) Register(name, value string) string {
	for {
		idx, ok := m.index[name]
		if !ok {
			m.index[name] = len(m.props)
			m.props = append(m.props, Prop{Name: name, Value: value})
			return name
		}
		if m.props[idx].Value == value {
			return name
		}
		name = "_" + name
	}
}

// Props returns the registered props in registration order.
func (m *PropsMap) Props() []Prop {
	return m.props
}

// Len returns the number of registered props.
func (m *PropsMap) Len() int {
	return len(m.props)
}

// BindProps turns the resolved external references into component props and
// the edits that rewrite each read site to go through the prop channel.
// A `key` attribute on the selected element is handled first: React keys
// belong on the call site, so the attribute is stripped from the extracted
// markup and re-emitted on the generated tag.
func BindProps(refs []NodeHandle, containers []ContainerObject, produceClass bool, selected *ts.Node, src []byte) (*PropsMap, *EditList) {
	props := NewPropsMap()
	edits := &EditList{}

	captureKeyAttribute(selected, src, props, edits)

	prefix := "props."
	if produceClass {
		prefix = "this.props."
	}

	for _, ref := range refs {
		if edits.Removed(ref.Start(), ref.End()) {
			continue
		}

		if method, ok := isBindCall(ref.Node, src); ok {
			name := props.Register(method, ref.Text())
			edits.Replace(ref.Start(), ref.End(), prefix+name)
			continue
		}

		switch ref.Node.Kind() {
		case "member_expression", "subscript_expression":
			bindMemberRef(ref, containers, prefix, props, edits, src)
		case "identifier", "shorthand_property_identifier":
			text := ref.Text()
			name := props.Register(text, text)
			edits.Replace(ref.Start(), ref.End(), prefix+name)
		}
	}
	return props, edits
}

// bindMemberRef rewrites one member-access reference. References rooted in a
// container object are rerouted through the container prop, keeping the
// remainder of the access path intact; everything else becomes a standalone
// prop named after the final property.
func bindMemberRef(ref NodeHandle, containers []ContainerObject, prefix string, props *PropsMap, edits *EditList, src []byte) {
	obj := ref.Node.ChildByFieldName("object")
	if obj == nil {
		return
	}
	rootText := NodeHandle{Node: obj, src: src}.Text()
	refText := ref.Text()

	for _, c := range containers {
		if rootText != c.Object && !strings.HasPrefix(rootText, c.Object+".") {
			continue
		}
		name := props.Register(c.Property, c.Object)
		rest := refText[len(c.Object):]
		edits.Replace(ref.Start(), ref.End(), prefix+name+rest)
		return
	}

	name := memberProperty(ref.Node, src)
	if name == "" {
		name = lastSegment(rootText)
	}
	final := props.Register(name, refText)
	edits.Replace(ref.Start(), ref.End(), prefix+final)
}

// captureKeyAttribute looks for a `key={expr}` attribute on the selected
// element's opening tag. When found, the inner expression is registered as
// the `key` prop and the whole attribute, including the whitespace before
// it, is deleted from the extracted markup.
func captureKeyAttribute(selected *ts.Node, src []byte, props *PropsMap, edits *EditList) {
	opening := openingElement(selected)
	if opening == nil {
		return
	}
	for i := uint(0); i < uint(opening.NamedChildCount()); i++ {
		attr := opening.NamedChild(i)
		if attr.Kind() != "jsx_attribute" {
			continue
		}
		nameNode := attr.NamedChild(0)
		if nameNode == nil || nameNode.Utf8Text(src) != "key" {
			continue
		}
		expr := attr.NamedChild(1)
		if expr == nil || expr.Kind() != "jsx_expression" {
			continue
		}
		inner := expr.NamedChild(0)
		if inner == nil {
			continue
		}

		props.Register("key", inner.Utf8Text(src))

		start := int(attr.StartByte())
		for start > 0 && (src[start-1] == ' ' || src[start-1] == '\t') {
			start--
		}
		edits.Delete(start, int(attr.EndByte()))
		return
	}
}

// openingElement returns the node carrying a JSX element's attributes.
func openingElement(selected *ts.Node) *ts.Node {
	switch selected.Kind() {
	case "jsx_self_closing_element":
		return selected
	case "jsx_element":
		for i := uint(0); i < uint(selected.NamedChildCount()); i++ {
			child := selected.NamedChild(i)
			if child.Kind() == "jsx_opening_element" {
				return child
			}
		}
	}
	return nil
}
