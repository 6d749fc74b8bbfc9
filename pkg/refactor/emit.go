package refactor

import (
	"fmt"
	"strings"
	"unicode"
)

// Style selects the shape of the generated component.
type Style string

const (
	StyleFunction      Style = "function"
	StyleArrowFunction Style = "arrowFunction"
	StyleClass         Style = "class"
)

// ParseStyle maps a user-supplied style name to a Style, defaulting to
// StyleFunction for anything unrecognized or empty.
func ParseStyle(name string) Style {
	switch Style(name) {
	case StyleArrowFunction:
		return StyleArrowFunction
	case StyleClass:
		return StyleClass
	}
	return StyleFunction
}

// RenderComponent renders the declaration of the new component around the
// extracted markup. The body is emitted as-is; callers pass it already
// rewritten to read from props.
func RenderComponent(name, body string, style Style) string {
	switch style {
	case StyleClass:
		return fmt.Sprintf("class %s extends Component {\n  render() {\n    return (\n%s\n    );\n  }\n}", name, body)
	case StyleArrowFunction:
		return fmt.Sprintf("const %s = (props) => (\n%s\n);", name, body)
	default:
		return fmt.Sprintf("function %s(props) {\n  return (\n%s\n  );\n}", name, body)
	}
}

// RenderTag renders the self-closing usage tag that replaces the selection,
// with one attribute per prop in registration order.
func RenderTag(name string, props []Prop) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for _, p := range props {
		fmt.Fprintf(&b, " %s={%s}", p.Name, p.Value)
	}
	b.WriteString(" />")
	return b.String()
}

// NormalizeComponentName turns free-form input into a valid component
// identifier: split on whitespace, dashes and underscores, capitalize each
// segment, join. "user card" and "user-card" both become "UserCard".
func NormalizeComponentName(raw string) string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	var b strings.Builder
	for _, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
