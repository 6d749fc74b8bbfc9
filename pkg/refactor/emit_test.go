package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeComponentName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"UserCard", "UserCard"},
		{"user card", "UserCard"},
		{"user-card", "UserCard"},
		{"user_card", "UserCard"},
		{"  nav  bar  ", "NavBar"},
		{"item", "Item"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeComponentName(tt.raw), "input %q", tt.raw)
	}
}

func TestRenderTag(t *testing.T) {
	props := []Prop{
		{Name: "key", Value: "item.id"},
		{Name: "item", Value: "item"},
	}
	assert.Equal(t, "<Item key={item.id} item={item} />", RenderTag("Item", props))
	assert.Equal(t, "<Empty />", RenderTag("Empty", nil))
}

func TestRenderComponentStyles(t *testing.T) {
	body := "<div />"

	fn := RenderComponent("Card", body, StyleFunction)
	assert.Contains(t, fn, "function Card(props)")
	assert.Contains(t, fn, "return (")

	arrow := RenderComponent("Card", body, StyleArrowFunction)
	assert.Contains(t, arrow, "const Card = (props) =>")

	class := RenderComponent("Card", body, StyleClass)
	assert.Contains(t, class, "class Card extends Component")
	assert.Contains(t, class, "render()")
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, StyleFunction, ParseStyle("function"))
	assert.Equal(t, StyleArrowFunction, ParseStyle("arrowFunction"))
	assert.Equal(t, StyleClass, ParseStyle("class"))
	assert.Equal(t, StyleFunction, ParseStyle(""))
	assert.Equal(t, StyleFunction, ParseStyle("weird"))
}
