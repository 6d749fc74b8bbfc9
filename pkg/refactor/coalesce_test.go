package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveRefs runs selection and reference resolution over doc for needle.
func resolveRefs(t *testing.T, doc, needle string) []NodeHandle {
	t.Helper()
	r := parseDoc(t, doc)
	start, end := selection(t, doc, needle)
	sel := r.FindSelectedElement(start, end)
	require.NotNil(t, sel)
	comp, err := r.FindEnclosingComponent(sel.Node)
	require.NoError(t, err)
	return r.FindExternalReferences(comp.Node, sel.Node, sel.Start(), sel.End())
}

func TestCoalesceRepeatedObject(t *testing.T) {
	doc := `class Profile extends Component {
  render() {
    return <div>{this.state.user.name}{this.state.user.age}</div>;
  }
}`
	refs := resolveRefs(t, doc, "<div>{this.state.user.name}{this.state.user.age}</div>")

	containers := Coalesce(refs)
	require.Len(t, containers, 1)
	assert.Equal(t, "this.state.user", containers[0].Object)
	assert.Equal(t, "user", containers[0].Property)
}

func TestCoalesceReservedRoots(t *testing.T) {
	doc := `class Foo extends Component {
  render() {
    return <div>{this.state.x}{this.state.y}</div>;
  }
}`
	refs := resolveRefs(t, doc, "<div>{this.state.x}{this.state.y}</div>")

	// this.state reads never collapse into a container prop.
	assert.Empty(t, Coalesce(refs))
}

func TestCoalesceSingleReadNoContainer(t *testing.T) {
	doc := `function Row({ item }) {
  return <td>{item.name}</td>;
}`
	refs := resolveRefs(t, doc, "<td>{item.name}</td>")

	assert.Empty(t, Coalesce(refs))
}

func TestCoalesceOuterPathWins(t *testing.T) {
	doc := `class Page extends Component {
  render() {
    return <div>{this.state.user.name}{this.state.user.age}{this.state.user.home.city}{this.state.user.home.zip}</div>;
  }
}`
	refs := resolveRefs(t, doc, "<div>{this.state.user.name}{this.state.user.age}{this.state.user.home.city}{this.state.user.home.zip}</div>")

	containers := Coalesce(refs)
	require.Len(t, containers, 1)
	assert.Equal(t, "this.state.user", containers[0].Object)
}
