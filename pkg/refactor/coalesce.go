package refactor

import "strings"

// ContainerObject describes an object whose members the extracted markup
// reads more than once. Instead of one prop per member, the whole object
// is passed as a single prop named after its last path segment.
type ContainerObject struct {
	// Object is the full access path of the container, e.g. "this.state.user".
	Object string
	// Property is the path's last segment and doubles as the prop name,
	// e.g. "user".
	Property string
}

// reservedRoots are access paths that never coalesce into a container prop:
// they already are the prop channel of the generated component, or the raw
// receiver.
var reservedRoots = map[string]bool{
	"this.props": true,
	"this.state": true,
	"props":      true,
	"this":       true,
}

// Coalesce groups references by the object they are read off and promotes
// objects read more than once to containers. When both an object and one of
// its own sub-objects qualify, only the shorter (outer) path is kept, since
// passing the outer object already covers the inner reads.
func Coalesce(refs []NodeHandle) []ContainerObject {
	counts := make(map[string]int)
	var order []string

	for _, ref := range refs {
		root := containerRoot(ref)
		if root == "" || reservedRoots[root] {
			continue
		}
		if counts[root] == 0 {
			order = append(order, root)
		}
		counts[root]++
	}

	var kept []string
	for _, root := range order {
		if counts[root] > 1 {
			kept = append(kept, root)
		}
	}

	var containers []ContainerObject
	for _, root := range kept {
		if hasShorterPrefix(root, kept) {
			continue
		}
		containers = append(containers, ContainerObject{
			Object:   root,
			Property: lastSegment(root),
		})
	}
	return containers
}

// containerRoot returns the access path a reference is read off: the object
// side for member expressions, the identifier itself for bare reads. Call
// expressions (bind absorptions) never form containers.
func containerRoot(ref NodeHandle) string {
	switch ref.Node.Kind() {
	case "member_expression", "subscript_expression":
		obj := ref.Node.ChildByFieldName("object")
		if obj == nil {
			return ""
		}
		return NodeHandle{Node: obj, src: ref.src}.Text()
	case "identifier", "shorthand_property_identifier":
		return ref.Text()
	}
	return ""
}

// hasShorterPrefix reports whether another kept root is a strict path prefix
// of root.
func hasShorterPrefix(root string, kept []string) bool {
	for _, other := range kept {
		if other != root && strings.HasPrefix(root, other+".") {
			return true
		}
	}
	return false
}

// lastSegment returns the text after the final dot, or the whole path when
// it has no dots.
func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
