package refactor

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandle is a transient reference to a tree node paired with the source
// it was parsed from, so positions and text can be resolved without carrying
// the whole tree around. Handles are derived fresh per traversal and never
// persisted.
type NodeHandle struct {
	Node *ts.Node
	src  []byte
}

// Text returns the source text covered by the node.
func (h NodeHandle) Text() string {
	return h.Node.Utf8Text(h.src)
}

// Start returns the node's inclusive start byte offset.
func (h NodeHandle) Start() int {
	return int(h.Node.StartByte())
}

// End returns the node's exclusive end byte offset.
func (h NodeHandle) End() int {
	return int(h.Node.EndByte())
}

// sameNode reports whether two nodes cover the same byte span. Used instead
// of pointer identity because the bindings may hand out distinct Node values
// for the same underlying node.
func sameNode(a, b *ts.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// isJSXKind reports whether kind names a JSX element node.
func isJSXKind(kind string) bool {
	switch kind {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}

// isComponentBoundary reports whether kind names a node that can define a
// component: a class, a variable declarator (arrow function initializer) or
// a function declaration.
func isComponentBoundary(kind string) bool {
	switch kind {
	case "class_declaration", "variable_declarator", "function_declaration":
		return true
	}
	return false
}

// isFunctionKind reports whether kind names a function-like node whose
// parameters introduce bindings.
func isFunctionKind(kind string) bool {
	switch kind {
	case "arrow_function", "function_expression", "function_declaration", "method_definition":
		return true
	}
	return false
}

// iteratorMethods are member names that terminate the outward member-chain
// walk: `this.items.map(...)` contributes the reference `this.items`, not
// `this.items.map`.
var iteratorMethods = map[string]bool{
	"map":    true,
	"filter": true,
	"reduce": true,
}

// isObjectOf reports whether child is the object side of a member or
// subscript expression.
func isObjectOf(parent, child *ts.Node) bool {
	obj := parent.ChildByFieldName("object")
	return obj != nil && sameNode(obj, child)
}

// memberProperty returns the property name of a member expression, or "".
func memberProperty(member *ts.Node, src []byte) string {
	prop := member.ChildByFieldName("property")
	if prop == nil {
		return ""
	}
	return prop.Utf8Text(src)
}

// isCalleeOf reports whether node is the function position of its parent
// call expression.
func isCalleeOf(call, node *ts.Node) bool {
	if call == nil || call.Kind() != "call_expression" {
		return false
	}
	fn := call.ChildByFieldName("function")
	return fn != nil && sameNode(fn, node)
}

// outermostChain expands a reference node to the outermost member-access
// chain it participates in. Two special cases shape the walk:
//
//   - iterator callees are terminal: for `this.items.map(...)` the walk
//     stops at `this.items`;
//   - `.bind` calls are absorbed whole: for `this.onClick.bind(this)` the
//     entire call expression becomes the reference, so the binder can
//     redirect the prop name to the bound method.
func outermostChain(node *ts.Node, src []byte) *ts.Node {
	cur := node
	for {
		parent := cur.Parent()
		if parent == nil {
			break
		}

		kind := parent.Kind()
		if kind == "subscript_expression" && isObjectOf(parent, cur) {
			cur = parent
			continue
		}
		if kind != "member_expression" || !isObjectOf(parent, cur) {
			break
		}

		prop := memberProperty(parent, src)
		if isCalleeOf(parent.Parent(), parent) {
			if prop == "bind" {
				return parent.Parent()
			}
			if iteratorMethods[prop] {
				break
			}
		}
		cur = parent
	}
	return cur
}

// isBindCall reports whether node is an `x.y.bind(...)` call expression and
// returns the bound method name when it is.
func isBindCall(node *ts.Node, src []byte) (string, bool) {
	if node.Kind() != "call_expression" {
		return "", false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "member_expression" || memberProperty(fn, src) != "bind" {
		return "", false
	}
	obj := fn.ChildByFieldName("object")
	if obj == nil || obj.Kind() != "member_expression" {
		return "", false
	}
	return memberProperty(obj, src), true
}

// isBindingPosition reports whether an identifier occupies a binding
// position (declaration site) rather than a read site: a parameter, a
// declarator name, or a name inside a destructuring pattern on the binding
// side.
func isBindingPosition(n *ts.Node) bool {
	cur := n
	for {
		parent := cur.Parent()
		if parent == nil {
			return false
		}
		switch parent.Kind() {
		case "formal_parameters":
			return true
		case "variable_declarator":
			name := parent.ChildByFieldName("name")
			return name != nil && sameNode(name, cur)
		case "arrow_function":
			// Bare single-identifier parameter: item => ...
			param := parent.ChildByFieldName("parameter")
			return param != nil && sameNode(param, cur)
		case "object_pattern", "array_pattern", "rest_pattern":
			cur = parent
		case "pair_pattern":
			value := parent.ChildByFieldName("value")
			if value == nil || !sameNode(value, cur) {
				return false
			}
			cur = parent
		case "assignment_pattern", "object_assignment_pattern":
			left := parent.ChildByFieldName("left")
			if left == nil || !sameNode(left, cur) {
				return false
			}
			cur = parent
		default:
			return false
		}
	}
}

// patternNames collects the names bound by a declaration target: a plain
// identifier, or any nesting of object/array patterns including rest
// elements and defaults.
func patternNames(node *ts.Node, src []byte, out *[]string) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		*out = append(*out, node.Utf8Text(src))
	case "object_pattern", "array_pattern", "rest_pattern":
		for i := uint(0); i < uint(node.NamedChildCount()); i++ {
			patternNames(node.NamedChild(i), src, out)
		}
	case "pair_pattern":
		patternNames(node.ChildByFieldName("value"), src, out)
	case "assignment_pattern", "object_assignment_pattern":
		patternNames(node.ChildByFieldName("left"), src, out)
	}
}

// declaresParam reports whether a function-like node binds name in its
// parameter list. Used to stop read collection at shadowing functions.
func declaresParam(fn *ts.Node, name string, src []byte) bool {
	var names []string
	if param := fn.ChildByFieldName("parameter"); param != nil {
		patternNames(param, src, &names)
	}
	if params := fn.ChildByFieldName("parameters"); params != nil {
		for i := uint(0); i < uint(params.NamedChildCount()); i++ {
			patternNames(params.NamedChild(i), src, &names)
		}
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// blockDeclaredNames appends every name bound by a top-level let/const/var
// declaration of a statement block.
func blockDeclaredNames(block *ts.Node, src []byte, out *[]string) {
	for i := uint(0); i < uint(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		kind := stmt.Kind()
		if kind != "lexical_declaration" && kind != "variable_declaration" {
			continue
		}
		for j := uint(0); j < uint(stmt.NamedChildCount()); j++ {
			decl := stmt.NamedChild(j)
			if decl.Kind() != "variable_declarator" {
				continue
			}
			patternNames(decl.ChildByFieldName("name"), src, out)
		}
	}
}

// blockDeclares reports whether a statement block lexically redeclares name.
func blockDeclares(block *ts.Node, name string, src []byte) bool {
	var names []string
	blockDeclaredNames(block, src, &names)
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// collectReads appends every read site of name inside root. Binding
// positions are skipped, and subtrees that shadow the name are not descended
// into: nested functions whose parameters rebind it, and blocks that
// redeclare it with let/const/var.
func collectReads(root *ts.Node, name string, src []byte, out *[]*ts.Node) {
	kind := root.Kind()
	switch kind {
	case "identifier", "shorthand_property_identifier":
		if root.Utf8Text(src) == name && !isBindingPosition(root) {
			*out = append(*out, root)
		}
		return
	}
	if isFunctionKind(kind) && declaresParam(root, name, src) {
		return
	}
	if kind == "statement_block" && blockDeclares(root, name, src) {
		return
	}
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		collectReads(root.Child(i), name, src, out)
	}
}
