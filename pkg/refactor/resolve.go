package refactor

import (
	"sort"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/jsxtract/pkg/parser"
)

// Resolver locates the selected JSX element, its enclosing component, and
// every reference inside the selection that resolves to a binding declared
// outside it.
type Resolver struct {
	tree *parser.SourceTree
	src  []byte
}

// NewResolver creates a resolver over a parsed document.
func NewResolver(tree *parser.SourceTree) *Resolver {
	return &Resolver{tree: tree, src: tree.Source()}
}

// handle wraps a node of the resolver's tree.
func (r *Resolver) handle(n *ts.Node) NodeHandle {
	return NodeHandle{Node: n, src: r.src}
}

// FindSelectedElement returns the first JSX element in document order whose
// span lies entirely within [start, end). Returns nil when the selection
// contains no JSX element.
func (r *Resolver) FindSelectedElement(start, end int) *NodeHandle {
	node := firstJSXWithin(r.tree.Root(), start, end)
	if node == nil {
		return nil
	}
	h := r.handle(node)
	return &h
}

func firstJSXWithin(node *ts.Node, start, end int) *ts.Node {
	ns, ne := int(node.StartByte()), int(node.EndByte())
	if ns >= end || ne <= start {
		return nil
	}
	if isJSXKind(node.Kind()) && ns >= start && ne <= end {
		return node
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if found := firstJSXWithin(node.Child(i), start, end); found != nil {
			return found
		}
	}
	return nil
}

// FindEnclosingComponent walks ancestors of node until it reaches a class
// declaration, a variable declarator, or a function declaration. Reaching
// the file root first means the selection is not inside a component.
func (r *Resolver) FindEnclosingComponent(node *ts.Node) (*NodeHandle, error) {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		if isComponentBoundary(cur.Kind()) {
			h := r.handle(cur)
			return &h, nil
		}
	}
	return nil, ErrInvalidComponent
}

// FindExternalReferences enumerates the references inside the target
// sub-tree that resolve to bindings declared outside it but inside the
// enclosing component scope. Four independent passes accumulate candidates
// (class `this` chains, component props, outer-block locals, outer-function
// parameters); the result is then restricted to [start, end), de-duplicated
// by span and ordered by document position. Duplicate read sites of the
// same binding are kept; de-duplication by value happens at prop binding.
func (r *Resolver) FindExternalReferences(component, target *ts.Node, start, end int) []NodeHandle {
	var nodes []*ts.Node

	if component.Kind() == "class_declaration" {
		nodes = append(nodes, r.collectThisChains(target)...)
	} else {
		nodes = append(nodes, r.collectPropsReads(component, target)...)
	}
	nodes = append(nodes, r.collectBlockLocals(target)...)
	nodes = append(nodes, r.collectFunctionParams(target)...)

	// Restrict to the extracted span, de-duplicate, order by position.
	seen := make(map[[2]int]bool)
	refs := make([]NodeHandle, 0, len(nodes))
	for _, n := range nodes {
		ns, ne := int(n.StartByte()), int(n.EndByte())
		if ns < start || ne > end {
			continue
		}
		span := [2]int{ns, ne}
		if seen[span] {
			continue
		}
		seen[span] = true
		refs = append(refs, r.handle(n))
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Start() != refs[j].Start() {
			return refs[i].Start() < refs[j].Start()
		}
		return refs[i].End() > refs[j].End()
	})

	// Drop references nested inside an earlier, wider one: the outer chain
	// subsumes them (the `this` argument of a bind call, for instance).
	kept := refs[:0]
	covered := -1
	for _, ref := range refs {
		if ref.End() <= covered {
			continue
		}
		kept = append(kept, ref)
		if ref.End() > covered {
			covered = ref.End()
		}
	}
	return kept
}

// collectThisChains finds every `this` inside the target and expands it to
// its outermost member-access chain. Each chain is collected once, as the
// full chain: `this.state.user.name` yields one reference, not three.
func (r *Resolver) collectThisChains(target *ts.Node) []*ts.Node {
	var thisNodes []*ts.Node
	collectKind(target, "this", &thisNodes)

	chains := make([]*ts.Node, 0, len(thisNodes))
	for _, t := range thisNodes {
		chains = append(chains, outermostChain(t, r.src))
	}
	return chains
}

// collectPropsReads handles function-style components: reads of the first
// parameter (conventionally `props`) or of any name destructured from it.
func (r *Resolver) collectPropsReads(component, target *ts.Node) []*ts.Node {
	fn := componentFunction(component)
	if fn == nil {
		return nil
	}

	param := firstParameter(fn)
	if param == nil {
		return nil
	}

	var names []string
	patternNames(param, r.src, &names)

	return r.expandReads(target, names)
}

// collectBlockLocals walks upward from the target through each enclosing
// block statement; every variable declared in those blocks contributes its
// read sites inside the target. This captures locals from outer scopes that
// the extracted markup closes over.
func (r *Resolver) collectBlockLocals(target *ts.Node) []*ts.Node {
	var names []string
	for cur := target.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Kind() == "statement_block" {
			blockDeclaredNames(cur, r.src, &names)
		}
	}
	return r.expandReads(target, names)
}

// collectFunctionParams walks upward through each enclosing function-like
// node and collects read sites of every one of its parameters.
func (r *Resolver) collectFunctionParams(target *ts.Node) []*ts.Node {
	var names []string
	for cur := target.Parent(); cur != nil; cur = cur.Parent() {
		if !isFunctionKind(cur.Kind()) {
			continue
		}
		if param := cur.ChildByFieldName("parameter"); param != nil {
			patternNames(param, r.src, &names)
		}
		if params := cur.ChildByFieldName("parameters"); params != nil {
			for i := uint(0); i < uint(params.NamedChildCount()); i++ {
				patternNames(params.NamedChild(i), r.src, &names)
			}
		}
	}
	return r.expandReads(target, names)
}

// expandReads finds read sites of each name inside target and expands them
// to outermost member-access chains.
func (r *Resolver) expandReads(target *ts.Node, names []string) []*ts.Node {
	var out []*ts.Node
	for _, name := range uniqueStrings(names) {
		var reads []*ts.Node
		collectReads(target, name, r.src, &reads)
		for _, read := range reads {
			out = append(out, outermostChain(read, r.src))
		}
	}
	return out
}

// componentFunction returns the function node backing a component
// declaration: the declarator's initializer for `const C = () => ...`, or
// the declaration itself for `function C() {}`.
func componentFunction(component *ts.Node) *ts.Node {
	switch component.Kind() {
	case "function_declaration":
		return component
	case "variable_declarator":
		value := component.ChildByFieldName("value")
		if value != nil && isFunctionKind(value.Kind()) {
			return value
		}
	}
	return nil
}

// firstParameter returns the first parameter node of a function-like node,
// whether a bare arrow parameter or the first entry of a parameter list.
func firstParameter(fn *ts.Node) *ts.Node {
	if param := fn.ChildByFieldName("parameter"); param != nil {
		return param
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return nil
	}
	return params.NamedChild(0)
}

// collectKind appends every node of the given kind within root.
func collectKind(root *ts.Node, kind string, out *[]*ts.Node) {
	if root.Kind() == kind {
		*out = append(*out, root)
	}
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		collectKind(root.Child(i), kind, out)
	}
}

// uniqueStrings preserves first occurrence order while dropping duplicates.
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
