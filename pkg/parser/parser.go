package parser

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/jsxtract/pkg/util"
)

// SourceTree is a parsed source document: the tree-sitter tree plus the
// text it was parsed from. Node text and byte offsets are resolved against
// that text.
//
// A SourceTree stays valid for as long as the caller holds it, including
// across later parses and cache eviction; the underlying native tree is
// released by a runtime cleanup once the last reference is gone. Callers
// never close trees themselves.
type SourceTree struct {
	tree   *ts.Tree
	source []byte
}

// Root returns the root node of the tree.
func (st *SourceTree) Root() *ts.Node {
	return st.tree.RootNode()
}

// Source returns the text the tree was parsed from.
func (st *SourceTree) Source() []byte {
	return st.source
}

// Text returns the source text covered by a node of this tree.
func (st *SourceTree) Text(n *ts.Node) string {
	return n.Utf8Text(st.source)
}

// newSourceTree wraps a freshly parsed tree and ties the native tree's
// lifetime to the wrapper. The cleanup receives the inner *ts.Tree, not the
// SourceTree, so it cannot keep the wrapper alive.
func newSourceTree(tree *ts.Tree, source []byte) *SourceTree {
	st := &SourceTree{tree: tree, source: source}
	runtime.AddCleanup(st, func(t *ts.Tree) { t.Close() }, tree)
	return st
}

// Parser turns source text into parse trees, configured by a pluggable
// dialect set and backed by a bounded TTL cache.
//
// Memory Management:
// - Parser owns its parser pools; Close() releases them
// - Returned SourceTrees stay valid while referenced; their native memory
//   is reclaimed by the garbage collector, not by cache eviction
//
// Thread Safety:
// - Safe for concurrent use; parser pools allow true concurrent parsing
// - The cache is internally synchronized
//
// Example:
//
//	logger := util.NewLogger(util.DefaultLoggerConfig())
//	p := parser.NewParser(logger)
//	defer p.Close()
//
//	tree, err := p.Parse("const x = <div />;")
//	if err != nil {
//	    return err
//	}
type Parser struct {
	// mutex protects dialects and pools
	mutex sync.RWMutex

	// dialects is the currently configured dialect set
	dialects []Dialect

	// pools stores one parser pool per grammar (lazily initialized)
	pools map[grammar]*parserPool

	// cache holds recently parsed trees keyed by content fingerprint
	cache *treeCache

	// logger for structured logging
	logger *slog.Logger
}

// NewParser creates a Parser with the default dialect set.
//
// The returned parser must be closed via Close() to free resources.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}

	return &Parser{
		dialects: DefaultDialects(),
		pools:    make(map[grammar]*parserPool),
		cache:    newTreeCache(),
		logger:   logger,
	}
}

// SetDialects replaces the configured dialect set. If the set actually
// changed, every cached tree is invalidated, since the same text can parse
// differently under a different grammar.
func (p *Parser) SetDialects(dialects []Dialect) {
	if len(dialects) == 0 {
		dialects = DefaultDialects()
	}

	p.mutex.Lock()
	changed := !dialectsEqual(p.dialects, dialects)
	if changed {
		p.dialects = append([]Dialect(nil), dialects...)
	}
	p.mutex.Unlock()

	if changed {
		p.cache.purge()
		p.logger.Info("parse cache purged", "reason", "dialect change", "dialects", dialectNames(dialects))
	}
}

// Dialects returns a copy of the configured dialect set.
func (p *Parser) Dialects() []Dialect {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return append([]Dialect(nil), p.dialects...)
}

// Parse parses text under the configured dialects.
//
// Identical text parsed again before cache expiry returns the same
// SourceTree instance. A *ParseError is returned when the text contains
// syntax errors.
func (p *Parser) Parse(text string) (*SourceTree, error) {
	key := fingerprint(text)
	if tree, ok := p.cache.get(key); ok {
		return tree, nil
	}

	p.mutex.RLock()
	gram := grammarFor(p.dialects)
	p.mutex.RUnlock()

	pool, err := p.getOrCreatePool(gram)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", gram, err)
	}

	tsParser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	source := []byte(text)
	tree := tsParser.Parse(source, nil)
	pool.release(tsParser)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree")
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := syntaxErrorAt(root, source)
		tree.Close()
		return nil, perr
	}

	st := newSourceTree(tree, source)
	p.cache.add(key, st)
	return st, nil
}

// Language returns the tree-sitter language selected by the configured
// dialects. Needed for compiling queries that run against trees produced
// by this parser.
func (p *Parser) Language() (*ts.Language, error) {
	p.mutex.RLock()
	gram := grammarFor(p.dialects)
	p.mutex.RUnlock()

	langPtr, err := languagePointer(gram)
	if err != nil {
		return nil, err
	}
	return ts.NewLanguage(langPtr), nil
}

// CacheLen returns the number of live cached trees. Exposed for tests and
// diagnostics.
func (p *Parser) CacheLen() int {
	return p.cache.len()
}

// Close releases all parser pools and drops cached trees.
//
// After Close(), the Parser cannot be used.
func (p *Parser) Close() error {
	p.cache.purge()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	for gram, pool := range p.pools {
		if pool != nil {
			pool.close()
			p.logger.Debug("closed parser pool", "grammar", gram.String())
		}
	}
	p.pools = make(map[grammar]*parserPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking.
func (p *Parser) getOrCreatePool(gram grammar) (*parserPool, error) {
	p.mutex.RLock()
	pool, exists := p.pools[gram]
	p.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if pool, exists = p.pools[gram]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(gram)
	if err != nil {
		return nil, err
	}

	poolSize := util.GetOptimalPoolSize()
	pool = newParserPool(gram, langPtr, poolSize, p.logger)
	p.pools[gram] = pool

	p.logger.Debug("created parser pool",
		"grammar", gram.String(),
		"maxSize", poolSize)

	return pool, nil
}

// languagePointer returns the tree-sitter language pointer for a grammar.
func languagePointer(gram grammar) (unsafe.Pointer, error) {
	switch gram {
	case grammarTSX:
		return ts_typescript.LanguageTSX(), nil
	case grammarJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported grammar: %s", gram)
	}
}

// syntaxErrorAt locates the first error or missing node and builds a
// ParseError from it.
func syntaxErrorAt(root *ts.Node, source []byte) *ParseError {
	node := firstErrorNode(root)
	if node == nil {
		node = root
	}

	pos := node.StartPosition()
	snippet := node.Utf8Text(source)
	if len(snippet) > 20 {
		snippet = snippet[:20]
	}

	return &ParseError{
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Snippet: snippet,
	}
}

// firstErrorNode finds the first ERROR or missing node in document order.
func firstErrorNode(node *ts.Node) *ts.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}

// dialectNames renders a dialect set for logging.
func dialectNames(dialects []Dialect) []string {
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = string(d)
	}
	return names
}
