package workspace

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsxtract/pkg/parser"
	"github.com/gnana997/jsxtract/pkg/util"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	logger := testLogger()
	p := parser.NewParser(logger)
	t.Cleanup(func() { p.Close() })
	cache := util.NewDocumentCache(logger)
	t.Cleanup(func() { cache.Close() })
	return NewScanner(p, cache, logger)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanFindsOutermostElements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.jsx", `function App() {
  return (
    <div className="app">
      <h1>Title</h1>
      <p>Body</p>
    </div>
  );
}`)

	result, err := newTestScanner(t).Scan(dir, ScanOptions{})
	require.NoError(t, err)

	require.Len(t, result.Candidates, 1, "nested elements collapse into the outermost")
	c := result.Candidates[0]
	assert.Equal(t, "div", c.Tag)
	assert.Equal(t, 3, c.Line)
	assert.Equal(t, 1, result.Stats.FilesScanned)
	assert.Equal(t, 1, result.Stats.CandidatesFound)
}

func TestScanSkipsExcludedAndUnmatched(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/page.jsx", `const Page = () => <main />;`)
	writeFile(t, dir, "node_modules/lib/index.jsx", `const X = () => <div />;`)
	writeFile(t, dir, "README.md", `# readme`)

	result, err := newTestScanner(t).Scan(dir, ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesDiscovered)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "main", result.Candidates[0].Tag)
}

func TestScanRecordsParseFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.jsx", `const A = () => <span>ok</span>;`)
	writeFile(t, dir, "broken.jsx", `const B = () => <div>{;`)

	result, err := newTestScanner(t).Scan(dir, ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FilesDiscovered)
	assert.Equal(t, 1, result.Stats.FilesScanned)
	assert.Equal(t, 1, result.Stats.FilesFailed)
	require.Len(t, result.Stats.Errors, 1)
	assert.Contains(t, result.Stats.Errors[0].FilePath, "broken.jsx")
}

func TestScanEmptyWorkspace(t *testing.T) {
	result, err := newTestScanner(t).Scan(t.TempDir(), ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
}

func TestScanRejectsBadPatterns(t *testing.T) {
	_, err := newTestScanner(t).Scan(t.TempDir(), ScanOptions{
		Include: []string{"[bad"},
	})
	assert.Error(t, err)
}

func TestOutermostCandidates(t *testing.T) {
	in := []Candidate{
		{Start: 10, End: 50, Tag: "div"},
		{Start: 15, End: 30, Tag: "span"},
		{Start: 60, End: 80, Tag: "p"},
	}
	out := outermostCandidates(in)
	require.Len(t, out, 2)
	assert.Equal(t, "div", out[0].Tag)
	assert.Equal(t, "p", out[1].Tag)
}
