package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/jsxtract/pkg/parser"
	"github.com/gnana997/jsxtract/pkg/util"
)

// jsxQuery matches every JSX element form. Nested matches are collapsed to
// the outermost element per site after querying.
const jsxQuery = `[
  (jsx_element)
  (jsx_self_closing_element)
  (jsx_fragment)
] @jsx`

// Scanner walks a workspace for source files and lists the JSX elements in
// them that are candidates for extraction.
//
// Three-phase pipeline, same shape for every scan:
//  1. Discovery - walk the tree, match include/exclude patterns
//  2. Parallel processing - parse and query files on a worker pool
//  3. Collection - merge per-file candidates into one ordered result
type Scanner struct {
	parser *parser.Parser
	cache  *util.DocumentCache
	logger *slog.Logger
}

// NewScanner creates a workspace scanner sharing the given parser and
// document cache.
func NewScanner(p *parser.Parser, cache *util.DocumentCache, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{parser: p, cache: cache, logger: logger}
}

// Scan discovers matching files under rootPath and lists the extractable
// JSX elements in each. Files that fail to read or parse are recorded in
// the stats and skipped; only discovery-level failures abort the scan.
func (s *Scanner) Scan(rootPath string, options ScanOptions) (*ScanResult, error) {
	startTime := time.Now()
	stats := &ScanStats{StartTime: startTime}

	if len(options.Include) == 0 {
		defaults := DefaultScanOptions()
		options.Include = defaults.Include
		if len(options.Exclude) == 0 {
			options.Exclude = defaults.Exclude
		}
	}

	s.logger.Info("starting workspace scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := s.discoverFiles(rootPath, options)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.logger.Info("file discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	result := &ScanResult{Stats: stats}
	if len(files) == 0 {
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return result, nil
	}

	lang, err := s.parser.Language()
	if err != nil {
		return nil, err
	}
	query, qerr := ts.NewQuery(lang, jsxQuery)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile jsx query: %s", qerr.Message)
	}
	defer query.Close()

	scanStart := time.Now()
	perFile, err := s.processFilesParallel(files, query, options.Workers, stats)
	if err != nil {
		return nil, fmt.Errorf("file processing failed: %w", err)
	}
	stats.ScanTimeMs = time.Since(scanStart).Milliseconds()

	// Merge in stable file order regardless of completion order.
	paths := make([]string, 0, len(perFile))
	for path := range perFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		result.Candidates = append(result.Candidates, perFile[path]...)
	}
	stats.CandidatesFound = len(result.Candidates)

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()

	s.logger.Info("workspace scan complete",
		"files_scanned", stats.FilesScanned,
		"files_failed", stats.FilesFailed,
		"candidates", stats.CandidatesFound,
		"duration_ms", stats.TotalTimeMs)

	return result, nil
}

// discoverFiles walks the directory tree and returns files matching the
// include patterns that are not excluded. Exclusions on directories prune
// the whole subtree.
func (s *Scanner) discoverFiles(rootPath string, options ScanOptions) ([]string, error) {
	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range options.Exclude {
			matched, _ := doublestar.PathMatch(pattern, relPath)
			if matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		for _, pattern := range options.Include {
			if m, _ := doublestar.PathMatch(pattern, relPath); m {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// processFilesParallel runs candidate listing over all files on a worker
// pool and collects per-file results.
func (s *Scanner) processFilesParallel(files []string, query *ts.Query, workers int, stats *ScanStats) (map[string][]Candidate, error) {
	totalFiles := len(files)

	pool := newWorkerPool(workers, func(path string) ([]Candidate, error) {
		return s.listFileCandidates(path, query)
	}, s.logger)
	stats.WorkerCount = pool.numWorkers

	pool.start()
	defer pool.stop()

	perFile := make(map[string][]Candidate, totalFiles)
	scanned := atomic.Int32{}
	failed := atomic.Int32{}

	// The collector must be running before submission: a full jobs channel
	// would otherwise deadlock against unconsumed results.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for int(scanned.Load())+int(failed.Load()) < totalFiles {
			select {
			case result, ok := <-pool.results:
				if !ok {
					return
				}
				perFile[result.path] = result.candidates
				stats.FilesScanned++
				scanned.Add(1)

			case fileErr, ok := <-pool.errors:
				if !ok {
					return
				}
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
				failed.Add(1)
				s.logger.Warn("file scan failed",
					"file", fileErr.FilePath,
					"error", fileErr.Error)
			}
		}
	}()

	for i, file := range files {
		if err := pool.submit(fileJob{path: file, jobID: i}); err != nil {
			return nil, fmt.Errorf("failed to submit job for %s: %w", file, err)
		}
	}
	pool.finishSubmitting()

	<-done
	return perFile, nil
}

// listFileCandidates parses one file and returns its outermost JSX elements.
func (s *Scanner) listFileCandidates(path string, query *ts.Query) ([]Candidate, error) {
	text, err := s.cache.ReadText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	tree, err := s.parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	source := tree.Source()
	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var candidates []Candidate
	iter := cursor.Matches(query, tree.Root(), source)
	for {
		match := iter.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			node := capture.Node
			pos := node.StartPosition()
			candidates = append(candidates, Candidate{
				File:   path,
				Tag:    elementTag(&node, source),
				Start:  int(node.StartByte()),
				End:    int(node.EndByte()),
				Line:   int(pos.Row) + 1,
				Column: int(pos.Column) + 1,
			})
		}
	}

	return outermostCandidates(candidates), nil
}

// outermostCandidates drops candidates nested inside another candidate of
// the same file, keeping only top-level extraction sites.
func outermostCandidates(candidates []Candidate) []Candidate {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	kept := candidates[:0]
	covered := -1
	for _, c := range candidates {
		if c.End <= covered {
			continue
		}
		kept = append(kept, c)
		if c.End > covered {
			covered = c.End
		}
	}
	return kept
}

// elementTag returns the tag name of a JSX element node, or "<>" for
// fragments.
func elementTag(node *ts.Node, source []byte) string {
	switch node.Kind() {
	case "jsx_self_closing_element":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(source)
		}
	case "jsx_element":
		for i := uint(0); i < uint(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Kind() == "jsx_opening_element" {
				if name := child.ChildByFieldName("name"); name != nil {
					return name.Utf8Text(source)
				}
			}
		}
	case "jsx_fragment":
		return "<>"
	}
	return ""
}
