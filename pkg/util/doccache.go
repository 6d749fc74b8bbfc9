// DocumentCache provides fast read access to source documents using
// memory-mapped files.
//
// The extraction core operates on in-memory strings; this cache is the shell's
// way of getting file contents there cheaply:
//   - O(1) byte-offset slicing: text = mmap[start:end]
//   - Only accessed pages are loaded into RAM (on-demand paging)
//   - Graceful fallback to os.ReadFile if mmap fails
//   - Thread-safe with sync.RWMutex (parallel reads, exclusive loads)
//
// Lifecycle: documents are loaded lazily on first access and kept mapped
// until Close(). The workspace scanner and the MCP shell are the only
// consumers; both are short-lived relative to the process.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// Document is a source file held by the cache, either memory-mapped or
// read into memory when mapping failed.
type Document struct {
	// Path is the path the document was loaded from.
	Path string

	// Data is the document content. For mapped documents this is the mmap
	// region; slicing it never copies. Nil for empty files.
	Data mmap.MMap

	// file is the descriptor backing the mapping; nil for fallback loads.
	file *os.File
}

// Text returns the full document content as a string.
func (d *Document) Text() string {
	return string(d.Data)
}

// Slice returns the document text in [start, end). The special range (0, 0)
// returns the whole document.
func (d *Document) Slice(start, end int) (string, error) {
	if start == 0 && end == 0 {
		return string(d.Data), nil
	}
	if start < 0 || end < start || end > len(d.Data) {
		return "", fmt.Errorf("invalid byte range [%d, %d) for %q (size %d)",
			start, end, d.Path, len(d.Data))
	}
	return string(d.Data[start:end]), nil
}

// DocumentCache lazily loads and memory-maps source documents.
//
// Thread Safety: safe for concurrent use; reads do not block each other.
type DocumentCache struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	logger *slog.Logger
}

// NewDocumentCache creates an empty cache. Logger may be nil.
func NewDocumentCache(logger *slog.Logger) *DocumentCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentCache{
		docs:   make(map[string]*Document),
		logger: logger,
	}
}

// Get returns the cached document for path, loading and mapping it on first
// access.
func (dc *DocumentCache) Get(path string) (*Document, error) {
	dc.mu.RLock()
	if doc, ok := dc.docs[path]; ok {
		dc.mu.RUnlock()
		return doc, nil
	}
	dc.mu.RUnlock()

	dc.mu.Lock()
	defer dc.mu.Unlock()

	// Double-check: another goroutine may have loaded it while we waited.
	if doc, ok := dc.docs[path]; ok {
		return doc, nil
	}

	doc, err := dc.load(path)
	if err != nil {
		return nil, err
	}
	dc.docs[path] = doc
	return doc, nil
}

// ReadText returns the full content of path as a string, loading it through
// the cache.
func (dc *DocumentCache) ReadText(path string) (string, error) {
	doc, err := dc.Get(path)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}

// Size returns the number of cached documents.
func (dc *DocumentCache) Size() int {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return len(dc.docs)
}

// Invalidate drops the cached mapping for path so the next access reloads
// from disk. Needed after a file is rewritten in place.
func (dc *DocumentCache) Invalidate(path string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	doc, ok := dc.docs[path]
	if !ok {
		return
	}
	delete(dc.docs, path)

	if doc.file != nil {
		if doc.Data != nil {
			if err := doc.Data.Unmap(); err != nil {
				dc.logger.Warn("failed to unmap document", "path", path, "error", err)
			}
		}
		doc.file.Close()
	}
}

// load opens and maps a file. Must be called with the write lock held.
func (dc *DocumentCache) load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	// Zero-byte files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return &Document{Path: path}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		dc.logger.Warn("mmap failed, using fallback read",
			"file", path,
			"size", stat.Size(),
			"error", err)

		raw, readErr := os.ReadFile(path)
		file.Close()
		if readErr != nil {
			return nil, fmt.Errorf("mmap and fallback read both failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return &Document{Path: path, Data: mmap.MMap(raw)}, nil
	}

	return &Document{Path: path, Data: data, file: file}, nil
}

// Close unmaps all documents and releases file descriptors.
//
// The cache cannot be used after Close.
func (dc *DocumentCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	var errs []error
	for path, doc := range dc.docs {
		if doc.file != nil {
			if doc.Data != nil {
				if err := doc.Data.Unmap(); err != nil {
					dc.logger.Warn("failed to unmap document", "path", path, "error", err)
					errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
				}
			}
			if err := doc.file.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", path, err))
			}
		}
	}
	dc.docs = make(map[string]*Document)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
