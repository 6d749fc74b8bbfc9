package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeParams(t *testing.T) {
	doc := strings.Repeat("<div>hello</div>\n", 40)

	tests := []struct {
		name     string
		input    map[string]any
		wantKeys []string
		skipKeys []string
	}{
		{
			name:     "nil map returns empty",
			input:    nil,
			wantKeys: nil,
		},
		{
			name: "extraction arguments pass through",
			input: map[string]any{
				"name":  "UserCard",
				"file":  "src/profile.jsx",
				"start": float64(120),
				"end":   float64(260),
				"style": "arrowFunction",
			},
			wantKeys: []string{"name", "file", "start", "end", "style"},
		},
		{
			name:     "source text replaced regardless of size",
			input:    map[string]any{"text": "<div />", "name": "X"},
			wantKeys: []string{"text_len", "name"},
			skipKeys: []string{"text"},
		},
		{
			name:     "long document replaced with length",
			input:    map[string]any{"text": doc},
			wantKeys: []string{"text_len"},
			skipKeys: []string{"text"},
		},
		{
			name:     "other long strings replaced too",
			input:    map[string]any{"root": strings.Repeat("a/", 50)},
			wantKeys: []string{"root_len"},
			skipKeys: []string{"root"},
		},
		{
			name:     "bool and nil pass through",
			input:    map[string]any{"class": true, "extra": nil},
			wantKeys: []string{"class", "extra"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			for _, k := range tc.wantKeys {
				assert.Contains(t, out, k)
			}
			for _, k := range tc.skipKeys {
				assert.NotContains(t, out, k)
			}
		})
	}
}

func TestSanitizeParamsRecordsPayloadLength(t *testing.T) {
	out := SanitizeParams(map[string]any{"text": "<span>hi</span>"})
	assert.Equal(t, len("<span>hi</span>"), out["text_len"])
}

func TestResponseBytes(t *testing.T) {
	assert.Equal(t, 0, ResponseBytes(nil))

	result := mcp.NewToolResultText(`{"extractable":true}`)
	assert.Greater(t, ResponseBytes(result), 0)
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.jsonl")

	logger, err := NewLogger(path)
	require.NoError(t, err)

	entries := []LogEntry{
		{
			Ts:            time.Now().UTC().Format(time.RFC3339),
			Tool:          "is_extractable",
			Params:        map[string]any{"text_len": 24},
			DurationMs:    2,
			ResponseBytes: 40,
			TokensEst:     10,
		},
		{
			Ts:            time.Now().UTC().Format(time.RFC3339),
			Tool:          "extract_component",
			Params:        map[string]any{"name": "UserCard", "text_len": 1800, "start": 120, "end": 260},
			DurationMs:    18,
			ResponseBytes: 600,
			TokensEst:     150,
		},
		{
			Ts:            time.Now().UTC().Format(time.RFC3339),
			Tool:          "list_candidates",
			Params:        map[string]any{"root": "src"},
			DurationMs:    64,
			ResponseBytes: 2200,
			TokensEst:     550,
		},
	}

	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, len(entries))
	for i, e := range entries {
		assert.Equal(t, e.Tool, got[i].Tool)
		assert.Equal(t, e.DurationMs, got[i].DurationMs)
	}
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")

	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{
					Ts:   time.Now().UTC().Format(time.RFC3339),
					Tool: "extract_component",
				})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	// Every line must unmarshal cleanly; a torn write would not.
	got := readEntries(t, path)
	assert.Len(t, got, goroutines*writesEach)
}

func TestNewLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "tools.jsonl")

	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewLoggerEmptyPath(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)
}

func TestNilLoggerIsDisabled(t *testing.T) {
	var logger *Logger
	assert.NoError(t, logger.Write(LogEntry{Tool: "is_extractable"}))
	assert.NoError(t, logger.Close())
}

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e), "line %q", line)
		out = append(out, e)
	}
	return out
}
