package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsxtract/pkg/parser"
	"github.com/gnana997/jsxtract/pkg/refactor"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `version: "1"
plugins:
  - jsx
  - typescript
style: arrowFunction
include:
  - "src/**/*.tsx"
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"jsx", "typescript"}, cfg.Plugins)
	assert.Equal(t, refactor.StyleArrowFunction, cfg.ComponentStyle())
	assert.Equal(t, []string{"src/**/*.tsx"}, cfg.Include)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "plugins: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, refactor.StyleFunction, cfg.ComponentStyle())

	dialects, unknown := cfg.Dialects()
	assert.Empty(t, unknown)
	assert.Equal(t, parser.DefaultDialects(), dialects)
}

func TestDialectsUnknownNames(t *testing.T) {
	cfg := &Config{Plugins: []string{"jsx", "decorators", "tsx"}}

	dialects, unknown := cfg.Dialects()
	assert.Equal(t, []parser.Dialect{parser.DialectJSX, parser.DialectTypeScript}, dialects)
	assert.Equal(t, []string{"decorators"}, unknown)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "style: function\n")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("style: class\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, refactor.StyleClass, cfg.ComponentStyle())
	case <-time.After(3 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style: function\n"), 0o644))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond // keep the test fast
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
