package mcp

import (
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/jsxtract/pkg/mcplog"
	"github.com/gnana997/jsxtract/pkg/parser"
	"github.com/gnana997/jsxtract/pkg/refactor"
	"github.com/gnana997/jsxtract/pkg/util"
	"github.com/gnana997/jsxtract/pkg/workspace"
)

const serverVersion = "0.1.0-dev"

// Server exposes JSX extraction over MCP: probing selections, extracting
// components in-memory or directly into files, and listing candidates
// across a workspace.
type Server struct {
	mcpServer *server.MCPServer
	extractor *refactor.Extractor
	scanner   *workspace.Scanner
	cache     *util.DocumentCache
	toolLog   *mcplog.Logger // may be nil, logging disabled
	logger    *slog.Logger

	// styleMu protects style, which config reloads replace while requests
	// are being served
	styleMu sync.RWMutex
	style   refactor.Style
}

// Options configures optional server behavior.
type Options struct {
	// ToolLogPath enables JSONL logging of tool calls when non-empty.
	ToolLogPath string

	// Style is the default component style for extractions that do not
	// specify one.
	Style refactor.Style
}

// NewServer wires the extraction engine into an MCP server over the shared
// parser and document cache.
func NewServer(p *parser.Parser, cache *util.DocumentCache, logger *slog.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	toolLog, err := mcplog.NewLogger(opts.ToolLogPath)
	if err != nil {
		return nil, err
	}

	style := opts.Style
	if style == "" {
		style = refactor.StyleFunction
	}

	s := &Server{
		extractor: refactor.NewExtractor(p, logger),
		scanner:   workspace.NewScanner(p, cache, logger),
		cache:     cache,
		style:     style,
		toolLog:   toolLog,
		logger:    logger,
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if toolLog != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer(
		"jsxtract",
		serverVersion,
		serverOpts...,
	)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: isExtractableTool(), Handler: s.handleIsExtractable},
		server.ServerTool{Tool: extractComponentTool(), Handler: s.handleExtractComponent},
		server.ServerTool{Tool: extractToFileTool(), Handler: s.handleExtractToFile},
		server.ServerTool{Tool: listCandidatesTool(), Handler: s.handleListCandidates},
	)

	return s, nil
}

// SetStyle replaces the default component style for extractions that do not
// specify one. Called on config reload; an empty style falls back to
// function components.
func (s *Server) SetStyle(style refactor.Style) {
	if style == "" {
		style = refactor.StyleFunction
	}
	s.styleMu.Lock()
	s.style = style
	s.styleMu.Unlock()
}

// defaultStyle returns the current default component style.
func (s *Server) defaultStyle() refactor.Style {
	s.styleMu.RLock()
	defer s.styleMu.RUnlock()
	return s.style
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close releases the tool-call log.
func (s *Server) Close() error {
	return s.toolLog.Close()
}
