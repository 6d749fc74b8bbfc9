package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gnana997/jsxtract/pkg/config"
	"github.com/gnana997/jsxtract/pkg/parser"
	"github.com/gnana997/jsxtract/pkg/util"
)

const version = "0.1.0-dev"

// app bundles the shared pieces every command needs: the loaded config, the
// parser configured with its dialects, and the document cache.
type app struct {
	cfg    *config.Config
	parser *parser.Parser
	cache  *util.DocumentCache
	logger *slog.Logger
}

func newApp() (*app, error) {
	cfg, err := config.LoadOrDefault(config.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerCfg := util.DefaultLoggerConfig()
	if cfg.LogLevel != "" {
		loggerCfg.Level = util.LogLevel(cfg.LogLevel)
	}
	logger := util.NewLogger(loggerCfg)

	p := parser.NewParser(logger)
	dialects, unknown := cfg.Dialects()
	for _, name := range unknown {
		logger.Warn("ignoring unknown plugin", "plugin", name)
	}
	if len(dialects) > 0 {
		p.SetDialects(dialects)
	}

	return &app{
		cfg:    cfg,
		parser: p,
		cache:  util.NewDocumentCache(logger),
		logger: logger,
	}, nil
}

func (a *app) close() {
	a.cache.Close()
	a.parser.Close()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "extract":
		err = runExtract(args)
	case "probe":
		err = runProbe(args)
	case "scan":
		err = runScan(args)
	case "serve":
		err = runServe(args)
	case "version":
		fmt.Printf("jsxtract %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: jsxtract <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  extract    Extract a JSX selection into a new component")
	fmt.Println("  probe      Check whether a fragment is extractable JSX")
	fmt.Println("  scan       List extraction candidates in a workspace")
	fmt.Println("  serve      Start MCP server on stdin/stdout")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
