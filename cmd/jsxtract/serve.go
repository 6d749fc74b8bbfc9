package main

import (
	"flag"

	"github.com/gnana997/jsxtract/pkg/config"
	mcpserver "github.com/gnana997/jsxtract/pkg/mcp"
)

// runServe implements `jsxtract serve`: the MCP server on stdin/stdout.
// While serving, the project config file is watched so dialect and style
// changes apply without a restart.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	toolLog := fs.String("log", "", "append JSONL tool-call log to this file")
	configPath := fs.String("config", config.DefaultPath, "project config file to load and watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	srv, err := mcpserver.NewServer(a.parser, a.cache, a.logger, mcpserver.Options{
		ToolLogPath: *toolLog,
		Style:       a.cfg.ComponentStyle(),
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	watcher, err := config.NewWatcher(*configPath, func(cfg *config.Config) {
		dialects, unknown := cfg.Dialects()
		for _, name := range unknown {
			a.logger.Warn("ignoring unknown plugin", "plugin", name)
		}
		a.parser.SetDialects(dialects)
		srv.SetStyle(cfg.ComponentStyle())
	}, a.logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		// Serving still works without live reload; the config directory may
		// simply not exist yet.
		a.logger.Warn("config watch disabled", "error", err)
	} else {
		defer watcher.Stop()
	}

	return srv.ServeStdio()
}
