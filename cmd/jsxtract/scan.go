package main

import (
	"flag"

	"github.com/gnana997/jsxtract/pkg/workspace"
)

// runScan implements `jsxtract scan`: walk a workspace and print extraction
// candidates as JSON. Patterns come from flags first, then config, then the
// scanner defaults.
func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	root := fs.String("root", ".", "workspace root to scan")
	var include, exclude multiFlag
	fs.Var(&include, "include", "include pattern (repeatable)")
	fs.Var(&exclude, "exclude", "exclude pattern (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	options := workspace.ScanOptions{
		Include: include,
		Exclude: exclude,
	}
	if len(options.Include) == 0 {
		options.Include = a.cfg.Include
	}
	if len(options.Exclude) == 0 {
		options.Exclude = a.cfg.Exclude
	}

	scanner := workspace.NewScanner(a.parser, a.cache, a.logger)
	result, err := scanner.Scan(*root, options)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Candidates   []workspace.Candidate `json:"candidates"`
		FilesScanned int                   `json:"files_scanned"`
		FilesFailed  int                   `json:"files_failed"`
	}{
		Candidates:   result.Candidates,
		FilesScanned: result.Stats.FilesScanned,
		FilesFailed:  result.Stats.FilesFailed,
	})
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string {
	return ""
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}
