package workspace

import "time"

// ScanOptions configures workspace discovery.
type ScanOptions struct {
	// Include holds doublestar patterns a file must match, relative to the
	// scan root.
	Include []string

	// Exclude holds doublestar patterns that prune files and whole
	// directories.
	Exclude []string

	// Workers overrides the worker count; 0 means auto-detect.
	Workers int
}

// DefaultScanOptions returns the patterns used when the caller supplies none:
// every JavaScript/TypeScript source file, minus the usual generated trees.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.js",
			"**/*.jsx",
			"**/*.ts",
			"**/*.tsx",
		},
		Exclude: []string{
			"**/node_modules/**",
			"**/.git/**",
			"**/dist/**",
			"**/build/**",
			"**/coverage/**",
		},
	}
}

// Candidate is one extractable JSX element found in a scanned file. Offsets
// are byte positions into the file; Line and Column are 1-based.
type Candidate struct {
	File   string `json:"file"`
	Tag    string `json:"tag"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// FileError records a per-file failure that did not abort the scan.
type FileError struct {
	FilePath string
	Error    error
}

// ScanStats summarizes one workspace scan.
type ScanStats struct {
	FilesDiscovered int
	FilesScanned    int
	FilesFailed     int
	CandidatesFound int

	DiscoveryTimeMs int64
	ScanTimeMs      int64
	TotalTimeMs     int64
	WorkerCount     int

	Errors []FileError

	StartTime time.Time
	EndTime   time.Time
}

// ScanResult is the outcome of a workspace scan: all candidates across all
// scanned files, in file order, plus the stats.
type ScanResult struct {
	Candidates []Candidate
	Stats      *ScanStats
}
