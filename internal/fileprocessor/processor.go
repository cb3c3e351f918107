// Package fileprocessor handles input file selection and the program banner
package fileprocessor

import (
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/ubrofdecode/internal/options"
)

// GetFilesToProcess returns the list of archives to decode based on options.
// Batch matches are returned in glob order with duplicate paths removed.
func GetFilesToProcess(opts options.Program) ([]string, error) {
	if opts.Batch == "" {
		return []string{opts.Input}, nil
	}

	matches, err := filepath.Glob(opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("globbing batch pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
	}

	seen := set.New[string]()
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		path := filepath.Clean(match)
		if seen.Contains(path) {
			continue
		}
		seen.Add(path)
		files = append(files, path)
	}
	return files, nil
}

// PrintBanner logs the program name and version unless quiet mode is enabled.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("ubrofdecode - UBROF 8051 archive decoder",
		log.String("version", buildinfo.Version(version, commit, date)))
}
