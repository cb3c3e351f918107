// Package loader handles archive file loading operations.
package loader

import (
	"fmt"
	"os"
)

// Loader handles loading archive files from disk.
type Loader struct{}

// New creates a new archive loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the complete archive file. Archives are decoded in a single pass
// over an in memory buffer.
func (l *Loader) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}
	return data, nil
}
