// Package detector handles input file kind detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// Kind is the kind of an input file.
type Kind string

// Known input kinds.
const (
	Unknown Kind = "unknown"
	Object  Kind = "object"
	Library Kind = "library"
)

func (k Kind) String() string {
	return string(k)
}

// libraryHeaderTag is the tag of the module header record that starts
// every archive produced by the compiler toolchain.
const libraryHeaderTag = 0x00

// Detector handles input kind detection from file extensions and content.
type Detector struct {
	logger *log.Logger
}

// New creates a new input detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the input kind from the filename extension. Files with an
// unknown extension are accepted if the content starts with a module header.
func (d *Detector) Detect(filename string, data []byte) Kind {
	kind := d.detectFromFile(filename)
	if kind == Unknown && len(data) > 0 && data[0] == libraryHeaderTag {
		kind = Object
	}

	d.logger.Debug("Auto-detected input",
		log.Stringer("kind", kind),
		log.String("file", filename))
	if kind == Unknown {
		d.logger.Warn("Input does not look like an 8051 object or library file", log.String("file", filename))
	}
	return kind
}

// detectFromFile determines the input kind based on file extension.
func (d *Detector) detectFromFile(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".r51", ".r03":
		return Object
	case ".lib", ".a51":
		return Library
	default:
		return Unknown
	}
}
