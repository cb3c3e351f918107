// Package pipeline orchestrates the archive decoding workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/ubrofdecode/internal/archive"
	"github.com/retroenv/ubrofdecode/internal/detector"
	"github.com/retroenv/ubrofdecode/internal/loader"
	"golang.org/x/sync/errgroup"
)

// Pipeline orchestrates loading and decoding of archives.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	decoder  *archive.Decoder
}

// Result is the decoded archive of one input file.
type Result struct {
	File    string
	Kind    detector.Kind
	Archive *archive.Archive
}

// ErrUnrecognizedInput is returned for inputs that are neither named like an
// object or library file nor start with a module header.
var ErrUnrecognizedInput = errors.New("unrecognized input file")

// New creates a new decoding pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		decoder:  archive.New(logger),
	}
}

// Execute loads and decodes a single archive file.
func (p *Pipeline) Execute(ctx context.Context, file string) (Result, error) {
	result := Result{File: file, Kind: detector.Unknown}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	data, err := p.loader.Load(file)
	if err != nil {
		return result, fmt.Errorf("loading archive: %w", err)
	}

	result.Kind = p.detector.Detect(file, data)
	if result.Kind == detector.Unknown {
		return result, fmt.Errorf("%w: %s", ErrUnrecognizedInput, file)
	}

	p.logger.Debug("Decoding archive",
		log.String("file", file),
		log.Stringer("kind", result.Kind),
		log.Int("size", len(data)))
	result.Archive, err = p.decoder.Decode(data)
	if err != nil {
		p.logger.Debug("Decoded partial archive", log.String("file", file), log.Int("sections", len(result.Archive.Sections)))
		return result, fmt.Errorf("decoding archive %s: %w", file, err)
	}

	p.printInfo(result)
	return result, nil
}

// ExecuteBatch decodes all files concurrently. Every archive is decoded with its
// own context. The first failure cancels the remaining work and is returned.
func (p *Pipeline) ExecuteBatch(ctx context.Context, files []string) ([]Result, error) {
	results := make([]Result, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			result, err := p.Execute(groupCtx, file)
			results[i] = result
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// printInfo logs a summary of the decoded archive.
func (p *Pipeline) printInfo(result Result) {
	ar := result.Archive
	var module string
	if library := findLibrary(ar); library != nil {
		module = library.Name
	}

	ctx := ar.Context
	p.logger.Info("Decoded archive",
		log.String("file", result.File),
		log.Stringer("kind", result.Kind),
		log.String("module", module),
		log.Int("sections", len(ar.Sections)),
		log.Int("names", ctx.Names.Len()),
		log.Int("memoryClasses", ctx.Memories.Len()),
		log.Int("segments", ctx.Segments.Len()),
		log.Int("types", len(ctx.Types.Decoded())),
		log.Int("symbols", len(ctx.Symbols.Relocatable())+len(ctx.Symbols.External())),
		log.Int("functions", len(ctx.Symbols.Functions())),
		log.Int("callFrames", ctx.CallFrames.Len()),
	)
}

func findLibrary(ar *archive.Archive) *archive.Library {
	for _, section := range ar.Sections {
		if library, ok := section.Record.(*archive.Library); ok {
			return library
		}
	}
	return nil
}
