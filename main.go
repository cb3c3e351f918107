// Package main implements the command line decoder for UBROF 8051 libraries and object files
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/ubrofdecode/internal/cli"
	"github.com/retroenv/ubrofdecode/internal/config"
	"github.com/retroenv/ubrofdecode/internal/fileprocessor"
	"github.com/retroenv/ubrofdecode/internal/pipeline"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if !errors.As(err, &usageErr) {
			logger.Fatal(err.Error())
		}

		fileprocessor.PrintBanner(logger, opts, version, commit, date)
		usageErr.ShowUsage()
		if usageErr.Help() {
			return
		}
		if msg := usageErr.Error(); msg != "" {
			logger.Error(msg)
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	p := pipeline.New(logger)
	if len(files) == 1 {
		_, err = p.Execute(ctx, files[0])
	} else {
		_, err = p.ExecuteBatch(ctx, files)
	}
	if err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Decoding failed", log.Err(err))
		os.Exit(1)
	}
}
