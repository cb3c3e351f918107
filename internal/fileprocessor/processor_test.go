package fileprocessor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/ubrofdecode/internal/options"
)

func TestGetFilesToProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.r51", "b.r51", "c.txt"} {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{0xFF}, 0600))
	}

	t.Run("single input", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Input: "lib.r51"}}
		files, err := GetFilesToProcess(opts)
		assert.NoError(t, err)
		assert.Equal(t, []string{"lib.r51"}, files)
	})

	t.Run("batch pattern", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.r51")}}
		files, err := GetFilesToProcess(opts)
		assert.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.r51"), filepath.Join(dir, "b.r51")}, files)
	})

	t.Run("batch without matches", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Batch: filepath.Join(dir, "*.r03")}}
		_, err := GetFilesToProcess(opts)
		assert.ErrorContains(t, err, "no files match")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		opts := options.Program{Parameters: options.Parameters{Batch: "["}}
		_, err := GetFilesToProcess(opts)
		assert.ErrorContains(t, err, "globbing batch pattern")
	})
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)

	PrintBanner(logger, options.Program{}, "1.0.0", "0123456789", "2023-02-02")
	PrintBanner(logger, options.Program{Flags: options.Flags{Quiet: true}}, "dev", "", "")
}
