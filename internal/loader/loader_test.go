package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load archive file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0xBD, 0x01, 0x02, 0x03, 0x00, 0xFF})

		data, err := New().Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, data, 6)
		assert.Equal(t, byte(0xFF), data[5])
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.r51")
		assert.ErrorContains(t, err, "reading file")
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		_, err := New().Load(tmpFile)
		assert.ErrorContains(t, err, "is empty")
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.r51")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
