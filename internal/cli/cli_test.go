package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/ubrofdecode/internal/options"
)

func parse(t *testing.T, args ...string) (options.Program, error) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = append([]string{"prog"}, args...)
	return ParseFlags()
}

//nolint:funlen // test functions can be long
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "input only",
			args: []string{"lib.r51"},
			want: options.Program{Parameters: options.Parameters{Input: "lib.r51"}},
		},
		{
			name: "short output",
			args: []string{"-o", "out.txt", "lib.r51"},
			want: options.Program{Parameters: options.Parameters{Input: "lib.r51", Output: "out.txt"}},
		},
		{
			name: "long output",
			args: []string{"--output", "out.txt", "lib.r51"},
			want: options.Program{Parameters: options.Parameters{Input: "lib.r51", Output: "out.txt"}},
		},
		{
			name: "debug and quiet",
			args: []string{"-debug", "-q", "lib.r51"},
			want: options.Program{
				Parameters: options.Parameters{Input: "lib.r51"},
				Flags:      options.Flags{Debug: true, Quiet: true},
			},
		},
		{
			name: "batch without input",
			args: []string{"-batch", "*.r51"},
			want: options.Program{Parameters: options.Parameters{Batch: "*.r51"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		help bool
	}{
		{"no arguments", nil, false},
		{"unknown flag", []string{"-x", "lib.r51"}, false},
		{"short help", []string{"-h"}, true},
		{"long help", []string{"--help"}, true},
		{"flag after input", []string{"lib.r51", "-debug"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
			assert.Equal(t, tt.help, usageErr.Help())
		})
	}
}

func TestValidateArgs(t *testing.T) {
	assert.NoError(t, validateArgs([]string{"lib.r51"}))
	assert.NoError(t, validateArgs([]string{"lib.r51", "other.r51"}))
	assert.ErrorContains(t, validateArgs([]string{"lib.r51", "-q"}), "-q found after archive")
}
