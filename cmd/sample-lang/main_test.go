package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want *options
	}{
		{
			name: "defaults",
			args: []string{"-l", "python", "doc.toml"},
			want: &options{Output: "cli_args", Lang: "python", Files: []string{"a.txt", "b.txt"}, Input: "doc.toml"},
		},
		{
			name: "overrides",
			args: []string{"--lang=bash", "-o", "gen", "-f", "x.txt", "-f", "y.txt", "doc.toml"},
			want: &options{Output: "gen", Lang: "bash", Files: []string{"x.txt", "y.txt"}, Input: "doc.toml"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseArgs(ctxlog.Discard(context.Background()), tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseArgs_InvalidChoice(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	opts, err := parseArgs(ctxlog.Discard(context.Background()), []string{"-l", "ruby", "doc.toml"}, out)

	// --- Assert ---
	assert.Nil(t, opts)
	var exitErr *normalize.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, out.String(), "'lang' must be one of [python bash]")
	assert.NotContains(t, out.String(), "pass any number of files", "choice errors print no usage")
}

func TestEmbeddedDocument(t *testing.T) {
	t.Parallel()

	n, err := newNormalizer()
	require.NoError(t, err)
	usage := n.Usage()
	assert.Contains(t, usage, "-l, --lang string")
	assert.Contains(t, usage, "(default a.txt,b.txt)")
	assert.Contains(t, usage, "input TOML file")
}
