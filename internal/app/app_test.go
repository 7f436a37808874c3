package app

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `[program]
name = "tool"
description = "does things"

[[arguments]]
name = "input"
type = "string"
help = "input file"

[[arguments]]
name = "--level"
short = "-l"
type = "int"
default = "3"
help = "level"
`

const invalidDoc = `[program]
name = "broken"
description = "d"

[[arguments]]
name = "--count"
type = "int"
default = "many"
help = "count"

[[arguments]]
name = "verbose"
type = "flag"
default = "true"
help = "verbose"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGenerate_RoundTripsToStdout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, out, _ := SetupAppTest(t)
	path := writeFile(t, t.TempDir(), "cli.toml", validDoc)

	// --- Act ---
	err := a.Generate(context.Background(), GenerateOptions{Input: path})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, validDoc+"\n", out.String())
}

func TestGenerate_ConvertsFormats(t *testing.T) {
	t.Parallel()

	a, _, logs := SetupAppTest(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "cli.toml", validDoc)
	hclPath := filepath.Join(dir, "cli.hcl")

	require.NoError(t, a.Generate(context.Background(), GenerateOptions{Input: in, Output: hclPath}))
	assert.Contains(t, logs.String(), "Document written.")

	back := filepath.Join(dir, "back.toml")
	require.NoError(t, a.Generate(context.Background(), GenerateOptions{Input: hclPath, Output: back}))
	data, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, validDoc+"\n", string(data))
}

func TestGenerate_ReportsEveryError(t *testing.T) {
	t.Parallel()

	a, out, _ := SetupAppTest(t)
	path := writeFile(t, t.TempDir(), "broken.toml", invalidDoc)

	err := a.Generate(context.Background(), GenerateOptions{Input: path, Format: config.FormatHCL})

	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, out.String(), "argument 1 (--count)")
	assert.Contains(t, out.String(), `"many" is not an integer`)
	assert.Contains(t, out.String(), "argument 2 (verbose)")
	assert.Contains(t, out.String(), "must be a long option")
	assert.NotContains(t, out.String(), "argument \"--count\"", "nothing is rendered")
}

func TestGenerate_ReportsProgramErrors(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, out, _ := SetupAppTest(t)
	path := writeFile(t, t.TempDir(), "multi.hcl", `
program {
  name        = "multi"
  description = "first\nsecond"
}

argument "--level" {
  type = "int"
  help = "level"
}
`)

	// --- Act ---
	err := a.Generate(context.Background(), GenerateOptions{Input: path})

	// --- Assert ---
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, out.String(), "1 error(s)")
	assert.Contains(t, out.String(), "program")
	assert.Contains(t, out.String(), "description cannot contain line breaks")
	assert.NotContains(t, out.String(), "argument 1")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	a, out, _ := SetupAppTest(t)
	dir := t.TempDir()
	writeFile(t, dir, "good/cli.toml", validDoc)
	writeFile(t, dir, "bad/cli.toml", invalidDoc)
	writeFile(t, dir, "notes.txt", "ignored")

	err := a.Check(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))
	assert.Contains(t, err.Error(), "1 of 2 document(s) failed")
	assert.Contains(t, out.String(), "ok")
	assert.Contains(t, out.String(), `"many" is not an integer`)

	require.NoError(t, a.Check(context.Background(), filepath.Join(dir, "good")))

	err = a.Check(context.Background(), filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)
}

func TestCodegen(t *testing.T) {
	t.Parallel()

	a, out, _ := SetupAppTest(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "cli.toml", validDoc)

	written, err := a.Codegen(context.Background(), CodegenOptions{Input: path, Lang: "python", Output: filepath.Join(dir, "parser.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "parser.py")}, written)
	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"--level",`)

	_, err = a.Codegen(context.Background(), CodegenOptions{Input: path, Lang: "js-cla"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "export function parseArgs() {")

	_, err = a.Codegen(context.Background(), CodegenOptions{Input: path, Lang: "cobol"})
	assert.ErrorContains(t, err, "unsupported language")
}

func TestCodegen_WritesEveryFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, _, logs := SetupAppTest(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "cli.toml", validDoc)

	// --- Act ---
	written, err := a.Codegen(context.Background(), CodegenOptions{Input: path, Lang: "cpp-cxxopts", Output: filepath.Join(dir, "tool.out")})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "tool.cpp"), filepath.Join(dir, "tool.hpp")}, written)
	source, err := os.ReadFile(written[0])
	require.NoError(t, err)
	assert.Contains(t, string(source), `#include "tool.hpp"`)
	_, err = os.Stat(written[1])
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "Code generated.")
}

func TestServeAndPush(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, out, _ := SetupAppTest(t)
	dir := t.TempDir()
	seed := writeFile(t, dir, "seed.toml", validDoc)
	pushed := writeFile(t, dir, "pushed.hcl", `program {
  name        = "pushed"
  description = "from a file"
}
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- a.Serve(ctx, ServeOptions{Addr: "127.0.0.1:0", Import: seed, Ready: func(addr net.Addr) { ready <- addr }})
	}()

	var url string
	select {
	case addr := <-ready:
		url = "http://" + addr.String()
	case err := <-done:
		t.Fatalf("serve failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	client := remote.New(url)
	defer client.Close()
	var snapName string
	require.Eventually(t, func() bool {
		snap, err := client.Document(ctx)
		if err != nil {
			return false
		}
		snapName = snap.Program.Name
		return true
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "tool", snapName)

	// --- Act ---
	require.NoError(t, a.Push(ctx, url, pushed))

	// --- Assert ---
	snap, err := client.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pushed", snap.Program.Name)
	assert.Empty(t, snap.Arguments)
	assert.Contains(t, out.String(), "pushed "+pushed)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
