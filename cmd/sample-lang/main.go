// Command sample-lang demonstrates a normalizer derived from an embedded CLI
// metadata document, including a choice-restricted option.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/climeta/internal/docfmt"
	"github.com/specialistvlad/climeta/internal/normalize"
)

//go:embed cli.toml
var document []byte

type options struct {
	Output string   `cty:"output" json:"output"`
	Lang   string   `cty:"lang" json:"lang"`
	Files  []string `cty:"files" json:"files"`
	Input  string   `cty:"input" json:"input"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	opts, err := parseArgs(context.Background(), os.Args[1:], os.Stdout)
	normalize.Exit(err)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newNormalizer() (*normalize.Normalizer, error) {
	return normalize.FromDocument(docfmt.Unmarshal(document).Document())
}

func parseArgs(ctx context.Context, args []string, out io.Writer) (*options, error) {
	n, err := newNormalizer()
	if err != nil {
		return nil, fmt.Errorf("embedded document: %w", err)
	}
	res, err := n.Normalize(ctx, args, out)
	if err != nil {
		return nil, err
	}
	var opts options
	if err := res.Decode(&opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
