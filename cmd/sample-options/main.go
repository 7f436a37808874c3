// Command sample-options demonstrates the argument normalizer with a
// hard-coded set of option declarations.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/climeta/internal/model"
	"github.com/specialistvlad/climeta/internal/normalize"
	"github.com/zclconf/go-cty/cty"
)

type options struct {
	Output  string  `cty:"output" json:"output"`
	Verbose bool    `cty:"verbose" json:"verbose"`
	Enable  bool    `cty:"enable" json:"enable"`
	Int     int     `cty:"int_" json:"int_"`
	Float   float64 `cty:"float_" json:"float_"`
	Input   string  `cty:"input" json:"input"`
}

var normalizer = &normalize.Normalizer{
	Program:     "sample-options",
	Description: "Description for help",
	Epilog:      "Epilog",
	Options: []normalize.Option{
		{Name: "output", Type: model.TypeString, Description: "output file path"},
		{Name: "verbose", Alias: "v", Type: model.TypeFlag, Default: cty.False, Description: "enable verbose mode"},
		// Exposed as "enable", switched off by --disable.
		{Name: "disable", Type: model.TypeFlag, Default: cty.False, Dest: "enable", Invert: true, Description: "disable something"},
		{Name: "int", Alias: "i", Type: model.TypeInt, Dest: "int_", Description: "just an integer number"},
		{Name: "float", Alias: "f", Type: model.TypeFloat, Default: cty.NumberFloatVal(7.0), Dest: "float_", Description: "just a float number"},
	},
	Positionals: []normalize.Positional{
		{Name: "input", Type: model.TypeString, Description: "input file path"},
	},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	opts, err := parseArgs(context.Background(), os.Args[1:], os.Stdout)
	normalize.Exit(err)
	if err := printOptions(os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseArgs(ctx context.Context, args []string, out io.Writer) (*options, error) {
	res, err := normalizer.Normalize(ctx, args, out)
	if err != nil {
		return nil, err
	}
	var opts options
	if err := res.Decode(&opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func printOptions(w io.Writer, opts *options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(opts)
}
