package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/climeta/internal/codegen"
	"github.com/specialistvlad/climeta/internal/ctxlog"
)

// CodegenOptions configures App.Codegen.
type CodegenOptions struct {
	Input string
	Lang  string
	// Output is the base name of the generated files. Any extension is
	// replaced by the generator's. Empty or "-" writes every file to the app
	// output.
	Output string
}

// Codegen renders the argument parser of a document in another language. It
// returns the paths written.
func (a *App) Codegen(ctx context.Context, opts CodegenOptions) ([]string, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	if _, err := codegen.Lookup(opts.Lang); err != nil {
		return nil, err
	}
	doc, err := a.codecs.LoadFile(ctx, opts.Input)
	if err != nil {
		return nil, err
	}

	toStdout := opts.Output == "" || opts.Output == "-"
	base := codegen.DefaultBase
	if !toStdout {
		base = strings.TrimSuffix(opts.Output, filepath.Ext(opts.Output))
	}
	files, err := codegen.Generate(opts.Lang, *doc, base)
	if reportValidation(a.outW, opts.Input, doc, err) {
		return nil, ErrInvalidDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s code: %w", opts.Lang, err)
	}

	if toStdout {
		for _, f := range files {
			if _, err := a.outW.Write(f.Content); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(f.Name, f.Content, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		logger.Info("Code generated.", "lang", opts.Lang, "path", f.Name)
		paths = append(paths, f.Name)
	}
	return paths, nil
}
