package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
)

// GenerateOptions configures App.Generate.
type GenerateOptions struct {
	Input string
	// Output is a file path; empty writes to the app output.
	Output string
	// Format selects the output encoding. When empty it follows the
	// extension of Output, then the format of Input.
	Format config.Format
}

// Generate loads a document, validates it and writes it in the requested
// format. It converts between formats.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	doc, err := a.codecs.LoadFile(ctx, opts.Input)
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		if f, ok := config.FormatForPath(opts.Output); ok && opts.Output != "" {
			format = f
		} else if f, ok := config.FormatForPath(opts.Input); ok {
			format = f
		}
	}
	codec, err := a.codecs.Codec(format)
	if err != nil {
		return err
	}

	out, err := codec.Encode(ctx, *doc)
	if reportValidation(a.outW, opts.Input, doc, err) {
		return ErrInvalidDocument
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", opts.Input, err)
	}

	if opts.Output == "" {
		_, err = a.outW.Write(out)
		return err
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	logger.Info("Document written.", "path", opts.Output, "format", format, "arguments", len(doc.Arguments))
	return nil
}
