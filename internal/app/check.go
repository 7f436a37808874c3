package app

import (
	"context"
	"fmt"

	"github.com/gookit/color"
	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
)

// Check validates every document found under paths. Files are checked
// directly; directories are searched for known document extensions.
func (a *App) Check(ctx context.Context, paths ...string) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	files, err := config.Discover(paths...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents found in %v", paths)
	}
	logger.Debug("Documents discovered.", "count", len(files))

	failed := 0
	for _, path := range files {
		doc, err := a.codecs.LoadFile(ctx, path)
		if err != nil {
			failed++
			fmt.Fprintf(a.outW, "%s: %v\n", color.Bold.Sprint(path), err)
			continue
		}
		if err := doc.Validate(); err != nil {
			failed++
			reportValidation(a.outW, path, doc, err)
			continue
		}
		fmt.Fprintf(a.outW, "%s: %s\n", color.Bold.Sprint(path), color.Green.Sprint("ok"))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d document(s) failed", ErrInvalidDocument, failed, len(files))
	}
	return nil
}
