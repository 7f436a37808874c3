package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/specialistvlad/climeta/internal/remote"
)

// Watch prints a line for every change of the editor at url until ctx is
// cancelled.
func (a *App) Watch(ctx context.Context, url string) error {
	ctx = a.context(ctx)
	return remote.Watch(ctx, url, func(ev editor.Event) {
		line := fmt.Sprintf("%s %s: %d argument(s)", color.Cyan.Sprint(ev.Kind), ev.Document.Program.Name, len(ev.Document.Arguments))
		if ev.RowID != "" {
			line += " [" + ev.RowID + "]"
		}
		fmt.Fprintln(a.outW, line)
	})
}

// Push imports the document at path into the editor at url, replacing its
// content.
func (a *App) Push(ctx context.Context, url, path string) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	codec, err := a.codecs.CodecForPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", path, err)
	}

	client := remote.New(url)
	defer client.Close()
	snap, err := client.Import(ctx, codec.Format(), data)
	if err != nil {
		return err
	}
	logger.Info("Document pushed.", "url", url, "arguments", len(snap.Arguments))
	fmt.Fprintf(a.outW, "pushed %s: %d argument(s)\n", path, len(snap.Arguments))
	return nil
}
