package app

import (
	"context"
	"fmt"
	"net"

	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/specialistvlad/climeta/internal/server"
	"golang.org/x/sync/errgroup"
)

// ServeOptions configures App.Serve.
type ServeOptions struct {
	Addr string
	// Import is a document loaded into the session before serving.
	Import string
	// Ready, when set, receives the bound address once the server listens.
	Ready func(addr net.Addr)
}

// Serve runs the editor server until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	session := editor.New()
	if opts.Import != "" {
		doc, err := a.codecs.LoadFile(ctx, opts.Import)
		if err != nil {
			return err
		}
		snap := session.Replace(*doc)
		logger.Info("Document imported.", "path", opts.Import, "arguments", len(snap.Arguments))
	}

	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}

	changes := make(chan editor.Event, 64)
	unsubscribe := session.Subscribe(func(ev editor.Event) {
		select {
		case changes <- ev:
		default:
			logger.Warn("Change log lagging, event dropped.", "kind", ev.Kind)
		}
	})
	defer unsubscribe()

	srv := server.New(ctx, session, a.codecs)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-changes:
				logger.Info("Document changed.", "kind", ev.Kind, "row_id", ev.RowID, "arguments", len(ev.Document.Arguments))
			}
		}
	})
	return g.Wait()
}
