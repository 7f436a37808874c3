package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/specialistvlad/climeta/internal/server"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Watch connects to the change feed of the server at rawURL and calls fn for
// every document event until ctx is done. The first event is the current
// state (kind "sync"). It returns nil when ctx ends and an error when the
// connection cannot be established.
func Watch(ctx context.Context, rawURL string, fn func(editor.Event)) error {
	logger := ctxlog.FromContext(ctx).With("component", "watch", "url", rawURL)
	logger.Debug("Watch started")
	defer logger.Debug("Watch finished")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("invalid server URL %q", rawURL)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	errCh := make(chan error, 1)
	fail := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to editor", "sid", io.Id())
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				fail(fmt.Errorf("failed to connect to %s: %w", baseURL, err))
				return
			}
		}
		fail(fmt.Errorf("failed to connect to %s", baseURL))
	})
	io.On(types.EventName("disconnect"), func(reasons ...any) {
		logger.Debug("Disconnected", "reason", reasons)
		if ctx.Err() == nil {
			fail(fmt.Errorf("disconnected from %s: %v", baseURL, reasons))
		}
	})
	io.On(types.EventName(server.DocumentEvent), func(data ...any) {
		if len(data) == 0 {
			return
		}
		ev, err := decodeEvent(data[0])
		if err != nil {
			logger.Warn("Ignoring malformed document event", "error", err)
			return
		}
		fn(ev)
	})

	io.Connect()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func decodeEvent(payload any) (editor.Event, error) {
	var ev editor.Event
	data, err := json.Marshal(payload)
	if err != nil {
		return ev, err
	}
	err = json.Unmarshal(data, &ev)
	return ev, err
}
