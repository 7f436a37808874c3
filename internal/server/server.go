package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	// DocumentEvent is the socket.io event carrying session changes.
	DocumentEvent = "document"

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server serves one editor session.
type Server struct {
	session *editor.Session
	codecs  *config.Registry
	logger  *slog.Logger

	io          *socket.Server
	handler     http.Handler
	unsubscribe func()
}

// New creates a server for session. Documents are generated and imported
// with the codecs of registry.
func New(ctx context.Context, session *editor.Session, registry *config.Registry) *Server {
	s := &Server{
		session: session,
		codecs:  registry,
		logger:  ctxlog.FromContext(ctx).With("component", "server"),
		io:      socket.NewServer(nil, nil),
	}
	s.io.On("connection", s.onConnection)
	s.unsubscribe = session.Subscribe(s.broadcast)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/document", s.handleDocument)
	mux.HandleFunc("PUT /api/program", s.handleSetProgram)
	mux.HandleFunc("POST /api/arguments", s.handleAddArgument)
	mux.HandleFunc("PUT /api/arguments/{id}", s.handleUpdateArgument)
	mux.HandleFunc("DELETE /api/arguments/{id}", s.handleRemoveArgument)
	mux.HandleFunc("POST /api/arguments/{id}/choices", s.handleAddChoice)
	mux.HandleFunc("DELETE /api/arguments/{id}/choices/{choice}", s.handleRemoveChoice)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	s.handler = s.logRequests(mux)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{Handler: s.handler}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("✏️ Editor server starting", "address", fmt.Sprintf("http://%s/", ln.Addr()))
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("editor server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down editor server...")
	s.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Editor server shutdown failed", "error", err)
		return err
	}
	s.logger.Debug("Editor server shut down gracefully.")
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Close detaches the server from the session and closes socket.io clients.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.io.Close(nil)
}

func (s *Server) onConnection(clients ...any) {
	client, ok := clients[0].(*socket.Socket)
	if !ok {
		return
	}
	s.logger.Debug("Socket.io client connected.", "sid", client.Id())
	payload, err := eventPayload(editor.Event{Kind: editor.EventSync, Document: s.session.Snapshot()})
	if err != nil {
		s.logger.Error("Failed to encode document event", "error", err)
		return
	}
	client.Emit(DocumentEvent, payload)
}

func (s *Server) broadcast(ev editor.Event) {
	payload, err := eventPayload(ev)
	if err != nil {
		s.logger.Error("Failed to encode document event", "error", err)
		return
	}
	s.logger.Debug("Broadcasting change.", "kind", ev.Kind, "row_id", ev.RowID)
	s.io.Emit(DocumentEvent, payload)
}

// eventPayload converts ev into the generic JSON shape the socket.io parser
// serializes.
func eventPayload(ev editor.Event) (map[string]any, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.With(ctxlog.WithLogger(r.Context(), s.logger), "method", r.Method, "path", r.URL.Path)
		ctxlog.FromContext(ctx).Debug("Request received.", "remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
