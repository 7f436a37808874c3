// Package remote talks to a running editor server: a REST client for the
// JSON API and a socket.io listener for its change feed.
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/specialistvlad/climeta/internal/server"
	"resty.dev/v3"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer of the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []editor.RowError
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "server returned %d: %s", e.StatusCode, e.Message)
	for _, f := range e.Fields {
		fmt.Fprintf(&sb, "\n  %s %s: %s", f.RowID, f.Field, f.Message)
	}
	return sb.String()
}

// Client is a client of the editor API.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&server.ErrorResponse{})
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if er, ok := resp.Error().(*server.ErrorResponse); ok && er != nil && er.Error != "" {
		apiErr.Message = er.Error
		apiErr.Fields = er.Fields
	} else {
		apiErr.Message = resp.String()
	}
	return apiErr
}

// Document fetches the current session state.
func (c *Client) Document(ctx context.Context) (*editor.Snapshot, error) {
	var snap editor.Snapshot
	if err := check(c.request(ctx).SetResult(&snap).Get("/api/document")); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SetProgram replaces the program metadata.
func (c *Client) SetProgram(ctx context.Context, p model.ProgramMetadata) (*editor.Snapshot, error) {
	var snap editor.Snapshot
	if err := check(c.request(ctx).SetBody(p).SetResult(&snap).Put("/api/program")); err != nil {
		return nil, err
	}
	return &snap, nil
}

// AddArgument appends a row and returns it with its identifier.
func (c *Client) AddArgument(ctx context.Context, spec model.ArgumentSpec) (*editor.Row, error) {
	var row editor.Row
	if err := check(c.request(ctx).SetBody(spec).SetResult(&row).Post("/api/arguments")); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateArgument replaces the row id.
func (c *Client) UpdateArgument(ctx context.Context, id string, spec model.ArgumentSpec) (*editor.Row, error) {
	var row editor.Row
	resp, err := c.request(ctx).SetPathParam("id", id).SetBody(spec).SetResult(&row).Put("/api/arguments/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &row, nil
}

// RemoveArgument deletes the row id.
func (c *Client) RemoveArgument(ctx context.Context, id string) error {
	return check(c.request(ctx).SetPathParam("id", id).Delete("/api/arguments/{id}"))
}

// Generate asks the server to render the document in format. Validation
// failures come back as *APIError with Fields set.
func (c *Client) Generate(ctx context.Context, format config.Format) ([]byte, error) {
	resp, err := c.request(ctx).SetQueryParam("format", string(format)).Post("/api/generate")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return resp.Bytes(), nil
}

// Import replaces the server session with the document data encoded in
// format.
func (c *Client) Import(ctx context.Context, format config.Format, data []byte) (*editor.Snapshot, error) {
	var snap editor.Snapshot
	resp, err := c.request(ctx).
		SetQueryParam("format", string(format)).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(data).
		SetResult(&snap).
		Post("/api/import")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &snap, nil
}
