package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/climeta/internal/config"
	"github.com/specialistvlad/climeta/internal/ctxlog"
	"github.com/specialistvlad/climeta/internal/docfmt"
	"github.com/specialistvlad/climeta/internal/editor"
	"github.com/specialistvlad/climeta/internal/hcl"
	"github.com/specialistvlad/climeta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *editor.Session) {
	t.Helper()
	ctx := ctxlog.Discard(context.Background())
	session := editor.New()
	srv := New(ctx, session, config.NewRegistry(docfmt.NewCodec(), hcl.NewCodec()))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts, session
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", body)
}

func TestArgumentLifecycle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ts, session := newTestServer(t)

	// --- Act & Assert ---
	resp, body := do(t, http.MethodPut, ts.URL+"/api/program", `{"name":"tool","description":"does things"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = do(t, http.MethodPost, ts.URL+"/api/arguments", `{"name":"-mode","type":"string","default":"fast","help":"mode"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, "/api/arguments/arg-1", resp.Header.Get("Location"))
	var row editor.Row
	require.NoError(t, json.Unmarshal([]byte(body), &row))
	assert.Equal(t, "arg-1", row.ID)
	assert.Equal(t, "--mode", row.Name, "single dash is promoted")

	resp, body = do(t, http.MethodPost, ts.URL+"/api/arguments/arg-1/choices", `{"choice":"fast"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	resp, _ = do(t, http.MethodPost, ts.URL+"/api/arguments/arg-1/choices", `{"choice":"fast"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, ts.URL+"/api/arguments/arg-1/choices", `{"choice":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, body = do(t, http.MethodPost, ts.URL+"/api/arguments/arg-1/choices", `{"choice":"slow"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	resp, body = do(t, http.MethodDelete, ts.URL+"/api/arguments/arg-1/choices/fast", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	got, err := session.Row("arg-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"slow"}, got.Choices)

	resp, body = do(t, http.MethodPut, ts.URL+"/api/arguments/arg-1", `{"name":"--mode","type":"int","default":"3","help":"mode"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = do(t, http.MethodGet, ts.URL+"/api/document", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap editor.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Equal(t, "tool", snap.Program.Name)
	require.Len(t, snap.Arguments, 1)
	assert.Equal(t, "3", snap.Arguments[0].Default)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/arguments/arg-1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/api/arguments/arg-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodPut, ts.URL+"/api/arguments/arg-1", `{"name":"x","type":"string","help":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBadRequests(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "malformed json", method: http.MethodPost, path: "/api/arguments", body: `{"name":`},
		{name: "unknown field", method: http.MethodPut, path: "/api/program", body: `{"title":"x"}`},
		{name: "unknown format", method: http.MethodPost, path: "/api/generate?format=yaml"},
		{name: "undecodable import", method: http.MethodPost, path: "/api/import?format=hcl", body: `argument {`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, tc.method, ts.URL+tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			var er ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &er))
			assert.NotEmpty(t, er.Error)
		})
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	ts, session := newTestServer(t)
	session.SetProgram(editorProgram())
	session.Add(editorArgument("input"))
	bad := session.Add(editorArgument("--count"))
	broken := editorArgument("--count")
	broken.Type = model.TypeInt
	broken.Default = "many"
	_, err := session.Update(bad.ID, broken)
	require.NoError(t, err)

	resp, body := do(t, http.MethodPost, ts.URL+"/api/generate", "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &er))
	require.Len(t, er.Fields, 1)
	assert.Equal(t, bad.ID, er.Fields[0].RowID)
	assert.Equal(t, "default", er.Fields[0].Field)

	fixed := editorArgument("--count")
	fixed.Type = model.TypeInt
	fixed.Default = "3"
	_, err = session.Update(bad.ID, fixed)
	require.NoError(t, err)

	resp, body = do(t, http.MethodPost, ts.URL+"/api/generate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, `attachment; filename="cli_config.toml"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(body, "[program]\nname = \"tool\"\n"), body)
	assert.Contains(t, body, "default = \"3\"\n")

	resp, body = do(t, http.MethodPost, ts.URL+"/api/generate?format=hcl", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, `attachment; filename="cli_config.hcl"`, resp.Header.Get("Content-Disposition"))
	assert.Contains(t, body, `argument "--count"`)
}

func TestImport(t *testing.T) {
	t.Parallel()

	ts, session := newTestServer(t)
	session.Add(editorArgument("old"))

	doc := "[program]\nname = \"imported\"\ndescription = \"d\"\n\n[[arguments]]\nname = \"input\"\ntype = \"string\"\nhelp = \"in\"\n"
	resp, body := do(t, http.MethodPost, ts.URL+"/api/import", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	snap := session.Snapshot()
	assert.Equal(t, "imported", snap.Program.Name)
	require.Len(t, snap.Arguments, 1)
	assert.Equal(t, "input", snap.Arguments[0].Name)
	assert.Equal(t, "arg-2", snap.Arguments[0].ID)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
	srv := New(ctx, editor.New(), config.NewRegistry(docfmt.NewCodec()))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	// --- Act ---
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	cancel()

	// --- Assert ---
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
