package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/rag-mcp/internal/common"
)

func postRPC(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandler_ListTools(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(NewHandler(s, common.NewSilentLogger()))
	defer srv.Close()

	resp := postRPC(t, srv.URL+EndpointPath, `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var rpc struct {
		Result mcpgo.ListToolsResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rpc.Result.Tools) != 1 || rpc.Result.Tools[0].Name != ConfigureToolName {
		t.Errorf("expected configure_rag only, got %v", rpc.Result.Tools)
	}
}

func TestHandler_CallTool(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(NewHandler(s, common.NewSilentLogger()))
	defer srv.Close()

	resp := postRPC(t, srv.URL+EndpointPath,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"rag_docs","arguments":{"query":"q"}}}`)

	var rpc struct {
		Result mcpgo.CallToolResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rpc.Result.IsError {
		t.Error("expected IsError before configuration")
	}
	if len(rpc.Result.Content) == 0 || !strings.Contains(extractText(t, rpc.Result.Content[0]), "configure_rag") {
		t.Errorf("expected configure guidance, got %+v", rpc.Result.Content)
	}
}

func TestHandler_RejectsWrongContentType(t *testing.T) {
	s, _ := newTestServer(t)
	srv := httptest.NewServer(NewHandler(s, common.NewSilentLogger()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+EndpointPath, "text/plain", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
