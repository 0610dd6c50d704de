package rag

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rag-mcp/internal/tools"
)

func newQueryTool(t *testing.T, baseURL string, opts ...Option) *QueryTool {
	t.Helper()
	c, err := NewClient(tools.Credentials{APIToken: "tok", BaseURL: baseURL}, opts...)
	require.NoError(t, err)
	return NewQueryTool(c)
}

func TestQueryTool_Descriptor(t *testing.T) {
	tool := newQueryTool(t, "https://rag.example.com")

	assert.Equal(t, "rag_docs", tool.Name())
	assert.NotEmpty(t, tool.Description())

	schema := tool.InputSchema()
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"query"}, schema.Required)
	prop, ok := schema.Properties["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", prop["type"])
	assert.Equal(t, "The question to ask the RAG system", prop["description"])

	d := tools.Describe(tool)
	assert.Equal(t, "rag_docs", d.Name)
	assert.Equal(t, tool.Description(), d.Description)
}

func TestQueryTool_MissingQueryMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tool := newQueryTool(t, srv.URL)

	cases := map[string]map[string]any{
		"absent":     {},
		"empty":      {"query": ""},
		"not string": {"query": 42},
		"nil":        {"query": nil},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			o := tool.Execute(context.Background(), args)
			assert.False(t, o.OK)
			assert.Equal(t, tools.FailureValidation, o.Kind)
			assert.Equal(t, "Query parameter is required", o.Error)
			assert.Equal(t, msgMissingQuery, o.Message)
		})
	}
	assert.Zero(t, hits.Load())
}

func TestQueryTool_WhitespaceQueryIsSent(t *testing.T) {
	var got captured
	srv := newRAGServer(t, http.StatusOK, `{"answer":"X"}`, &got)
	tool := newQueryTool(t, srv.URL)

	o := tool.Execute(context.Background(), map[string]any{"query": "  "})
	require.True(t, o.OK, o.Error)
	assert.Equal(t, "  ", o.Query)
	assert.Equal(t, "  ", got.body["query"])
}

func TestQueryTool_Success(t *testing.T) {
	srv := newRAGServer(t, http.StatusOK, `{"answer":"Mario Rossi"}`, nil)
	tool := newQueryTool(t, srv.URL)

	o := tool.Execute(context.Background(), map[string]any{"query": "who is the CTO?"})
	require.True(t, o.OK, o.Error)
	assert.Equal(t, "Query executed successfully", o.Message)
	assert.Equal(t, "who is the CTO?", o.Query)
	assert.Equal(t, map[string]any{"answer": "Mario Rossi"}, o.Data)
}

func TestQueryTool_RemoteErrors(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		message string
	}{
		{http.StatusBadRequest, "bad", "Verifica il testo della domanda"},
		{http.StatusUnauthorized, "denied", "configure_rag"},
		{http.StatusForbidden, "nope", "permessi"},
		{http.StatusNotFound, "missing", "base URL"},
		{http.StatusTooManyRequests, "slow down", "Troppe richieste"},
		{http.StatusInternalServerError, "oops", "status 500"},
		{http.StatusBadGateway, "upstream", "status 502"},
		{http.StatusTeapot, "teapot", "status 418"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newRAGServer(t, tt.status, tt.body, nil)
			tool := newQueryTool(t, srv.URL)

			o := tool.Execute(context.Background(), map[string]any{"query": "q"})
			assert.False(t, o.OK)
			assert.Equal(t, tools.FailureRemoteAPI, o.Kind)
			assert.Contains(t, o.Error, "API error")
			assert.Contains(t, o.Error, tt.body)
			assert.Contains(t, o.Message, tt.message)
		})
	}
}

func TestQueryTool_ServerErrorText(t *testing.T) {
	srv := newRAGServer(t, http.StatusInternalServerError, "oops", nil)
	tool := newQueryTool(t, srv.URL)

	o := tool.Execute(context.Background(), map[string]any{"query": "q"})
	assert.Equal(t, "API error 500: oops", o.Error)
}

func TestQueryTool_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tool := newQueryTool(t, srv.URL, WithTimeout(50*time.Millisecond))

	o := tool.Execute(context.Background(), map[string]any{"query": "q"})
	assert.False(t, o.OK)
	assert.Equal(t, tools.FailureTimeout, o.Kind)
	assert.Equal(t, "Request timeout", o.Error)
	assert.Equal(t, msgTimeout, o.Message)
}

func TestQueryTool_TimeoutWhileReadingBody(t *testing.T) {
	srv := newStallingBodyServer(t)
	tool := newQueryTool(t, srv.URL, WithTimeout(100*time.Millisecond))

	o := tool.Execute(context.Background(), map[string]any{"query": "q"})
	assert.False(t, o.OK)
	assert.Equal(t, tools.FailureTimeout, o.Kind)
	assert.Equal(t, "Request timeout", o.Error)
	assert.Equal(t, msgTimeout, o.Message)
}

func TestQueryTool_Canceled(t *testing.T) {
	srv := newRAGServer(t, http.StatusOK, `{}`, nil)
	tool := newQueryTool(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := tool.Execute(ctx, map[string]any{"query": "q"})
	assert.False(t, o.OK)
	assert.Equal(t, tools.FailureUnexpected, o.Kind)
	assert.Equal(t, "Request canceled", o.Error)
}

func TestQueryTool_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	tool := newQueryTool(t, base)
	o := tool.Execute(context.Background(), map[string]any{"query": "q"})
	assert.False(t, o.OK)
	assert.Equal(t, tools.FailureUnexpected, o.Kind)
	assert.NotEmpty(t, o.Error)
	assert.Equal(t, msgUnexpected, o.Message)
}

func TestNewFactory(t *testing.T) {
	f := NewFactory(WithTimeout(time.Second))

	built, err := f(tools.Credentials{APIToken: "tok", BaseURL: "https://rag.example.com/"})
	require.NoError(t, err)
	require.Len(t, built, 1)
	assert.Equal(t, "rag_docs", built[0].Name())

	qt := built[0].(*QueryTool)
	assert.Equal(t, "https://rag.example.com/api/v1/rag/docs", qt.client.Endpoint())
	assert.Equal(t, time.Second, qt.client.timeout)

	_, err = f(tools.Credentials{APIToken: "tok", BaseURL: "not-a-url"})
	assert.Error(t, err)
}

func TestNewFactory_WithRegistry(t *testing.T) {
	srv := newRAGServer(t, http.StatusOK, `{"answer":"ok"}`, nil)

	r := tools.NewRegistry(NewFactory(), Definition())
	require.NoError(t, r.Configure(tools.Credentials{APIToken: "tok", BaseURL: srv.URL}))

	tool, ok := r.Resolve(ToolName)
	require.True(t, ok)
	o := tool.Execute(context.Background(), map[string]any{"query": "q"})
	assert.True(t, o.OK, o.Error)

	err := r.Configure(tools.Credentials{APIToken: "tok", BaseURL: "ftp://bad"})
	assert.ErrorIs(t, err, tools.ErrConfiguration)
	assert.Equal(t, srv.URL, r.BaseURL(), "failed configure keeps the previous set")
}
