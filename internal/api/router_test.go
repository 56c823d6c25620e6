package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/classify"
	"catalogsync/internal/crawler"
	"catalogsync/internal/extract"
	"catalogsync/internal/model"
	"catalogsync/internal/pipeline"
	"catalogsync/internal/reconcile"
	"catalogsync/internal/repository"
	"catalogsync/internal/supplier"
)

const (
	sheetURL  = "https://www.mcmaster.com/89015K18"
	sheetPage = `<html><head><title>Aluminum Sheet 12 x 24 inches</title></head>
<body><h1>Aluminum Sheet 12 x 24 inches</h1><span class="price">$119.22</span></body></html>`
)

type pageFetcher map[string]string

func (f pageFetcher) Fetch(_ context.Context, url string) (*crawler.Response, error) {
	page, ok := f[url]
	if !ok {
		return nil, &crawler.FetchError{URL: url, StatusCode: 404, Status: "Not Found"}
	}
	return &crawler.Response{URL: url, StatusCode: 200, Status: "200 OK", Body: page}, nil
}

func newTestServer(t *testing.T, store reconcile.Store) *httptest.Server {
	t.Helper()
	x := extract.New(extract.DefaultTables(), classify.New(classify.DefaultRules()))
	engine := reconcile.NewEngine(store, supplier.DefaultDirectory(), zerolog.Nop())
	p := pipeline.NewProcessor(pageFetcher{sheetURL: sheetPage}, x, engine, zerolog.Nop())
	srv := httptest.NewServer(NewRouter(p, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/extract", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestExtract(t *testing.T) {
	store := repository.NewMemoryStore()
	srv := newTestServer(t, store)

	tests := []struct {
		name    string
		body    string
		status  int
		success bool
	}{
		{"extract only", `{"url":"` + sheetURL + `"}`, http.StatusOK, true},
		{"typed", `{"url":"` + sheetURL + `","type":"material"}`, http.StatusOK, true},
		{"missing url", `{}`, http.StatusBadRequest, false},
		{"bad url", `{"url":"ftp://x"}`, http.StatusBadRequest, false},
		{"bad type", `{"url":"` + sheetURL + `","type":"tool"}`, http.StatusBadRequest, false},
		{"bad json", `{"url":`, http.StatusBadRequest, false},
		{"fetch failure", `{"url":"https://shop.example/gone"}`, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, srv, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, tt.success, out["success"])
			if !tt.success {
				assert.NotEmpty(t, out["error"])
			}
		})
	}

	assert.Empty(t, store.Entries())
}

func TestExtractInsert(t *testing.T) {
	store := repository.NewMemoryStore()
	srv := newTestServer(t, store)

	resp, out := post(t, srv, `{"url":"`+sheetURL+`","insert":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, out, "insert_result")

	data := out["data"].(map[string]any)
	assert.Equal(t, "material", data["suggested_type"])
	assert.Len(t, store.Entries(), 1)
	assert.Len(t, store.History(model.HistoryPrice), 1)
}

func TestPreflightAndHealth(t *testing.T) {
	srv := newTestServer(t, repository.NewMemoryStore())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/extract", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, allowHeaders, resp.Header.Get("Access-Control-Allow-Headers"))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/extract")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
