package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/cache"
)

func TestHTTPFetcher(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<h1>Hex Bolt</h1>"))
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
			w.Write([]byte{'C', 'a', 'f', 0xe9})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, "")

	resp, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>Hex Bolt</h1>", resp.Body)
	assert.Equal(t, DefaultUserAgent, gotUA)

	resp, err = f.Fetch(context.Background(), srv.URL+"/latin1")
	require.NoError(t, err)
	assert.Equal(t, "Café", resp.Body)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, "Not Found", fe.Status)
	assert.Contains(t, err.Error(), "HTTP 404 Not Found")
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(time.Second, "test-agent").Fetch(context.Background(), url)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.Error(t, fe.Unwrap())
}

type countingFetcher struct {
	calls int
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, url string) (*Response, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Response{URL: url, StatusCode: 200, Status: "200 OK", Body: "page"}, nil
}

func TestCachedFetcher(t *testing.T) {
	next := &countingFetcher{}
	f := NewCachedFetcher(next, &cache.PageStore{Cache: cache.NewMemoryCache(), TTL: time.Hour}, zerolog.Nop())

	for range 3 {
		resp, err := f.Fetch(context.Background(), "https://shop.example/p/1")
		require.NoError(t, err)
		assert.Equal(t, "page", resp.Body)
	}
	assert.Equal(t, 1, next.calls)

	_, err := f.Fetch(context.Background(), "https://shop.example/p/2")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedFetcherDoesNotStoreFailures(t *testing.T) {
	next := &countingFetcher{err: &FetchError{URL: "u", StatusCode: 503}}
	f := NewCachedFetcher(next, &cache.PageStore{Cache: cache.NewMemoryCache()}, zerolog.Nop())

	for range 2 {
		_, err := f.Fetch(context.Background(), "u")
		var fe *FetchError
		assert.True(t, errors.As(err, &fe))
	}
	assert.Equal(t, 2, next.calls)
}

func TestPacer(t *testing.T) {
	p := NewPacer(30*time.Millisecond, 0, 0)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, NewPacer(0, 0, time.Hour).Backoff(cancelled))
	assert.NoError(t, NewPacer(0, 0, 0).Wait(ctx))
}

func TestPageText(t *testing.T) {
	text, err := PageText(`<html><body><h1> Hex   Bolt </h1><div>skip</div><p>Zinc plated</p><ul><li></li><li>M8</li></ul></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Hex Bolt\nZinc plated\nM8", text)
}
