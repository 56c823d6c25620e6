package crawler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"catalogsync/internal/cache"
)

// CachedFetcher serves pages from a page cache and stores successful
// responses from the wrapped fetcher. Cache failures only cost a refetch.
type CachedFetcher struct {
	next   Fetcher
	pages  *cache.PageStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewCachedFetcher(next Fetcher, pages *cache.PageStore, logger zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		pages:  pages,
		logger: logger.With().Str("component", "page-cache").Logger(),
		now:    time.Now,
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	page, err := f.pages.Get(ctx, url)
	if err == nil {
		f.logger.Debug().Str("url", url).Msg("cache hit")
		return &Response{URL: url, StatusCode: http.StatusOK, Status: page.Status, Body: page.Body}, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		f.logger.Warn().Err(err).Str("url", url).Msg("page cache read failed")
	}

	resp, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.pages.Put(ctx, cache.Page{URL: url, Status: resp.Status, Body: resp.Body, FetchedAt: f.now().UTC()}); err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("page cache write failed")
	}
	return resp, nil
}
