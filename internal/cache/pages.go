package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

const DefaultPageTTL = 6 * time.Hour

// Page is a stored copy of a fetched product page.
type Page struct {
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	Body      string    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PageStore keeps fetched pages keyed by URL.
type PageStore struct {
	Cache Cache
	TTL   time.Duration
}

func pageKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "page:" + hex.EncodeToString(sum[:])
}

// Get returns ErrCacheMiss when the page is absent or unreadable.
func (s *PageStore) Get(ctx context.Context, url string) (*Page, error) {
	val, err := s.Cache.Get(ctx, pageKey(url))
	if err != nil {
		return nil, err
	}
	var p Page
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, ErrCacheMiss
	}
	return &p, nil
}

func (s *PageStore) Put(ctx context.Context, p Page) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return s.Cache.Set(ctx, pageKey(p.URL), b, ttl)
}
