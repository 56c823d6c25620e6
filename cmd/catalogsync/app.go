package main

import (
	"context"
	"database/sql"
	"fmt"

	"catalogsync/internal/advisor"
	"catalogsync/internal/cache"
	"catalogsync/internal/classify"
	"catalogsync/internal/crawler"
	"catalogsync/internal/db"
	"catalogsync/internal/extract"
	"catalogsync/internal/pipeline"
	"catalogsync/internal/reconcile"
	"catalogsync/internal/repository"
	"catalogsync/internal/supplier"
)

// app holds the wired components shared by the subcommands.
type app struct {
	conn      *sql.DB
	store     *repository.SQLStore
	processor *pipeline.Processor
	cache     cache.Cache
}

func newApp(ctx context.Context) (*app, error) {
	conn, dialect, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store := repository.NewSQLStore(conn, dialect)
	if err := store.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	a := &app{conn: conn, store: store}

	var fetcher crawler.Fetcher = crawler.NewHTTPFetcher(cfg.FetchTimeout, cfg.UserAgent)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cache.DefaultPrefix)
		if err != nil {
			logger.Warn().Err(err).Msg("page cache disabled")
		} else {
			a.cache = rc
			fetcher = crawler.NewCachedFetcher(fetcher, &cache.PageStore{Cache: rc, TTL: cfg.PageCacheTTL}, logger)
		}
	}

	var opts []pipeline.Option
	if cfg.OpenAIKey != "" {
		opts = append(opts, pipeline.WithAdvisor(advisor.NewOpenAIAdvisor(cfg.OpenAIKey, cfg.OpenAIModel)))
	}

	extractor := extract.New(extract.DefaultTables(), classify.New(classify.DefaultRules()))
	engine := reconcile.NewEngine(store, supplier.DefaultDirectory(), logger)
	a.processor = pipeline.NewProcessor(fetcher, extractor, engine, logger, opts...)

	logger.Debug().
		Str("driver", cfg.DatabaseDriver).
		Bool("page_cache", a.cache != nil).
		Bool("advisor", cfg.OpenAIKey != "").
		Msg("components ready")
	return a, nil
}

func (a *app) Close() error {
	if a.cache != nil {
		a.cache.Close()
	}
	if err := a.conn.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
