// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api serves the comic catalog over HTTP.
//
// Startup order: logger, config, postgres, redis, migrations, page storage
// and rename journal, token verifier, domain services, router. SIGINT or
// SIGTERM drains the server and closes everything in reverse order.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/comicvault/internal/api"
	"github.com/taibuivan/comicvault/internal/core/artist"
	"github.com/taibuivan/comicvault/internal/core/catalog"
	"github.com/taibuivan/comicvault/internal/core/keyword"
	"github.com/taibuivan/comicvault/internal/core/link"
	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/core/publication"
	"github.com/taibuivan/comicvault/internal/platform/config"
	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/journal"
	"github.com/taibuivan/comicvault/internal/platform/migration"
	pgstore "github.com/taibuivan/comicvault/internal/platform/postgres"
	redisstore "github.com/taibuivan/comicvault/internal/platform/redis"
	"github.com/taibuivan/comicvault/internal/platform/sec"
	"github.com/taibuivan/comicvault/internal/platform/storage"
)

// startupTimeout bounds connecting to postgres and redis so a bad address
// fails the process instead of hanging it.
const startupTimeout = 30 * time.Second

func main() {
	log := newLogger(false)
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("service_failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("service_stopped")
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
}

// infrastructure is everything that outlives a single request.
type infrastructure struct {
	pool     *pgxpool.Pool
	cache    *goredis.Client
	pageRoot *storage.FS
	renames  *journal.Journal
	tokens   *sec.TokenService
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		log = newLogger(true)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}
	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("comics_root", cfg.ComicsRoot),
	)

	infra, closeAll, err := openInfrastructure(cfg, log)
	if err != nil {
		return err
	}
	defer closeAll()

	server := api.NewServer(cfg, log, infra.tokens, buildHandlers(cfg, infra, log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

/*
openInfrastructure connects every backing store. The returned close func
releases them in reverse order and is a no-op for stores never opened.
*/
func openInfrastructure(cfg *config.Config, log *slog.Logger) (*infrastructure, func(), error) {
	infra := &infrastructure{}
	var closers []func()

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(step string, err error) (*infrastructure, func(), error) {
		closeAll()
		return nil, func() {}, fmt.Errorf("%s: %w", step, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var err error
	if infra.pool, err = pgstore.NewPool(ctx, cfg.DatabaseURL, log); err != nil {
		return fail("connect to postgres", err)
	}
	closers = append(closers, infra.pool.Close)

	if infra.cache, err = redisstore.NewClient(ctx, cfg.RedisURL, log); err != nil {
		return fail("connect to redis", err)
	}
	closers = append(closers, func() {
		if err := infra.cache.Close(); err != nil {
			log.Warn("redis_close_failed", slog.Any("error", err))
		}
	})

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fail("run migrations", err)
	}

	if infra.pageRoot, err = storage.NewOS(cfg.ComicsRoot); err != nil {
		return fail("open page storage", err)
	}

	if infra.renames, err = journal.Open(cfg.JournalPath, log); err != nil {
		return fail("open rename journal", err)
	}
	closers = append(closers, func() {
		if err := infra.renames.Close(); err != nil {
			log.Warn("journal_close_failed", slog.Any("error", err))
		}
	})

	// Leftover plans mean an earlier process stopped mid operation.
	if pending, err := infra.renames.Pending(); err == nil && len(pending) > 0 {
		log.Warn("page_journal_has_pending_entries", slog.Int("count", len(pending)))
	}

	if infra.tokens, err = sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer); err != nil {
		return fail("load token keys", err)
	}

	return infra, closeAll, nil
}

func buildHandlers(cfg *config.Config, infra *infrastructure, log *slog.Logger) api.Handlers {
	moderation := modlog.NewService(modlog.NewRepository(infra.pool), log)
	links := link.NewMaintainer(link.NewRepository(infra.pool), log)

	pageStore := page.NewStore(infra.pageRoot, infra.renames, log)
	reconciler := page.NewReconciler(pageStore, page.NewRepository(infra.pool), moderation, log)

	keywordCache := keyword.NewRedisCache(infra.cache, cfg.KeywordCacheTTL)

	catalogService := catalog.NewService(catalog.NewRepository(infra.pool), links, infra.pageRoot, moderation, log)
	publicationService := publication.NewService(publication.NewRepository(infra.pool), pageStore, links, keywordCache, moderation, log)
	keywordService := keyword.NewService(keyword.NewRepository(infra.pool), keywordCache, moderation, log)
	artistService := artist.NewService(artist.NewPostgresRepository(infra.pool), moderation, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return pgstore.Ping(context.Background(), infra.pool) },
		CheckCache:    func() error { return redisstore.Ping(context.Background(), infra.cache) },
		CheckStorage: func() error {
			_, err := infra.pageRoot.ListDir(context.Background(), ".")
			return err
		},
	}, log)

	return api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Catalog:     catalog.NewHandler(catalogService),
		Pages:       page.NewHandler(reconciler, infra.renames, cfg.MaxUploadBytes),
		Keyword:     keyword.NewHandler(keywordService),
		Publication: publication.NewHandler(publicationService, cfg.MaxUploadBytes),
		Artist:      artist.NewHandler(artistService),
		Modlog:      modlog.NewHandler(moderation),
	}
}
