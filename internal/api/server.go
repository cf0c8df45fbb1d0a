// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the HTTP composition root: it mounts every domain handler
under /api/v1 behind the shared middleware chain and owns the server
lifecycle.

Only this package and cmd/api touch net/http server primitives. Domain
packages expose chi route registrars and never start listeners.
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/comicvault/internal/core/artist"
	"github.com/taibuivan/comicvault/internal/core/catalog"
	"github.com/taibuivan/comicvault/internal/core/keyword"
	"github.com/taibuivan/comicvault/internal/core/modlog"
	"github.com/taibuivan/comicvault/internal/core/page"
	"github.com/taibuivan/comicvault/internal/core/publication"
	"github.com/taibuivan/comicvault/internal/platform/config"
	"github.com/taibuivan/comicvault/internal/platform/constants"
	"github.com/taibuivan/comicvault/internal/platform/middleware"
)

// Server is the configured [http.Server] plus the limiter it feeds.
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
	log        *slog.Logger
}

// # Handler Registry

// Handlers is everything the router mounts.
type Handlers struct {
	// Liveness answers /health while the process runs.
	Liveness http.HandlerFunc

	// Readiness answers /ready once postgres, redis and page storage respond.
	Readiness http.HandlerFunc

	Catalog     *catalog.Handler
	Pages       *page.Handler
	Keyword     *keyword.Handler
	Publication *publication.Handler
	Artist      *artist.Handler
	Modlog      *modlog.Handler
}

// # Routing

// NewServer builds the router and the server around it. Nothing listens
// until [Server.Run].
func NewServer(cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	limiter := middleware.NewRateLimiter(
		middleware.Bucket{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		middleware.Bucket{RPS: cfg.WriteRateLimitRPS, Burst: cfg.WriteRateLimitBurst},
	)

	return &Server{
		limiter: limiter,
		log:     log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           newRouter(cfg, log, verifier, limiter, h),
			ReadTimeout:       constants.UploadReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

func newRouter(cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Handler)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// Probes stay outside the versioned prefix for the orchestrator.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/comics", func(comics chi.Router) {
			h.Catalog.RegisterRoutes(comics)
			h.Pages.RegisterComicRoutes(comics)
			h.Keyword.RegisterComicRoutes(comics)
		})
		v1.Route("/pending-comics", func(pending chi.Router) {
			h.Publication.RegisterRoutes(pending)
			h.Pages.RegisterPendingRoutes(pending)
		})
		v1.Route("/artists", h.Artist.RegisterRoutes)
		v1.Mount("/keywords", h.Keyword.Routes())
		v1.Mount("/admin/page-journal", h.Pages.JournalRoutes())
		h.Modlog.RegisterRoutes(v1)
	})

	return r
}

// # Lifecycle

/*
Run serves until ctx is cancelled, then drains in-flight requests for at
most [constants.ShutdownTimeout].

A page operation caught by the drain deadline may stop between renames;
its plan stays in the journal for pagectl.
*/
func (s *Server) Run(ctx context.Context) error {
	go s.limiter.Run(ctx, constants.RateLimitCleanupInterval, constants.RateLimitClientTTL)

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("server_draining", slog.Duration("timeout", constants.ShutdownTimeout))

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(drainCtx)
}
