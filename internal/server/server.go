// Package server exposes the curation operations over HTTP. Handlers are a
// thin shell: they parse and validate input, dispatch to the store, scraper,
// or renderer, and wrap every response in a uniform JSON envelope.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"shownotes/internal/config"
	"shownotes/internal/logging"
	"shownotes/internal/scraper"
	"shownotes/internal/store"
)

// Server wires the HTTP surface to its collaborators.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	scraper *scraper.Scraper
	logger  *slog.Logger
	echo    *echo.Echo
}

func New(cfg *config.Config, st *store.Store, sc *scraper.Scraper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{cfg: cfg, store: st, scraper: sc, logger: logger, echo: e}

	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	s.registerRoutes(e.Group("/api"))
	return s
}

func (s *Server) registerRoutes(api *echo.Group) {
	api.GET("/state", s.handleState)

	api.PUT("/episode", s.handleUpdateEpisode)
	api.POST("/episode/reset", s.handleResetEpisode)

	api.POST("/items", s.handleAddItem)
	api.PUT("/items/reorder", s.handleReorderItems)
	api.PUT("/items/:id", s.handleUpdateItem)
	api.DELETE("/items/:id", s.handleDeleteItem)
	api.PUT("/items/:id/talking-points", s.handleUpdateTalkingPoints)
	api.POST("/items/:id/nest", s.handleNestItem)
	api.POST("/items/:id/extract", s.handleExtractItem)
	api.PUT("/groups/:id/reorder", s.handleReorderGroup)

	api.POST("/scrape", s.handleScrape)
	api.GET("/authors/suggestions", s.handleAuthorSuggestions)
	api.GET("/markdown", s.handleMarkdown)
}

// requestLogger tags every request with an id and logs method, path, status,
// and duration on completion.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.NewString()
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			start := time.Now()

			err := next(c)

			s.logger.Info("request",
				logging.String("request_id", requestID),
				logging.String("method", c.Request().Method),
				logging.String("path", c.Request().URL.Path),
				logging.Int("status", c.Response().Status),
				logging.Duration("duration", time.Since(start)))
			return err
		}
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.cfg.Paths.APIBind)
	}()

	s.logger.Info("api server listening", logging.String("address", s.cfg.Paths.APIBind))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
