// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the search page and a JSON search API over HTTP.
//
// Every request runs against one shared widget, so the index is fetched and
// the engine built once per process no matter how many searches arrive.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/blog-search/internal/widget"
	"github.com/pdiddy/blog-search/pkg/types"
)

// Server is the blog-search HTTP server.
type Server struct {
	echo    *echo.Echo
	widget  *widget.Widget
	page    string
	metrics *Metrics
	log     io.Writer
}

// New builds a server. Metrics are registered on reg; nil gets a private
// registry.
func New(cfg types.ServeConfig, w *widget.Widget, reg *prometheus.Registry, log io.Writer) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if log == nil {
		log = io.Discard
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		widget:  w,
		page:    cfg.Page,
		metrics: NewMetrics(reg, w.State()),
		log:     log,
	}

	e.GET("/search", s.handleSearchPage)
	e.GET("/api/search", s.handleAPISearch)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
