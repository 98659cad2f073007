// Package httpserver exposes the board engine as a JSON HTTP API.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mbeckner/voteboard/internal/domain"
)

type appService interface {
	PostArticle(ctx context.Context, poster, title, link string) (int64, error)
	GetArticle(ctx context.Context, articleID int64) (*domain.Article, error)
	Vote(ctx context.Context, user string, articleID int64) (domain.VoteOutcome, error)
	ListArticles(ctx context.Context, basis domain.OrderBasis, page int) ([]domain.Article, error)
	AddToGroups(ctx context.Context, articleID int64, groups []string) error
	RemoveFromGroups(ctx context.Context, articleID int64, groups []string) error
	ListGroupArticles(ctx context.Context, group string, basis domain.OrderBasis, page int) ([]domain.Article, error)
}

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo *echo.Echo
	port string

	app          appService
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(port string, app appService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		port:         port,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Start begins serving; it blocks until the server stops.
func (s *Server) Start() error {
	err := s.echo.Start(":" + s.port)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
