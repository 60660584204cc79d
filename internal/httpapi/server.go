// Package httpapi exposes the pokemon repository over HTTP with echo.
//
// Routes:
//
//	GET    /api/v1/pokemon       list every record (ETag, If-None-Match)
//	GET    /api/v1/pokemon/:id   fetch one record
//	POST   /api/v1/pokemon/:id   create a record under :id
//	PUT    /api/v1/pokemon/:id   replace name and evolutions
//	PATCH  /api/v1/pokemon/:id   same as PUT
//	DELETE /api/v1/pokemon/:id   delete a record
//	GET    /healthz              store liveness
//
// Errors are rendered as {"error": TEXT_CODE, "message": "..."} with an optional
// "details" object for field validation failures.
package httpapi

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/goliatone/go-pokedex/internal/logging"
	"github.com/goliatone/go-pokedex/pokemon"
)

// Repository is the set of operations the handlers serve.
type Repository interface {
	List(ctx context.Context) ([]pokemon.Pokemon, error)
	Get(ctx context.Context, id int64) (pokemon.Pokemon, error)
	Create(ctx context.Context, id int64, fields pokemon.Fields) (pokemon.Pokemon, error)
	Update(ctx context.Context, id int64, fields pokemon.Fields) (pokemon.Pokemon, error)
	Delete(ctx context.Context, id int64) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(logger)
	}
}

// WithPinger enables the store check behind /healthz.
func WithPinger(p Pinger) Option {
	return func(s *Server) {
		s.pinger = p
	}
}

// Server holds the handler dependencies.
type Server struct {
	repo   Repository
	pinger Pinger
	logger *slog.Logger
}

// New builds an echo instance with every route and middleware registered.
func New(repo Repository, opts ...Option) *echo.Echo {
	s := &Server{
		repo:   repo,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.requestLogger())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: s.logPanic,
	}))

	s.Register(e)
	return e
}

// Register mounts the routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.health)

	api := e.Group("/api/v1/pokemon")
	api.GET("", s.list)
	api.GET("/:id", s.get)
	api.POST("/:id", s.create)
	api.PUT("/:id", s.update)
	api.PATCH("/:id", s.update)
	api.DELETE("/:id", s.delete)
}
