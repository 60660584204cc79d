package di

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-pokedex/cache"
	"github.com/goliatone/go-pokedex/internal/config"
	"github.com/goliatone/go-pokedex/internal/httpapi"
	"github.com/goliatone/go-pokedex/internal/logging"
	"github.com/goliatone/go-pokedex/internal/storeinfra"
	"github.com/goliatone/go-pokedex/repositorycache"
)

// Container wires the store gateway, the cache, the cached repository and the
// HTTP handler for one process. Components are built once and shared.
type Container struct {
	config     config.Config
	logger     *slog.Logger
	gateway    *storeinfra.BunGateway
	cache      *cache.Cache
	repository *repositorycache.CachedRepository
	handler    http.Handler
}

// NewContainer validates cfg, opens the store and loads the cache from it.
// A store that cannot be opened or read fails the whole startup.
func NewContainer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Container, error) {
	logger = logging.OrNop(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	gateway, err := storeinfra.Open(ctx, cfg.Store(), storeinfra.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	c := cache.New()
	repo := repositorycache.New(gateway, c, repositorycache.WithLogger(logger))

	if err := repo.Refresh(ctx); err != nil {
		_ = gateway.Close()
		return nil, fmt.Errorf("initial cache load: %w", err)
	}

	handler := httpapi.New(repo,
		httpapi.WithLogger(logger),
		httpapi.WithPinger(gateway),
	)

	if n, err := c.Len(); err == nil {
		logger.Info("cache loaded", "records", n, "dialect", cfg.Store().Dialect())
	}

	return &Container{
		config:     cfg,
		logger:     logger,
		gateway:    gateway,
		cache:      c,
		repository: repo,
		handler:    handler,
	}, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.config
}

// Logger returns the shared logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Gateway returns the store gateway.
func (c *Container) Gateway() *storeinfra.BunGateway {
	return c.gateway
}

// Cache returns the in-memory mirror.
func (c *Container) Cache() *cache.Cache {
	return c.cache
}

// Repository returns the cached repository used by the handlers.
func (c *Container) Repository() *repositorycache.CachedRepository {
	return c.repository
}

// Handler returns the HTTP handler serving the API.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Close releases the store connection pool.
func (c *Container) Close() error {
	return c.gateway.Close()
}
