package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/session"
	"github.com/kobina/pos-cart-service/internal/config"
	"github.com/kobina/pos-cart-service/internal/infrastructure/http/handlers"
	"github.com/kobina/pos-cart-service/internal/infrastructure/persistence/postgres"
	"github.com/kobina/pos-cart-service/internal/infrastructure/persistence/redis"
)

type Server struct {
	server            *http.Server
	logger            *zap.Logger
	healthHandler     *handlers.HealthHandler
	productsHandler   *handlers.ProductsHandler
	categoriesHandler *handlers.CategoriesHandler
	sessionHandler    *handlers.SessionHandler
	salesHandler      *handlers.SalesHandler
}

type Dependencies struct {
	DB             *sql.DB
	RedisConn      *redis.Connection
	Store          *session.Store
	SnapshotLoader session.SnapshotLoader
	Registry       *redis.CategoryRegistry
	SaleReader     *postgres.SaleReader
}

func NewServer(cfg *config.Config, deps Dependencies, logger *zap.Logger) *Server {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:            server,
		logger:            logger,
		healthHandler:     handlers.NewHealthHandler(deps.DB, deps.RedisConn.GetClient(), logger),
		productsHandler:   handlers.NewProductsHandler(deps.SnapshotLoader, logger),
		categoriesHandler: handlers.NewCategoriesHandler(deps.Registry, logger),
		sessionHandler:    handlers.NewSessionHandler(deps.Store, logger),
		salesHandler:      handlers.NewSalesHandler(deps.SaleReader, logger),
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
