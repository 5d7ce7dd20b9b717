package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sweet-layers/internal/cart"
	"sweet-layers/internal/config"
	"sweet-layers/internal/database"
	"sweet-layers/internal/logger"
	custommiddleware "sweet-layers/internal/middleware"
	"sweet-layers/internal/repository"
	"sweet-layers/internal/service"
	"sweet-layers/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// sessionEvictionInterval is how often idle cart sessions are dropped from memory
const sessionEvictionInterval = time.Minute

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          database.Service
	redis       *redis.Client
	sessions    *cart.Sessions
	stopEvicter context.CancelFunc
}

func NewServer(cfg *config.Config, log *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(log))
	router.Use(custommiddleware.LoggingMiddleware(logger.Component(log, "http")))
	router.Use(custommiddleware.MetricsMiddleware)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(middleware.Timeout(30 * time.Second))

	// Cart sessions, each backed by its own Redis snapshot slot
	cartLogger := logger.Component(log, "cart")
	sessions := cart.NewSessions(func(sessionID string) cart.Storage {
		return cart.NewRedisStorage(redisClient, cart.SessionKey(cfg.Cart.StorageKey, sessionID), cfg.Cart.SnapshotTTL)
	}, cartLogger, cart.WithSaveTimeout(cfg.Cart.SaveTimeout))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger.Component(log, "catalog"))
	checkoutService := service.NewCheckoutService(orderRepo, logger.Component(log, "checkout"))
	orderService := service.NewOrderService(orderRepo, logger.Component(log, "orders"))

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, log)
	cartHandler := transport.NewCartHandler(sessions, catalogService, log)
	checkoutHandler := transport.NewCheckoutHandler(sessions, checkoutService, log)
	orderHandler := transport.NewOrderHandler(orderService, log)

	checkoutLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.CheckoutRequests,
		Window:            cfg.RateLimit.CheckoutWindow,
		KeyPrefix:         "ratelimit:checkout",
	}, log)

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		dbHealth := db.Health(r.Context())
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		redisStatus := "up"
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			redisStatus = "down"
			status = http.StatusServiceUnavailable
		}

		custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
			"status":        http.StatusText(status),
			"database":      dbHealth,
			"redis":         redisStatus,
			"cart_sessions": sessions.Len(),
		})
	})
	router.Handle("/metrics", promhttp.Handler())

	// Register routes
	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router, checkoutLimiter)
	orderHandler.RegisterRoutes(router)

	evictCtx, stopEvicter := context.WithCancel(context.Background())
	go sessions.RunEviction(evictCtx, sessionEvictionInterval, cfg.Cart.SessionIdle)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      log,
		db:          db,
		redis:       redisClient,
		sessions:    sessions,
		stopEvicter: stopEvicter,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources", zap.Int("cart_sessions", s.sessions.Len()))

	s.stopEvicter()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
