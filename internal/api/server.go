package api

import (
	"log/slog"
	"net/http"

	"ovation/internal/auth"
	"ovation/internal/cache"
	"ovation/internal/config"
	"ovation/internal/database"
	"ovation/internal/handlers"
	"ovation/internal/logger"
	"ovation/internal/messaging"
	"ovation/internal/middleware"
	"ovation/internal/repository"
	"ovation/internal/search"
	"ovation/internal/service"
	"ovation/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP API together
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.Client
	registry *subscription.Registry
	services *service.Services
	repos    *repository.Repositories
}

// NewServer connects the backing stores and builds the router. The
// database is required; NATS, Redis and Elasticsearch degrade to nil
// with a warning so the booking core stays up without them.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, domain events disabled", "error", err)
		natsClient = nil
	}

	cacheClient, err := cache.NewClient(cfg.Cache)
	if err != nil {
		slog.Warn("Redis unavailable, session token cache disabled", "error", err)
		cacheClient = nil
	}

	searchClient, err := search.NewClient(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, catalog search disabled", "error", err)
		searchClient = nil
	}

	repos := repository.NewRepositories(db)
	resolver := auth.NewResolver(repos.Users, cacheClient)
	registry := subscription.NewRegistry(repos.Seats, cfg.SweepWorkers, cfg.SweepQueueSize)
	services := service.NewServices(repos, resolver, registry, natsClient, searchClient, cacheClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		cache:    cacheClient,
		registry: registry,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.config.SubscribeWaitTimeout)

	api := s.router.Group("/api")
	{
		api.POST("/login", h.Login)

		concerts := api.Group("/concerts")
		{
			concerts.POST("", h.CreateConcert)
			concerts.GET("", h.ListConcerts)
			concerts.GET("/summaries", h.ListConcertSummaries)
			concerts.GET("/:id", h.GetConcert)
		}

		performers := api.Group("/performers")
		{
			performers.GET("", h.ListPerformers)
			performers.GET("/:id", h.GetPerformer)
		}

		api.GET("/seats/:date", h.ListSeats)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.MakeBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
		}

		api.POST("/subscribe/concertInfo", h.SubscribeConcertInfo)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ovation-api",
	})
}

// GetRouter returns the router, used by the HTTP server and tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes connections and stops the sweep workers
func (s *Server) Cleanup() error {
	if s.registry != nil {
		s.registry.Close()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
