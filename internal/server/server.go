package server

import (
	"fmt"
	"net/http"
	"time"

	"cleancart/internal/config"
	"cleancart/internal/database"
	custommiddleware "cleancart/internal/middleware"
	"cleancart/internal/repository"
	"cleancart/internal/service"
	"cleancart/internal/storage"
	"cleancart/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, redisClient *redis.Client) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, db.Health())
	})
	router.Handle("/metrics", promhttp.Handler())

	// Product images are served straight off disk under the same prefix
	// the stored paths use.
	uploadsPrefix := "/" + cfg.Upload.Dir + "/"
	router.Handle(uploadsPrefix+"*", http.StripPrefix(uploadsPrefix,
		http.FileServer(http.Dir(cfg.Upload.Dir))))

	imageStore, err := storage.NewImageStore(cfg.Upload.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	productRepo := repository.NewProductRepository(db.DB())
	cartRepo := repository.NewCartRepository(db.DB())
	wishlistRepo := repository.NewWishlistRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())
	ratingRepo := repository.NewRatingRepository(db.DB())
	contactRepo := repository.NewContactRepository(db.DB())

	// Services
	userService := service.NewUserService(userRepo, cfg.JWT, cfg.Admin)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, imageStore)
	cartService := service.NewCartService(cartRepo, wishlistRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, logger)
	ratingService := service.NewRatingService(ratingRepo, productRepo)
	contactService := service.NewContactService(contactRepo)

	// Handlers
	userHandler := transport.NewUserHandler(userService, logger)
	productHandler := transport.NewProductHandler(catalogService, cfg.Upload.MaxImages, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	ratingHandler := transport.NewRatingHandler(ratingService, logger)
	contactHandler := transport.NewContactHandler(contactService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.UserSecret, cfg.JWT.AdminSecret, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	requireUser := custommiddleware.RequireUser(logger)

	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:auth",
	}, logger)
	orderRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:orders",
	}, logger)

	userHandler.RegisterRoutes(router, authMiddleware, authRateLimit)
	productHandler.RegisterRoutes(router, authMiddleware, requireAdmin)
	cartHandler.RegisterRoutes(router, authMiddleware, requireUser)
	orderHandler.RegisterRoutes(router, authMiddleware, requireAdmin, orderRateLimit)
	ratingHandler.RegisterRoutes(router, authMiddleware, requireUser)
	contactHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
