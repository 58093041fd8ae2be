package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appMetrics "groceryMarket/app/echo-server/metrics"
	"groceryMarket/app/echo-server/router"
	"groceryMarket/business/cart"
	"groceryMarket/business/category"
	"groceryMarket/business/delivery"
	"groceryMarket/business/loyalty"
	"groceryMarket/business/orders"
	"groceryMarket/business/product"
	userService "groceryMarket/business/user"
	"groceryMarket/business/vendor"
	"groceryMarket/internal/middleware"
	"groceryMarket/internal/repository/localauth"
	"groceryMarket/internal/repository/memory"
	"groceryMarket/internal/repository/notification"
	psqlRepo "groceryMarket/internal/repository/postgres"
	redisRepo "groceryMarket/internal/repository/redis"
	"groceryMarket/internal/repository/supabase"
	"groceryMarket/internal/rest"
	"groceryMarket/pkg/config"
	"groceryMarket/pkg/database"
	redisClient "groceryMarket/pkg/database/redis"
	"groceryMarket/pkg/logger"
	"groceryMarket/pkg/metrics"
	"groceryMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const trackingInterval = 5 * time.Second

type sessionStore interface {
	userService.SessionRepository
	middleware.SessionValidator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Grocery Market", "version", cfg.App.Version)

	metrics.Init()
	appMetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Cart, loyalty and session state live in redis when configured
	var (
		cartRepo   cart.CartRepository
		pointsRepo loyalty.PointsRepository
		sessions   sessionStore
	)
	if cfg.Redis.Enabled() {
		rdb, err := redisClient.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisClient.CloseRedisClient(rdb)

		cartRepo = redisRepo.NewCartRepository(rdb)
		pointsRepo = redisRepo.NewPointsRepository(rdb)
		sessions = redisRepo.NewSessionRepository(rdb)
		logger.Info("Redis connected successfully")
	} else {
		cartRepo = memory.NewCartRepository()
		pointsRepo = memory.NewPointsRepository()
		sessions = memory.NewSessionRepository()
		logger.Warn("Redis not configured, using in-process state")
	}

	var authProvider userService.AuthProvider
	if cfg.Supabase.Enabled() {
		client, err := supabase.GetClient(supabase.Config{
			URL:            cfg.Supabase.URL,
			AnonKey:        cfg.Supabase.AnonKey,
			ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
			Timeout:        cfg.Supabase.Timeout,
		})
		if err != nil {
			logger.Fatal("Failed to init supabase client", "error", err)
		}
		authProvider = client
	} else {
		authProvider = localauth.NewProvider(db)
		logger.Warn("Supabase not configured, using local identities")
	}

	// Init notification from mailjet
	var mailer userService.NotificationRepository = notification.NoopMailer{}
	if cfg.Mailjet.Enabled() {
		mailer = notification.NewMailjetRepository(cfg.Mailjet)
	}

	var demo *userService.DemoDirectory
	if cfg.Demo.Enabled {
		accounts := userService.DefaultDemoAccounts()
		if cfg.Demo.AccountsFile != "" {
			accounts, err = userService.LoadDemoAccounts(cfg.Demo.AccountsFile)
			if err != nil {
				logger.Fatal("Failed to load demo accounts", "error", err)
			}
		}
		demo = userService.NewDemoDirectory(accounts)
		logger.Info("Demo accounts enabled", "count", len(accounts))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	vendorRepo := psqlRepo.NewVendorRepository(db)
	riderRepo := psqlRepo.NewRiderRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	orderRepo := psqlRepo.NewOrderRepository(db)
	deliveryRepo := psqlRepo.NewDeliveryRepository(db)

	// Init service
	users := userService.NewUserService(userService.Deps{
		Auth:          authProvider,
		Users:         userRepo,
		Vendors:       vendorRepo,
		Riders:        riderRepo,
		Notifications: mailer,
		Sessions:      sessions,
		Tokens:        jwtManager,
		Demo:          demo,
	}, validate)
	if demo != nil {
		if err := users.SeedDemoProfiles(context.Background()); err != nil {
			logger.Fatal("Failed to seed demo profiles", "error", err)
		}
	}
	categoryService := category.NewCategoryService(categoryRepo)
	vendorService := vendor.NewVendorService(vendorRepo)
	productService := product.NewProductService(productRepo, vendorRepo)
	ordersService := orders.NewOrdersService(orderRepo, productRepo, vendorRepo, deliveryRepo)
	cartService := cart.NewCartService(cartRepo, validate)
	loyaltyService := loyalty.NewLoyaltyService(pointsRepo)
	deliveryService := delivery.NewDeliveryService(deliveryRepo, orderRepo, delivery.NewTracker())

	// Init handler
	authHandler := rest.NewAuthHandler(users, cfg.App.CookieKey, cfg.App.Environment == "production")
	userHandler := rest.NewUserHandler(users)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	vendorHandler := rest.NewVendorHandler(vendorService)
	productHandler := rest.NewProductHandler(productService)
	ordersHandler := rest.NewOrdersHandler(ordersService)
	cartHandler := rest.NewCartHandler(cartService)
	loyaltyHandler := rest.NewLoyaltyHandler(loyaltyService)
	deliveryHandler := rest.NewDeliveryHandler(deliveryService, trackingInterval, cfg.Server.AllowOrigins)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(appMetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	authRequired := middleware.AuthMiddleware(middleware.AuthConfig{
		Tokens:    jwtManager,
		Sessions:  sessions,
		Demo:      demo,
		CookieKey: cfg.App.CookieKey,
	})

	loginLimiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit.LoginPerSecond),
			Burst:     cfg.RateLimit.LoginBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": cfg.App.Version})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api")
	router.SetupAuthRoutes(api, authHandler, authRequired, loginLimiter)
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired)
	router.SetupVendorRoutes(api, vendorHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired)
	router.SetCartRoutes(api, cartHandler, authRequired)
	router.SetLoyaltyRoutes(api, loyaltyHandler, authRequired)
	router.SetDeliveryRoutes(api, deliveryHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
