package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmrramaral/sushi-app/clients"
	"github.com/dmrramaral/sushi-app/config"
	"github.com/dmrramaral/sushi-app/controllers"
	"github.com/dmrramaral/sushi-app/database"
	apperrors "github.com/dmrramaral/sushi-app/errors"
	"github.com/dmrramaral/sushi-app/logger"
	"github.com/dmrramaral/sushi-app/metrics"
	"github.com/dmrramaral/sushi-app/middleware"
	"github.com/dmrramaral/sushi-app/routes"
	"github.com/dmrramaral/sushi-app/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "sushi-bff"

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Token store + product cache: Redis when configured, memory otherwise ──
	var (
		redisClient *redis.Client
		tokens      database.TokenStore
		cache       services.ProductCache
	)
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		redisClient = client
		tokens = database.NewRedisTokenStore(client, cfg.TokenTTL)
		cache = database.NewRedisProductCache(client, cfg.ProductCacheTTL)
	} else {
		log.Warn("REDIS_URL not set, keeping session tokens in memory")
		tokens = database.NewMemoryTokenStore(cfg.TokenTTL)
	}

	metricsClient, err := metrics.New(ctx, metrics.Options{
		Enabled:   cfg.CloudWatchEnabled,
		Namespace: cfg.CloudWatchNamespace,
		Endpoint:  cfg.AWSEndpoint,
	})
	if err != nil {
		log.Warn("CloudWatch metrics disabled", zap.Error(err))
		metricsClient, _ = metrics.New(ctx, metrics.Options{})
	}

	httpClient := &http.Client{Timeout: cfg.APITimeout}
	catalogGateway := clients.NewGatewayClient(cfg.APIBaseURL, httpClient, clients.NoToken{}, log.Named("catalog"))
	catalog := services.NewCatalogService(catalogGateway, cache, log.Named("catalog"))

	registry := services.NewRegistry(services.RegistryConfig{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: httpClient,
		IdleTTL:    cfg.SessionIdleTTL,
	}, tokens, catalog, log)
	go registry.Run(ctx)

	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 5*time.Minute)
	go limiter.Run(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.Metrics(metricsClient, serviceName, log))
	r.Use(apperrors.ErrorMiddleware())

	session := middleware.Session(registry, middleware.SessionOptions{
		CookieName: cfg.SessionCookie,
		Secure:     cfg.CookieSecure,
		MaxAge:     int(cfg.TokenTTL.Seconds()),
	})
	routes.RegisterRoutes(r, routes.Controllers{
		Auth:    controllers.NewAuthController(),
		Cart:    controllers.NewCartController(metricsClient, log),
		Orders:  controllers.NewOrderController(),
		Catalog: controllers.NewCatalogController(catalog),
		Admin:   controllers.NewAdminController(),
		Health:  controllers.NewHealthController(redisClient),
	}, session)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("sushi BFF listening", zap.String("port", cfg.Port), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

// corsConfig allows credentialed requests from origins; "*" reflects any origin.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}
