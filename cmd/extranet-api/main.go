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

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/di"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/middleware"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/config"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	pkgmiddleware "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/middleware"
	pkgredis "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/redis"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting extranet API...", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("Tracing disabled", zap.Error(err))
	}

	// Initialize Redis; without it sessions fall back to process memory
	var redisClient *pkgredis.Client
	if cfg.Session.Store != "memory" {
		redisCfg := &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		}
		redisClient, err = pkgredis.NewClient(ctx, redisCfg)
		if err != nil {
			if cfg.IsProduction() {
				appLog.Fatal("Redis connection failed", zap.Error(err))
			}
			appLog.Warn("Redis connection failed, using in-memory sessions", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", redisCfg.Addr()))
		}
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config: cfg,
		Redis:  redisClient,
		Log:    appLog,
	})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, container, appLog)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		appLog.Info("Extranet API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		appLog.Warn("Failed to flush traces", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, c *di.Container, appLog *logger.Logger) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 40 << 20

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))

	// Health check endpoints
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	// Uploaded images when they are kept on local disk
	if cfg.Media.Driver != "http" {
		router.Static("/media", cfg.Media.Dir)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session(c.Credentials, appLog))
	{
		c.ActivityHandler.RegisterRoutes(v1)

		guard := pkgmiddleware.DefaultSubmitGuardConfig(c.KV)
		guard.Prefix = cfg.Session.KeyPrefix + ":" + pkgmiddleware.SubmitLockPrefix
		if cfg.Session.SubmitLockTTL > 0 {
			guard.TTL = cfg.Session.SubmitLockTTL
		}
		// autosave (PUT) overwrites and is safe to repeat
		guard.RequiredMethods = []string{http.MethodPost, http.MethodDelete}

		wz := v1.Group("/wizard")
		wz.Use(pkgmiddleware.SubmitGuard(guard))
		c.WizardHandler.RegisterRoutes(wz)
	}

	return router
}
