package di

import (
	"context"
	"net/http"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/draft"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/handler"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/kv"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/media"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/session"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/wizard"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/config"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	pkgredis "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/redis"
	"go.uber.org/zap"
)

// Container holds all dependencies for the extranet service
type Container struct {
	// Infrastructure
	Redis       *pkgredis.Client
	KV          kv.Store
	ObjectStore media.ObjectStore

	// Stores
	Sessions    session.Store
	Drafts      *draft.Store
	Credentials *session.Credentials

	// Clients
	Gateway  *gateway.Client
	Uploader *media.Uploader

	// Services
	WizardService wizard.Service

	// Handlers
	HealthHandler   *handler.HealthHandler
	WizardHandler   *handler.WizardHandler
	ActivityHandler *handler.ActivityHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	// Redis is optional; without it sessions live in process memory
	Redis *pkgredis.Client
	// ObjectStore overrides the store built from Config.Media
	ObjectStore media.ObjectStore
	// Transport overrides the base transport of the backend client
	Transport http.RoundTripper
	Log       *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	appCfg := cfg.Config

	c := &Container{Redis: cfg.Redis}

	// Key-value backend
	if c.Redis != nil && appCfg.Session.Store != "memory" {
		c.KV = kv.NewRedisStore(c.Redis)
	} else {
		c.KV = kv.NewMemoryStore()
	}

	// Stores
	c.Sessions = session.NewStore(c.KV, &session.StoreConfig{
		KeyPrefix: appCfg.Session.KeyPrefix,
		TTL:       appCfg.Session.TTL,
	}, log)
	c.Drafts = draft.NewStore(c.KV, appCfg.Session.KeyPrefix, appCfg.Session.DraftTTL)
	c.Credentials = session.NewCredentials(c.KV, appCfg.Session.KeyPrefix, appCfg.Session.TTL)

	// Backend client; an expired token is forgotten so the next request asks for login
	transport := gateway.NewAuthTransport(cfg.Transport, appCfg.Auth.ExpiredCode, func(ctx context.Context, sessionID string) {
		if sessionID == "" {
			return
		}
		if err := c.Credentials.ClearToken(context.WithoutCancel(ctx), sessionID); err != nil {
			log.Warn("Failed to clear expired token", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		log.Info("Session token expired", zap.String("session_id", sessionID))
	})
	c.Gateway = gateway.NewClient(&gateway.Config{
		BaseURL:     appCfg.Backend.BaseURL,
		Timeout:     appCfg.Backend.Timeout,
		Transport:   transport,
		ReadRetries: appCfg.Backend.ReadRetries,
	}, log)

	// Object store
	c.ObjectStore = cfg.ObjectStore
	if c.ObjectStore == nil {
		switch appCfg.Media.Driver {
		case "http":
			c.ObjectStore = media.NewHTTPStore(appCfg.Media.UploadURL, appCfg.Media.PublicBaseURL, 0)
		default:
			c.ObjectStore = media.NewDiskStore(appCfg.Media.Dir, appCfg.Media.PublicBaseURL)
		}
	}
	c.Uploader = media.NewUploader(c.ObjectStore, appCfg.Media.MaxParallel, log)

	// Initialize services
	c.WizardService = wizard.NewService(c.Gateway, c.Sessions, c.Drafts, c.Uploader, &wizard.Config{
		ImageRules: media.DefaultRules(),
	}, log)

	// Initialize handlers
	components := map[string]handler.HealthChecker{"redis": nil}
	if c.Redis != nil {
		components["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(components)
	c.WizardHandler = handler.NewWizardHandler(c.WizardService, &handler.WizardHandlerConfig{
		MaxFileBytes: media.DefaultMaxBytes,
		LoginRoute:   appCfg.Auth.LoginRoute,
	})
	c.ActivityHandler = handler.NewActivityHandler(c.Gateway, appCfg.Auth.LoginRoute)

	return c
}
