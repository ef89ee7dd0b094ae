package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/SstealzZ/LinkStart/internal/api"
	"github.com/SstealzZ/LinkStart/internal/config"
	"github.com/SstealzZ/LinkStart/internal/httpserver"
	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/poller"
	"github.com/SstealzZ/LinkStart/internal/redis"
	"github.com/SstealzZ/LinkStart/internal/scheduler"
	"github.com/SstealzZ/LinkStart/internal/services"
	"github.com/SstealzZ/LinkStart/internal/session"
	"github.com/SstealzZ/LinkStart/internal/store"
	filestore "github.com/SstealzZ/LinkStart/internal/store/file"
	redisstore "github.com/SstealzZ/LinkStart/internal/store/redis"
	"github.com/SstealzZ/LinkStart/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	session     *session.Manager
	collection  *services.Manager
	refresher   *scheduler.CollectionRefresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Credential store backend
	var (
		credStore   store.Store
		redisClient *goredis.Client
	)
	switch cfg.StoreBackend {
	case "redis":
		// Fail fast if Redis is unavailable
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		credStore = redisstore.NewStore(client)
	default:
		credStore = filestore.New(cfg.StoreFile)
	}

	// Remote API client
	apiClient := api.New(cfg.APIBaseURL, api.Endpoints{
		Login:    cfg.LoginEndpoint,
		Register: cfg.RegisterEndpoint,
		Refresh:  cfg.RefreshEndpoint,
		Me:       cfg.MeEndpoint,
		Ping:     cfg.PingEndpoint,
	}, cfg.RequestTimeout, loggerClient)

	sessionManager := session.New(apiClient, credStore, loggerClient)
	collection := services.New(apiClient, sessionManager, loggerClient)
	reachability := poller.New(sessionManager, collection.Counter(), loggerClient, cfg.PingTimeout)

	// Restore a persisted session before anything fetches.
	sessionManager.Restore(context.Background())

	refreshTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewCollectionRefresher(
		collection,
		loggerClient,
		cfg.RefreshInterval,
		refreshTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		Session:           sessionManager,
		Collection:        collection,
		Poller:            reachability,
		SeedFile:          cfg.SeedFile,
		Refresh:           refreshTrigger,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		LoginBurst:        cfg.LoginBurst,
		LoginRefillPerMin: cfg.LoginRefillPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		session:     sessionManager,
		collection:  collection,
		refresher:   refresher,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting LinkStart v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("LinkStart %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the collection refresher (initial fetch + manual trigger,
	// periodic refresh when configured).
	a.refresher.Start(ctx)
	if a.cfg.RefreshInterval > 0 {
		a.logger.Info("collection refresher started",
			logger.Duration("interval", a.cfg.RefreshInterval))
	} else {
		a.logger.Info("collection refresher started (manual trigger only)")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ LinkStart stopped cleanly")
	return nil
}
