package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/lorrc/hackathon-hub/internal/adapters/primary/http"
	mw "github.com/lorrc/hackathon-hub/internal/adapters/primary/http/middleware"
	"github.com/lorrc/hackathon-hub/internal/adapters/primary/websocket"
	"github.com/lorrc/hackathon-hub/internal/adapters/secondary/memory"
	"github.com/lorrc/hackathon-hub/internal/adapters/secondary/notifier"
	"github.com/lorrc/hackathon-hub/internal/adapters/secondary/postgres"
	"github.com/lorrc/hackathon-hub/internal/adapters/secondary/redis"
	"github.com/lorrc/hackathon-hub/internal/auth"
	"github.com/lorrc/hackathon-hub/internal/config"
	"github.com/lorrc/hackathon-hub/internal/core/eventbus"
	"github.com/lorrc/hackathon-hub/internal/core/ports"
	"github.com/lorrc/hackathon-hub/internal/core/realtime"
	"github.com/lorrc/hackathon-hub/internal/core/services"
	"github.com/lorrc/hackathon-hub/internal/infrastructure/logging"
	"github.com/lorrc/hackathon-hub/internal/infrastructure/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"store", cfg.Store.Backend,
		"transport", cfg.Bus.Transport,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server shutdown complete")
}

// backends holds the connections opened for the configured store and
// transport.
type backends struct {
	blobs     ports.BlobStore
	transport ports.Transport
	checks    map[string]httpAdapter.HealthChecker
	closers   []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backends, error) {
	b := &backends{checks: make(map[string]httpAdapter.HealthChecker)}

	var redisClient goredis.UniversalClient
	if cfg.UsesRedis() {
		client, err := redis.Connect(ctx, redis.Options{
			Addrs:       cfg.Redis.Addrs,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, err
		}
		redisClient = client
		b.checks["redis"] = redis.Pinger{Client: client}
		b.closers = append(b.closers, func() { _ = client.Close() })
		logger.Info("redis connection established", "addrs", cfg.Redis.Addrs)
	}

	switch cfg.Store.Backend {
	case config.StorePostgres:
		if err := postgres.Migrate(cfg.Database.URL); err != nil {
			b.close()
			return nil, err
		}
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			b.close()
			return nil, err
		}
		b.blobs = postgres.NewBlobStore(pool)
		b.checks["postgres"] = pool
		b.closers = append(b.closers, pool.Close)
		logger.Info("database connection established")
	case config.StoreRedis:
		b.blobs = redis.NewBlobStore(redisClient, cfg.Store.RedisPrefix)
	default:
		b.blobs = memory.NewBlobStore()
	}

	switch cfg.Bus.Transport {
	case config.TransportRedis:
		b.transport = redis.NewTransport(redisClient, logger)
	default:
		b.transport = memory.NewLoopback()
	}

	return b, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// 3. Open the store and transport backends
	b, err := openBackends(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open backends: %w", err)
	}
	defer b.close()

	m := metrics.New()

	// 4. Event bus, joined to the transport topic
	bus := eventbus.New(
		eventbus.WithLogger(logger),
		eventbus.WithTransport(b.transport),
		eventbus.WithTopic(cfg.Bus.Topic),
		eventbus.WithRecorder(m),
	)
	if err := bus.Open(ctx); err != nil {
		return fmt.Errorf("open event bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error("event bus close error", "error", err)
		}
	}()

	// 5. Dependency Injection (Wiring the Hexagon)
	store := services.NewDocumentStore(b.blobs,
		services.WithDocumentKey(cfg.Store.DocumentKey),
		services.WithStoreLogger(logger),
		services.WithReplaceObserver(m.ObserveDocumentWrite),
	)
	deps := services.Dependencies{Store: store, Publisher: bus, Logger: logger}

	authService := services.NewAuthService(deps)
	adminService := services.NewAdminService(deps)
	teamService := services.NewTeamService(deps)
	timeService := services.NewTimeTrackingService(deps)
	announcementService := services.NewAnnouncementService(deps)
	scheduleService := services.NewScheduleService(deps)
	volunteerService := services.NewVolunteerService(deps)
	helpService := services.NewHelpService(deps)

	// Real-time fan-out: websocket clients, OS-style notifications, local views
	hub := websocket.NewHub(logger,
		websocket.WithKeepalive(cfg.WebSocket.PingInterval, cfg.WebSocket.PongWait),
		websocket.WithConnectionObserver(m),
		websocket.WithDropObserver(m),
	)
	detachHub := hub.Attach(bus)
	defer detachHub()

	bridge := services.NewNotificationBridge(notifier.Fanout{notifier.NewLogNotifier(logger), hub}, logger)
	detachBridge := bridge.Attach(bus)
	defer detachBridge()

	notificationLogs := realtime.NewNotificationLogs()
	detachLog := notificationLogs.Attach(bus)
	defer detachLog()

	viewOpts := []realtime.ViewOption{realtime.WithViewLogger(logger)}
	teamsView := realtime.NewTeamsView(bus, teamService, append(viewOpts, realtime.WithPollInterval(cfg.Views.PollInterval))...)
	announcementsView := realtime.NewAnnouncementsView(bus, announcementService, append(viewOpts, realtime.WithPollInterval(cfg.Views.PollInterval))...)
	helpView := realtime.NewHelpRequestsView(helpService, append(viewOpts, realtime.WithPollInterval(cfg.Views.HelpPollInterval))...)
	for _, start := range []func(context.Context) error{teamsView.Start, announcementsView.Start, helpView.Start} {
		if err := start(ctx); err != nil {
			return fmt.Errorf("start realtime view: %w", err)
		}
	}
	defer teamsView.Stop()
	defer announcementsView.Stop()
	defer helpView.Stop()

	// 6. Security & Rate Limiting
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	var generalRateLimiter, authRateLimiter, userRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
		authRateLimiter = mw.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
		userRateLimiter = mw.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	}

	// 7. Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	var throttle, loginLimit func(http.Handler) http.Handler
	if userRateLimiter != nil {
		throttle = userRateLimiter.PerUser
	}
	if authRateLimiter != nil {
		loginLimit = authRateLimiter.ByIP
	}

	api := httpAdapter.API{
		Auth:          httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger),
		Admin:         httpAdapter.NewAdminHandler(adminService, errorHandler, logger),
		Teams:         httpAdapter.NewTeamHandler(teamService, timeService, errorHandler, logger),
		Announcements: httpAdapter.NewAnnouncementHandler(announcementService, errorHandler, logger),
		Schedule:      httpAdapter.NewScheduleHandler(scheduleService, errorHandler, logger),
		Volunteers:    httpAdapter.NewVolunteerHandler(volunteerService, errorHandler, logger),
		Help:          httpAdapter.NewHelpHandler(helpService, errorHandler, logger),
		Live:          httpAdapter.NewLiveHandler(teamsView, announcementsView, helpView, notificationLogs),
		WebSocket:     httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger),
		Guards:        httpAdapter.NewGuards(tokenManager, throttle),
		LoginLimit:    loginLimit,
	}
	healthHandler := httpAdapter.NewHealthHandler(b.checks, cfg.App.Version,
		httpAdapter.WithGauge("websocket_clients", hub.ClientCount),
		httpAdapter.WithGauge("notification_viewers", notificationLogs.Viewers),
	)

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger, m))
	r.Use(mw.RecoveryLogger(logger))

	// Health and metrics stay outside the rate limiter for health checks and scrapes
	healthHandler.RegisterRoutes(r)
	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if generalRateLimiter != nil {
			r.Use(generalRateLimiter.ByIP)
		}
		api.Routes(r)
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if cfg.RateLimit.Enabled {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					generalRateLimiter.Sweep(3 * time.Minute)
					authRateLimiter.Sweep(5 * time.Minute)
					userRateLimiter.Sweep(5 * time.Minute)
				}
			}
		})
	}

	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		hub.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
