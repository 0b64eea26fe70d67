package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactbox/backend/internal/config"
	"github.com/contactbox/backend/internal/handler"
	"github.com/contactbox/backend/internal/keepalive"
	"github.com/contactbox/backend/internal/logging"
	"github.com/contactbox/backend/internal/notify"
	"github.com/contactbox/backend/internal/repository"
	"github.com/contactbox/backend/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logging.Fatal("failed to migrate database", "error", err)
		}
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	// Event publishing is optional; without a broker submissions are only stored.
	var publisher notify.Publisher = notify.Noop{}
	if cfg.AMQPURL != "" {
		publisher = notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		slog.Info("publishing contact events", "queue", cfg.AMQPQueue)
	}

	contactRepo := repository.NewPgContactRepository(pool)
	contactService := service.NewContactService(contactRepo, publisher)

	h := handler.New(pool, cfg.AllowedOrigins)
	contactHandler := handler.NewContactHandler(contactService, cfg.TrustedProxyCount)

	limiter := newLimiter(ctx, cfg)
	mux := handler.NewMux(h, contactHandler, handler.RateLimit(limiter, cfg.TrustedProxyCount))

	server := &http.Server{
		Handler:      handler.RequestLogger(cfg.TrustedProxyCount)(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logging.Fatal("failed to listen", "addr", cfg.Addr(), "error", err)
	}
	go func() {
		slog.Info("server listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	var pinger *keepalive.Pinger
	if cfg.KeepAlive.Enabled {
		pinger = keepalive.New(nil, cfg.KeepAlive.StartDelay, keepalive.TargetsFromConfig(cfg.KeepAlive, cfg.SelfHealthURL())...)
		pinger.Start(ctx)
	}

	<-ctx.Done()
	slog.Info("shutting down")

	if pinger != nil {
		pinger.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newLimiter prefers a shared Redis counter and falls back to process memory
// when REDIS_URL is unset or unreachable.
func newLimiter(ctx context.Context, cfg *config.Config) handler.Limiter {
	if cfg.RedisURL != "" {
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			slog.Info("rate limiting via redis", "limit", cfg.ContactRateLimit, "window", cfg.ContactRateWindow)
			return handler.NewRedisRateLimiter(client, cfg.ContactRateLimit, cfg.ContactRateWindow, "contact")
		}
		slog.Warn("redis unavailable, using in-memory rate limiting", "error", err)
	}

	rl := handler.NewRateLimiter(cfg.ContactRateLimit, cfg.ContactRateWindow)
	go rl.Run(ctx, 5*time.Minute)
	return rl
}
