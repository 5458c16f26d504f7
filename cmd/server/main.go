package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/identity-service/internal/api"
	"github.com/storefront/identity-service/internal/core/ports"
	"github.com/storefront/identity-service/internal/infrastructure/config"
	mongodb "github.com/storefront/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/identity-service/internal/infrastructure/db/redis"
	"github.com/storefront/identity-service/internal/infrastructure/mailer"
	"github.com/storefront/identity-service/internal/infrastructure/queue"
	"github.com/storefront/identity-service/internal/ratelimit"
	"github.com/storefront/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; write to stderr and bail.
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("configuration load failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// Misconfiguration of the signing primitive is fatal at startup, never a
	// per-request condition.
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.NewIdentityRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("identity index creation failed")
	}
	if err := mongodb.NewResetTokenRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("reset token index creation failed")
	}

	// --- Rate limit store ---
	var limitStore ratelimit.Store
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	switch cfg.RateLimit.Backend {
	case "redis":
		if err != nil {
			log.Fatal().Err(err).Msg("redis backend selected but connection failed")
		}
		limitStore = redisdb.NewWindowStore(rdb)
		log.Info().Msg("rate limiting on shared redis counters")
	default:
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, readiness probe will report it")
			rdb = nil
		}
		memStore := ratelimit.NewMemoryStore()
		go memStore.SweepLoop(ctx, 5*time.Minute, cfg.RateLimit.Login.Window)
		limitStore = memStore
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// --- Reset mail delivery ---
	var send ports.Mailer
	if cfg.SMTP.Host != "" {
		send = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			BaseURL:  cfg.SMTP.BaseURL,
		})
	} else {
		send = mailer.NewLogMailer(log)
	}
	dispatcher := queue.NewMailDispatcher(0, send, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e, err := api.NewRouter(db, rdb, limitStore, dispatcher, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router construction failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown was not clean")
	}
	log.Info().Msg("identity service stopped")
}
