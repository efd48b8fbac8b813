package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"eventmanagement/config"
	"eventmanagement/db"
	"eventmanagement/middlewares"
	"eventmanagement/models"
	"eventmanagement/routes"
	"eventmanagement/services"
	"eventmanagement/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg)
	if cfg.UsingDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo
	mg, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	defer func() { _ = mg.Disconnect(context.Background()) }()

	database := mg.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	var tx models.Transactor = db.Sequential{}
	if cfg.MongoTransactions {
		tx = db.NewMongoTransactor(mg)
	}

	users := models.NewMongoUserRepository(database.Collection(db.UsersCollection))
	events := models.NewMongoEventRepository(database.Collection(db.EventsCollection))
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Redis (optional)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache and quota will pass through")
		}
		defer rdb.Close()
	}

	// Gin + middlewares
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	server := gin.New()
	server.Use(gin.Recovery(), middlewares.RequestID(), middlewares.RequestLogger(log), middlewares.CORS(cfg.CORSOrigin))

	routes.RegisterRoutes(ctx, server, routes.Options{
		Auth:         services.NewAuthService(users, tokens),
		Events:       services.NewEventService(events, users, tx),
		Tokens:       tokens,
		Redis:        rdb,
		CacheTTL:     cfg.CacheTTL,
		QuotaLimit:   cfg.QuotaLimit,
		CookieMaxAge: cfg.CookieMaxAge,
		CookieSecure: cfg.CookieSecure,
		Health:       db.Ping(mg),
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.MongoDB).Msg("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := zerolog.New(os.Stdout)
	if cfg.LogPretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return out.Level(level).With().Timestamp().Str("service", "event-management").Logger()
}
