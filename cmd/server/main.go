package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/logger"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/sheet"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogFile, cfg.Env == "prod")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	store, err := sheet.Open(ctx, cfg.Sheet)
	if err != nil {
		log.Fatal("open sheet failed", zap.Error(err), zap.String("backend", cfg.Sheet.Backend))
	}
	log.Info("sheet opened", zap.String("backend", cfg.Sheet.Backend), zap.String("worksheet", cfg.Sheet.Worksheet))

	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		log.Warn("redis unavailable; using in-process cache, rate limiting off", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	edits := repository.NewEditRepo(db)
	ensureEditor(ctx, log, cfg, users)

	var events handler.EventPublisher
	if cfg.Queue.Enabled {
		events = &service.QueuePublisher{URL: cfg.Queue.URL, Log: logger.Module(log, "publisher")}
		consumer := &queue.SeenConsumer{URL: cfg.Queue.URL, LogDir: cfg.Queue.LogDir, Log: logger.Module(log, "consumer")}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("seen consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger.Module(log, "http")))
	e.Use(echomw.Recover())

	rl := config.LoadRateLimitConfig()
	rlLog := logger.Module(log, "ratelimit")
	loginLimit := middleware.NewTokenBucket(rl, "login", middleware.ByIP, rdb, rlLog)
	seenLimit := middleware.NewTokenBucket(rl, "seen", middleware.ByUser, rdb, rlLog)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, logger.Module(log, "auth")), cfg.JWTSecret, loginLimit)
	catalogHandler := handler.NewCatalogHandler(repository.NewMovieRepo(store), edits, events, logger.Module(log, "catalog"))
	router.RegisterCatalog(e, catalogHandler, cfg.JWTSecret, cache, seenLimit)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// ensureEditor creates the bootstrap editor account when it is configured
// and missing.  Registration is invite only, so a fresh database needs one.
func ensureEditor(ctx context.Context, log *zap.Logger, cfg config.Config, users *repository.UserRepo) {
	if cfg.EditorEmail == "" || cfg.EditorPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := users.GetByEmail(ctx, cfg.EditorEmail)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		log.Warn("check bootstrap editor failed", zap.Error(err))
		return
	}
	id, err := users.Create(ctx, cfg.EditorEmail, cfg.EditorPassword, model.RoleEditor, cfg.BcryptCost)
	if err != nil {
		log.Warn("create bootstrap editor failed", zap.Error(err))
		return
	}
	log.Info("bootstrap editor created", zap.Uint64("user_id", id))
}
