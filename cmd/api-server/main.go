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

	"reviewhub/database"
	"reviewhub/internal/config"
	httpapi "reviewhub/internal/microservices/http-api"
	"reviewhub/internal/microservices/http-api/auth"
	"reviewhub/internal/microservices/http-api/repository"
	"reviewhub/internal/microservices/http-api/service"
	"reviewhub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load config
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("could not load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect to the database
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	sqlDB, err := database.SQL(db)
	if err != nil {
		log.Fatal().Err(err).Msg("database handle unavailable")
	}
	defer sqlDB.Close()

	if err := database.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Wire repositories and services
	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	genres := repository.NewGenreRepo(db)
	items := repository.NewItemRepo(db)
	reviews := repository.NewReviewRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService, err := service.NewAuthService(users, roles, auth.NewBcryptHasher(cfg.BcryptCost), tokens, log)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service setup failed")
	}

	if cfg.Admin.Enabled() {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	router, err := httpapi.NewRouter(httpapi.Services{
		Auth:    authService,
		Genres:  service.NewGenreService(genres, log),
		Items:   service.NewItemService(items, genres, log),
		Reviews: service.NewReviewService(reviews, log),
		DB:      sqlDB,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	// 4. Serve until signalled
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.GoEnv).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
