package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/cargoline/cargoline-api/internal/config"
	"github.com/cargoline/cargoline-api/internal/domain/account"
	"github.com/cargoline/cargoline-api/internal/domain/admin"
	"github.com/cargoline/cargoline-api/internal/domain/credit"
	"github.com/cargoline/cargoline-api/internal/domain/listing"
	"github.com/cargoline/cargoline-api/internal/domain/premium"
	"github.com/cargoline/cargoline-api/internal/domain/sysconfig"
	"github.com/cargoline/cargoline-api/internal/middleware"
	"github.com/cargoline/cargoline-api/internal/pkg/database"
	"github.com/cargoline/cargoline-api/internal/pkg/jwt"
	"github.com/cargoline/cargoline-api/internal/pkg/logger"
	"github.com/cargoline/cargoline-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CargoLine API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	configRepo := sysconfig.NewRepository(db)
	accountRepo := account.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	premiumRepo := premium.NewRepository(db)

	// ---------- Services ----------
	configService := sysconfig.NewService(configRepo, redis, cfg.ConfigCacheTTL)
	creditService := credit.NewService(db)
	accountService := account.NewService(accountRepo, creditService, configService, jwtService)
	listingService := listing.NewService(listingRepo, creditService, configService)
	premiumService := premium.NewService(premiumRepo, listingRepo, creditService, configService)

	premiumWorker := premium.NewWorker(premiumService, cfg.PremiumSweepInterval)
	premiumWorker.Start()
	defer premiumWorker.Stop()

	// ---------- Handlers ----------
	accountHandler := account.NewHandler(accountService)
	listingHandler := listing.NewHandler(listingService)
	premiumHandler := premium.NewHandler(premiumService)
	adminHandler := admin.NewHandler(creditService, configService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/account", accountHandler.Routes(authMiddleware))
		r.Mount("/listings", listingHandler.Routes(authMiddleware))
		r.Mount("/premium", premiumHandler.Routes(authMiddleware))

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin())
			r.Mount("/", adminHandler.Routes())
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
