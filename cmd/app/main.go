package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raffle-draw-backend/internal/common/config"
	"raffle-draw-backend/internal/common/logger"
	"raffle-draw-backend/internal/common/middleware"
	drawhttp "raffle-draw-backend/internal/features/draw/delivery/http"
	"raffle-draw-backend/internal/features/draw/entropy"
	"raffle-draw-backend/internal/features/draw/repository"
	memoryrepo "raffle-draw-backend/internal/features/draw/repository/memory"
	redisrepo "raffle-draw-backend/internal/features/draw/repository/redis"
	"raffle-draw-backend/internal/features/draw/service"
	redisplatform "raffle-draw-backend/internal/platform/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	logger.Init("raffle-draw-backend", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commitments, audits := buildStores(ctx, cfg)

	var fetcher entropy.ExternalFetcher
	if cfg.Draw.TonLiteConfigURL != "" {
		tonFetcher, err := entropy.NewTonFetcher(ctx, cfg.Draw.TonLiteConfigURL)
		if err != nil {
			// External entropy is best-effort even at startup; draws fall
			// back to crypto-only.
			logger.Warn().Err(err).Msg("TON lite client unavailable, draws will be crypto-only")
		} else {
			fetcher = tonFetcher
			logger.Info().Msg("TON external entropy source connected")
		}
	}
	src := entropy.New(fetcher, cfg.EntropyTimeout())

	publisher := service.NewCommitmentPublisher(commitments, audits, src, cfg.CommitmentGrace())
	engine := service.NewDrawEngine(commitments, audits)
	verifier := service.NewVerificationService(audits)
	reports := service.NewReportGenerator(audits, verifier)
	auditReader := service.NewAuditReader(audits)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	drawhttp.NewDrawHandler(publisher, engine, verifier, reports, auditReader).RegisterRoutes(v1)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Failed to start server")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// buildStores wires the injected storage abstraction: Redis when configured,
// the in-process stores otherwise.
func buildStores(ctx context.Context, cfg *config.Config) (repository.CommitmentRepository, repository.AuditLogRepository) {
	if !cfg.Redis.Enabled {
		logger.Info().Msg("Using in-memory draw stores")
		return memoryrepo.NewCommitmentRepository(), memoryrepo.NewAuditLogRepository()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	client, err := redisplatform.Open(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	logger.Info().Str("addr", addr).Msg("Using Redis draw stores")
	return redisrepo.NewCommitmentRepository(client.Client), redisrepo.NewAuditLogRepository(client.Client)
}
