// Command server runs the clicking game API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clickempire/click-empire/internal/announce"
	"github.com/clickempire/click-empire/internal/api"
	"github.com/clickempire/click-empire/internal/config"
	"github.com/clickempire/click-empire/internal/notifier"
	"github.com/clickempire/click-empire/internal/ratelimit"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/internal/service/achievements"
	"github.com/clickempire/click-empire/internal/service/cases"
	"github.com/clickempire/click-empire/internal/service/challenges"
	"github.com/clickempire/click-empire/internal/service/clicks"
	"github.com/clickempire/click-empire/internal/service/leaderboard"
	"github.com/clickempire/click-empire/internal/service/streaks"
	"github.com/clickempire/click-empire/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage.
	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	if err := repository.SeedDefaults(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed defaults")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Database.Redis.Host, cfg.Database.Redis.Port),
		Password: cfg.Database.Redis.Password,
		DB:       cfg.Database.Redis.DB,
		PoolSize: cfg.Database.Redis.PoolSize,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Pub/sub and the shared click window degrade gracefully, so a
		// Redis outage at boot is not fatal.
		log.Warn().Err(err).Msg("Redis unreachable, events and shared rate limiting degraded")
	}
	defer redisClient.Close()

	// Repositories.
	counterRepo := repository.NewCounterRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	userRepo := repository.NewUserRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	itemRepo := repository.NewItemRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	chatRepo := repository.NewChatRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)

	// Services.
	publisher := notifier.NewRedisPublisher(redisClient, log)
	announcer := announce.New(&cfg.Announcer, log)
	limiter := ratelimit.New(cfg.RateLimit, redisClient, log)

	achievementService := achievements.NewService(achievementRepo, publisher, log)
	streakService := streaks.NewService(streakRepo, log)
	challengeService := challenges.NewService(cfg.Scheduler, challengeRepo, log)
	caseService := cases.NewService(caseRepo, itemRepo, log)
	leaderboardService := leaderboard.NewService(userRepo, achievementRepo, log)

	clickService := clicks.NewService(
		counterRepo, userRepo, rewardRepo, milestoneRepo,
		achievementService, streakService, publisher, log,
		clicks.Options{
			Challenges:        challengeService,
			Limiter:           limiter,
			Announcer:         announcer,
			PremiumMultiplier: int64(cfg.Rewards.PremiumMultiplier),
			QueueSize:         cfg.Rewards.WorkerQueueSize,
		},
	)
	clickService.StartWorkers(cfg.Rewards.Workers)

	if err := challengeService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start challenge rotation")
	}

	// HTTP.
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := api.NewHandler(
		clickService, achievementService, streakService, caseService,
		leaderboardService, challengeService, userRepo, chatRepo,
		publisher, log,
	)
	handler.RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	challengeService.Stop()
	// Drain queued reward evaluations before the process exits.
	clickService.Stop()

	log.Info().Msg("Server stopped")
}
