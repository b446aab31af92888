package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"versequest/internal/cache"
	"versequest/internal/config"
	"versequest/internal/corpus"
	"versequest/internal/game"
	"versequest/internal/repository"
	"versequest/internal/service"
	"versequest/internal/transport/rest"
	"versequest/internal/transport/ws"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	ctx := context.Background()

	cfg := config.Load()

	// Verse corpus (the answer source for the game)
	verses, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CorpusPath).Msg("failed to load verse corpus")
	}
	log.Info().Int("verses", verses.Size()).Msg("corpus loaded")

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Msg("connected to Redis")

	// WebSocket hub (the connection gateway)
	wsHub := ws.NewHub()

	// Game session registry with its idle-session reaper
	registry := game.NewRegistry(verses, wsHub, clockwork.NewRealClock(), cfg.RoundDuration, cfg.DefaultRounds)
	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go registry.Run(reapCtx, cfg.ReapInterval, cfg.SessionIdleTTL)

	// Repositories and caches
	scoreRepo := repository.NewScoreRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	leaderboardSvc := service.NewLeaderboardService(scoreRepo, leaderboard)
	feedbackSvc := service.NewFeedbackService(feedbackRepo)

	router := rest.NewRouter(&rest.Container{
		AuthService:        authSvc,
		LeaderboardService: leaderboardSvc,
		FeedbackService:    feedbackSvc,
		Registry:           registry,
		Corpus:             verses,
		WSHub:              wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
