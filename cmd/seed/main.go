package main

import (
	"context"
	"time"
	"versequest/internal/cache"
	"versequest/internal/config"
	"versequest/internal/model"
	"versequest/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds a handful of leaderboard entries for local development.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	scoreRepo := repository.NewScoreRepo(client.Database(cfg.MongoDatabase))
	leaderboard := cache.NewLeaderboardCache(rdb)

	demo := []model.Score{
		{Username: "deborah", Score: 540},
		{Username: "gideon", Score: 480},
		{Username: "ruth", Score: 430},
		{Username: "ezra", Score: 370},
		{Username: "naomi", Score: 290},
	}

	for _, s := range demo {
		entry := s
		if err := scoreRepo.Insert(ctx, &entry); err != nil {
			log.Fatal().Err(err).Str("username", s.Username).Msg("failed to insert score")
		}
		if err := leaderboard.UpdateScore(ctx, s.Username, s.Score); err != nil {
			log.Fatal().Err(err).Str("username", s.Username).Msg("failed to cache score")
		}
		log.Info().Str("username", s.Username).Int("score", s.Score).Msg("seeded score")
	}

	log.Info().Int("count", len(demo)).Msg("seeding complete")
}
