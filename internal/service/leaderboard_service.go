package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"versequest/internal/cache"
	"versequest/internal/model"
	"versequest/internal/repository"

	"github.com/rs/zerolog/log"
)

// ErrInvalidScore is returned for submissions with no username or score.
var ErrInvalidScore = errors.New("username and score are required")

const leaderboardSize = 10

// LeaderboardService handles score persistence and the top-10 listing.
// MongoDB keeps the full history; a Redis ZSET serves ranked reads.
type LeaderboardService struct {
	scoreRepo repository.ScoreRepo
	lbCache   cache.LeaderboardCache
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(scoreRepo repository.ScoreRepo, lbCache cache.LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		scoreRepo: scoreRepo,
		lbCache:   lbCache,
	}
}

// SaveScore records a score and returns the refreshed top entries.
func (s *LeaderboardService) SaveScore(ctx context.Context, username string, score int) ([]cache.LeaderboardEntry, error) {
	username = strings.TrimSpace(username)
	if username == "" || score < 0 {
		return nil, ErrInvalidScore
	}

	entry := &model.Score{Username: username, Score: score}
	if err := s.scoreRepo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}
	if err := s.lbCache.UpdateScore(ctx, username, score); err != nil {
		// Mongo is the source of truth; a stale cache heals on the next read.
		log.Warn().Err(err).Str("username", username).Msg("failed to update leaderboard cache")
	}
	return s.Top(ctx)
}

// Top returns the highest scores, best first, at most leaderboardSize entries.
func (s *LeaderboardService) Top(ctx context.Context) ([]cache.LeaderboardEntry, error) {
	entries, err := s.lbCache.GetTop(ctx, leaderboardSize)
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard cache read failed, falling back to mongo")
	}

	scores, err := s.scoreRepo.Top(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	entries = make([]cache.LeaderboardEntry, len(scores))
	for i, sc := range scores {
		entries[i] = cache.LeaderboardEntry{
			Username: sc.Username,
			Score:    sc.Score,
			Rank:     i + 1,
		}
	}
	return entries, nil
}

// ListScores returns the full score history, newest first.
func (s *LeaderboardService) ListScores(ctx context.Context) ([]model.Score, error) {
	scores, err := s.scoreRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

// DeleteScore removes one saved score by ID.
func (s *LeaderboardService) DeleteScore(ctx context.Context, id string) error {
	if err := s.scoreRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}
	// Rebuild the cached ranking from what remains.
	return s.rebuildCache(ctx)
}

// DeleteAllScores wipes the leaderboard.
func (s *LeaderboardService) DeleteAllScores(ctx context.Context) error {
	if err := s.scoreRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete scores: %w", err)
	}
	return s.lbCache.Clear(ctx)
}

func (s *LeaderboardService) rebuildCache(ctx context.Context) error {
	if err := s.lbCache.Clear(ctx); err != nil {
		return err
	}
	scores, err := s.scoreRepo.Top(ctx, leaderboardSize)
	if err != nil {
		return err
	}
	for _, sc := range scores {
		if err := s.lbCache.UpdateScore(ctx, sc.Username, sc.Score); err != nil {
			return err
		}
	}
	return nil
}
