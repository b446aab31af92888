package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"versequest/internal/cache"
	"versequest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScoreRepo struct {
	scores    []model.Score
	insertErr error
	listErr   error
	topCalls  int
}

func (r *stubScoreRepo) Insert(_ context.Context, score *model.Score) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.scores = append(r.scores, *score)
	return nil
}

func (r *stubScoreRepo) Top(_ context.Context, limit int) ([]model.Score, error) {
	r.topCalls++
	out := make([]model.Score, len(r.scores))
	copy(out, r.scores)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubScoreRepo) List(_ context.Context) ([]model.Score, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]model.Score, len(r.scores))
	copy(out, r.scores)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubScoreRepo) Delete(_ context.Context, id string) error {
	for i, sc := range r.scores {
		if sc.ID == id {
			r.scores = append(r.scores[:i], r.scores[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubScoreRepo) DeleteAll(_ context.Context) error {
	r.scores = nil
	return nil
}

type stubLeaderboardCache struct {
	entries   []cache.LeaderboardEntry
	getErr    error
	updateErr error
	updates   int
	cleared   bool
}

func (c *stubLeaderboardCache) UpdateScore(_ context.Context, username string, score int) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	c.updates++
	return nil
}

func (c *stubLeaderboardCache) GetTop(_ context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if len(c.entries) > limit {
		return c.entries[:limit], nil
	}
	return c.entries, nil
}

func (c *stubLeaderboardCache) GetRank(_ context.Context, username string) (int64, error) {
	return -1, nil
}

func (c *stubLeaderboardCache) Clear(_ context.Context) error {
	c.cleared = true
	return nil
}

func (c *stubLeaderboardCache) Remove(_ context.Context, username string) error { return nil }

func seededRepo(n int) *stubScoreRepo {
	repo := &stubScoreRepo{}
	for i := 0; i < n; i++ {
		repo.scores = append(repo.scores, model.Score{
			ID:       fmt.Sprintf("id-%d", i),
			Username: fmt.Sprintf("player%d", i),
			Score:    (i + 1) * 10,
		})
	}
	return repo
}

func TestLeaderboardService_Top(t *testing.T) {
	t.Run("caps at ten entries sorted descending", func(t *testing.T) {
		repo := seededRepo(12)
		lb := &stubLeaderboardCache{getErr: errors.New("redis down")}
		svc := NewLeaderboardService(repo, lb)

		entries, err := svc.Top(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 10)
		for i := 1; i < len(entries); i++ {
			assert.GreaterOrEqual(t, entries[i-1].Score, entries[i].Score)
		}
		assert.Equal(t, 120, entries[0].Score)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, 10, entries[9].Rank)
	})

	t.Run("serves from cache when populated", func(t *testing.T) {
		repo := seededRepo(3)
		lb := &stubLeaderboardCache{entries: []cache.LeaderboardEntry{
			{Username: "cached", Score: 999, Rank: 1},
		}}
		svc := NewLeaderboardService(repo, lb)

		entries, err := svc.Top(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "cached", entries[0].Username)
		assert.Zero(t, repo.topCalls)
	})

	t.Run("empty cache falls back to mongo", func(t *testing.T) {
		repo := seededRepo(2)
		lb := &stubLeaderboardCache{}
		svc := NewLeaderboardService(repo, lb)

		entries, err := svc.Top(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 1, repo.topCalls)
	})
}

func TestLeaderboardService_SaveScore(t *testing.T) {
	t.Run("persists and returns refreshed top", func(t *testing.T) {
		repo := &stubScoreRepo{}
		lb := &stubLeaderboardCache{}
		svc := NewLeaderboardService(repo, lb)

		entries, err := svc.SaveScore(context.Background(), "alice", 300)
		require.NoError(t, err)
		require.Len(t, repo.scores, 1)
		assert.Equal(t, 1, lb.updates)
		require.Len(t, entries, 1)
		assert.Equal(t, "alice", entries[0].Username)
	})

	t.Run("cache write failure does not fail the save", func(t *testing.T) {
		repo := &stubScoreRepo{}
		lb := &stubLeaderboardCache{updateErr: errors.New("redis down")}
		svc := NewLeaderboardService(repo, lb)

		entries, err := svc.SaveScore(context.Background(), "bob", 150)
		require.NoError(t, err)
		require.Len(t, repo.scores, 1)
		require.Len(t, entries, 1)
		assert.Equal(t, "bob", entries[0].Username)
	})

	t.Run("rejects blank username and negative score", func(t *testing.T) {
		svc := NewLeaderboardService(&stubScoreRepo{}, &stubLeaderboardCache{})

		_, err := svc.SaveScore(context.Background(), "   ", 10)
		assert.ErrorIs(t, err, ErrInvalidScore)

		_, err = svc.SaveScore(context.Background(), "carol", -1)
		assert.ErrorIs(t, err, ErrInvalidScore)
	})
}

func TestLeaderboardService_ListScores(t *testing.T) {
	repo := seededRepo(3)
	svc := NewLeaderboardService(repo, &stubLeaderboardCache{})

	scores, err := svc.ListScores(context.Background())
	require.NoError(t, err)
	assert.Len(t, scores, 3)

	t.Run("repo failure surfaces", func(t *testing.T) {
		broken := &stubScoreRepo{listErr: errors.New("mongo down")}
		svc := NewLeaderboardService(broken, &stubLeaderboardCache{})
		_, err := svc.ListScores(context.Background())
		assert.Error(t, err)
	})
}
