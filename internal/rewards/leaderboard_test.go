package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

func TestLeaderboardRanking(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	coins := NewCoinLedger(st)
	lb := NewLeaderboard(st, st, st, false)

	for _, u := range []struct {
		id    string
		coins int
	}{{"user-a", 30}, {"user-b", 50}, {"user-c", 10}} {
		_, err := coins.Award(ctx, u.id, u.coins)
		require.NoError(t, err)
		require.NoError(t, lb.UpdateScore(ctx, u.id))
	}

	entries, err := lb.Get(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user-b", entries[0].UserID)
	require.Equal(t, 1, entries[0].Position)
	require.Equal(t, "user-a", entries[1].UserID)
	require.Equal(t, 2, entries[1].Position)
	require.Equal(t, "user-c", entries[2].UserID)
	require.Equal(t, 3, entries[2].Position)
}

func TestLeaderboardTiesKeepPriorOrder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	coins := NewCoinLedger(st)
	lb := NewLeaderboard(st, st, st, false)

	_, err := coins.Award(ctx, "first", 20)
	require.NoError(t, err)
	require.NoError(t, lb.UpdateScore(ctx, "first"))

	_, err = coins.Award(ctx, "second", 20)
	require.NoError(t, err)
	require.NoError(t, lb.UpdateScore(ctx, "second"))

	// À score égal le premier arrivé garde la meilleure position
	entries, err := lb.Get(ctx, 10, 0)
	require.NoError(t, err)
	require.Equal(t, "first", entries[0].UserID)
	require.Equal(t, "second", entries[1].UserID)

	// Un recalcul sans changement de score ne fait pas osciller l'ordre
	require.NoError(t, lb.UpdateScore(ctx, "second"))
	entries, err = lb.Get(ctx, 10, 0)
	require.NoError(t, err)
	require.Equal(t, "first", entries[0].UserID)
	require.Equal(t, "second", entries[1].UserID)
}

func TestLeaderboardScoreOfUnrankedUser(t *testing.T) {
	st := store.NewMemory()
	lb := NewLeaderboard(st, st, st, false)

	score, err := lb.ScoreOf(context.Background(), "ghost")
	require.NoError(t, err)
	require.Zero(t, score.TotalScore)
	require.Nil(t, score.Position)
}

func TestLeaderboardAround(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	coins := NewCoinLedger(st)
	lb := NewLeaderboard(st, st, st, false)

	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8"}
	for i, id := range users {
		_, err := coins.Award(ctx, id, 100-i*10)
		require.NoError(t, err)
		require.NoError(t, lb.UpdateScore(ctx, id))
	}

	// u4 est en position 4, range 2 → positions 2 à 6
	entries, err := lb.Around(ctx, "u4", 2)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	require.Equal(t, 2, entries[0].Position)
	require.Equal(t, 6, entries[4].Position)

	// Près du sommet la fenêtre est tronquée au début du classement
	entries, err = lb.Around(ctx, "u1", 3)
	require.NoError(t, err)
	require.Equal(t, 1, entries[0].Position)

	// Utilisateur non classé: repli sur le haut du classement
	entries, err = lb.Around(ctx, "ghost", 2)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	require.Equal(t, 1, entries[0].Position)
}

func TestLeaderboardChallengeBonus(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	coins := NewCoinLedger(st)

	require.NoError(t, st.CreateChallenge(ctx, model.Challenge{
		ID:     "ch-1",
		Title:  "Scan marathon",
		Points: 50,
	}))
	now := time.Now().UTC()
	require.NoError(t, st.SaveUserChallenge(ctx, model.UserChallenge{
		ID:          "uc-1",
		UserID:      "user-1",
		ChallengeID: "ch-1",
		Completed:   true,
		CompletedAt: &now,
		CreatedAt:   now,
	}))
	require.NoError(t, st.SaveUserChallenge(ctx, model.UserChallenge{
		ID:          "uc-2",
		UserID:      "user-1",
		ChallengeID: "ch-1",
		Completed:   false,
		CreatedAt:   now,
	}))

	_, err := coins.Award(ctx, "user-1", 10)
	require.NoError(t, err)

	// Seuls les challenges confirmés complétés comptent
	lb := NewLeaderboard(st, st, st, false)
	require.NoError(t, lb.UpdateScore(ctx, "user-1"))
	score, err := lb.ScoreOf(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 60, score.TotalScore)

	// Avec la politique inverse, les complétions en attente comptent aussi
	pending := NewLeaderboard(st, st, st, true)
	require.NoError(t, pending.UpdateScore(ctx, "user-1"))
	score, err = pending.ScoreOf(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 110, score.TotalScore)
}

func TestLeaderboardStats(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	coins := NewCoinLedger(st)
	lb := NewLeaderboard(st, st, st, false)

	for _, u := range []struct {
		id    string
		coins int
	}{{"a", 10}, {"b", 20}, {"c", 30}} {
		_, err := coins.Award(ctx, u.id, u.coins)
		require.NoError(t, err)
		require.NoError(t, lb.UpdateScore(ctx, u.id))
	}

	stats, err := lb.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalUsers)
	require.Equal(t, 30, stats.TopScore)
	require.InDelta(t, 20.0, stats.AverageScore, 0.001)
}

func TestLeaderboardReset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	coins := NewCoinLedger(st)
	lb := NewLeaderboard(st, st, st, false)

	_, err := coins.Award(ctx, "user-1", 10)
	require.NoError(t, err)
	require.NoError(t, lb.UpdateScore(ctx, "user-1"))

	require.NoError(t, lb.Reset(ctx))
	entries, err := lb.Get(ctx, 10, 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}
