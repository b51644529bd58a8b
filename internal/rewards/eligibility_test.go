package rewards

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEligibilityGiftThresholds(t *testing.T) {
	ctx := context.Background()
	engine := NewEligibilityEngine(store.NewMemory())
	engine.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	for i := 0; i < GiftMonthlyScans; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	}
	for i := 0; i < GiftMonthlyShares; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionShare))
	}
	for i := 0; i < GiftMonthlyGames; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionGame))
	}

	status, err := engine.Status(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, status.GiftEligible)
	require.Equal(t, 8, status.MonthlyProgress.Scans)
	require.Equal(t, 3, status.MonthlyProgress.Shares)
	require.Equal(t, 8, status.MonthlyProgress.Games)
}

func TestEligibilityBelowThresholdNotEligible(t *testing.T) {
	ctx := context.Background()
	engine := NewEligibilityEngine(store.NewMemory())
	engine.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	// 7 scans sur 8 requis
	for i := 0; i < GiftMonthlyScans-1; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	}
	for i := 0; i < GiftMonthlyShares; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionShare))
	}
	for i := 0; i < GiftMonthlyGames; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionGame))
	}

	status, err := engine.Status(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, status.GiftEligible)
}

func TestEligibilityUnknownUserZeroProgress(t *testing.T) {
	engine := NewEligibilityEngine(store.NewMemory())

	status, err := engine.Status(context.Background(), "nobody")
	require.NoError(t, err)
	require.False(t, status.GiftEligible)
	require.False(t, status.ChallengeEligible)
	require.Zero(t, status.MonthlyProgress.Scans)
	require.Equal(t, GiftMonthlyScans, status.MonthlyProgress.RequiredScans)
	require.Equal(t, ChallengeWeeklyShares, status.WeeklyProgress.RequiredShares)
}

func TestEligibilityWeeklyWindowRollover(t *testing.T) {
	ctx := context.Background()
	engine := NewEligibilityEngine(store.NewMemory())

	// Mercredi 11 mars 2026
	engine.now = fixedClock(time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC))
	for i := 0; i < ChallengeWeeklyScans; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	}
	require.NoError(t, engine.Update(ctx, "user-1", model.ActionShare))
	for i := 0; i < ChallengeWeeklyGames; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionGame))
	}

	status, err := engine.Status(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, status.ChallengeEligible)

	// Dimanche suivant: nouvelle semaine, la lecture montre des compteurs à zéro
	engine.now = fixedClock(time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	status, err = engine.Status(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, status.ChallengeEligible)
	require.Zero(t, status.WeeklyProgress.Scans)
	// Le mois n'a pas changé, la progression mensuelle est conservée
	require.Equal(t, 3, status.MonthlyProgress.Scans)

	// Une action dans la nouvelle semaine repart de zéro puis incrémente
	require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	status, err = engine.Status(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, status.WeeklyProgress.Scans)
}

func TestEligibilityActionOnWindowBoundary(t *testing.T) {
	ctx := context.Background()
	engine := NewEligibilityEngine(store.NewMemory())

	engine.now = fixedClock(time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC))
	require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))

	// Action posée pile au début de la semaine suivante: un seul reset, un incrément
	engine.now = fixedClock(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))

	status, err := engine.Status(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, status.WeeklyProgress.Scans)
}

func TestResetWeeklyIdempotent(t *testing.T) {
	ctx := context.Background()
	engine := NewEligibilityEngine(store.NewMemory())
	engine.now = fixedClock(time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC))

	for i := 0; i < ChallengeWeeklyScans; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	}
	require.NoError(t, engine.Update(ctx, "user-1", model.ActionShare))
	for i := 0; i < ChallengeWeeklyGames; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionGame))
	}

	require.NoError(t, engine.ResetWeekly(ctx))
	first, err := engine.Status(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, engine.ResetWeekly(ctx))
	second, err := engine.Status(ctx, "user-1")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Zero(t, second.WeeklyProgress.Scans)
	require.False(t, second.ChallengeEligible)
}

func TestMonthlyResetClearsGiftEligibility(t *testing.T) {
	ctx := context.Background()
	engine := NewEligibilityEngine(store.NewMemory())
	engine.now = fixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	for i := 0; i < GiftMonthlyScans; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionScan))
	}
	for i := 0; i < GiftMonthlyShares; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionShare))
	}
	for i := 0; i < GiftMonthlyGames; i++ {
		require.NoError(t, engine.Update(ctx, "user-1", model.ActionGame))
	}

	eligible, err := engine.GiftEligibleUsers(ctx)
	require.NoError(t, err)
	require.Contains(t, eligible, "user-1")

	require.NoError(t, engine.ResetMonthly(ctx))
	eligible, err = engine.GiftEligibleUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, eligible)
}

func TestStartOfWeekIsSunday(t *testing.T) {
	// Samedi 14 mars 2026 → semaine du dimanche 8 mars
	got := startOfWeek(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), got)

	// Un dimanche est son propre début de semaine
	got = startOfWeek(time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), got)
}
