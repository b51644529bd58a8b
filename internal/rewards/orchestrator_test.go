package rewards

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

// fakeDirectory annuaire en mémoire pour les tests
type fakeDirectory struct {
	known map[string]bool
}

func (d *fakeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	return d.known[id], nil
}

func newTestOrchestrator(userIDs ...string) *Orchestrator {
	dir := &fakeDirectory{known: map[string]bool{}}
	for _, id := range userIDs {
		dir.known[id] = true
	}
	return New(store.NewMemory(), dir, Options{})
}

func TestLogActionAwardsOneCoin(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator("user-1")

	for i := 1; i <= 5; i++ {
		coins, err := o.LogAction(ctx, "user-1", model.ActionScan, nil)
		require.NoError(t, err)
		require.Equal(t, 1, coins)
	}

	balance, err := o.Coins.Balance(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 5, balance)

	score, err := o.Leaderboard.ScoreOf(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 5, score.TotalScore)
	require.NotNil(t, score.Position)
	require.Equal(t, 1, *score.Position)
}

func TestLogActionValidation(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator("user-1")

	_, err := o.LogAction(ctx, "", model.ActionScan, nil)
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = o.LogAction(ctx, "   ", model.ActionScan, nil)
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = o.LogAction(ctx, "user-1", model.ActionType("JUMP"), nil)
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// Aucune écriture partielle après un rejet
	actions, err := o.Actions.Recent(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Empty(t, actions)
}

func TestLogActionUnknownUser(t *testing.T) {
	o := newTestOrchestrator("user-1")

	_, err := o.LogAction(context.Background(), "stranger", model.ActionScan, nil)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestLogActionCustomCoinsPerAction(t *testing.T) {
	ctx := context.Background()
	dir := &fakeDirectory{known: map[string]bool{"user-1": true}}
	o := New(store.NewMemory(), dir, Options{CoinsPerAction: 3})

	coins, err := o.LogAction(ctx, "user-1", model.ActionGame, nil)
	require.NoError(t, err)
	require.Equal(t, 3, coins)
}

func TestLogActionConcurrentSameUser(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator("user-1")

	const n = 50
	errs := make(chan error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := o.LogAction(ctx, "user-1", model.ActionScan, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Pas d'incrément perdu: N actions, N coins, score N
	balance, err := o.Coins.Balance(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, n, balance)

	status, err := o.Eligibility.Status(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, n, status.MonthlyProgress.Scans)

	score, err := o.Leaderboard.ScoreOf(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, n, score.TotalScore)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator("user-1")

	for i := 0; i < 3; i++ {
		_, err := o.LogAction(ctx, "user-1", model.ActionScan, map[string]interface{}{"venue": "bar-42"})
		require.NoError(t, err)
	}

	summary, err := o.Summary(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", summary.UserID)
	require.Equal(t, 3, summary.TotalCoins)
	require.Equal(t, 3, summary.TotalScore)
	require.NotNil(t, summary.Position)
	require.Len(t, summary.RecentActions, 3)
	require.Equal(t, 3, summary.EligibilityStatus.WeeklyProgress.Scans)
}

func TestSummaryUnknownUser(t *testing.T) {
	o := newTestOrchestrator("user-1")

	_, err := o.Summary(context.Background(), "stranger")
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = o.Summary(context.Background(), "")
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestTopByAction(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator("user-1", "user-2")

	for i := 0; i < 4; i++ {
		_, err := o.LogAction(ctx, "user-1", model.ActionScan, nil)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := o.LogAction(ctx, "user-2", model.ActionScan, nil)
		require.NoError(t, err)
	}
	_, err := o.LogAction(ctx, "user-2", model.ActionGame, nil)
	require.NoError(t, err)

	top, err := o.Leaderboard.TopByAction(ctx, model.ActionScan, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "user-1", top[0].UserID)
	require.Equal(t, 4, top[0].ActionCount)
	require.Equal(t, "user-2", top[1].UserID)
	require.Equal(t, 2, top[1].ActionCount)
}
