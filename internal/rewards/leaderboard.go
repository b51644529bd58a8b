package rewards

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

// Leaderboard classement par score total (coins + points bonus des challenges
// complétés). Chaque mise à jour de score déclenche un re-rank positionnel
// complet sous un verrou écrivain unique; les lectures ne bloquent pas et
// peuvent voir un classement légèrement en retard.
type Leaderboard struct {
	store   store.LeaderboardStore
	coins   store.CoinStore
	actions store.ActionStore

	// includePending compte les points de challenges non confirmés
	includePending bool

	// rankMu sérialise les re-ranks: recalculer les positions touche
	// toutes les entrées
	rankMu sync.Mutex
}

func NewLeaderboard(st store.LeaderboardStore, coins store.CoinStore, actions store.ActionStore, includePending bool) *Leaderboard {
	return &Leaderboard{store: st, coins: coins, actions: actions, includePending: includePending}
}

// UpdateScore recalcule le score d'un utilisateur puis réattribue toutes les
// positions. Tri stable: à score égal l'ordre relatif précédent est conservé
// pour éviter les oscillations de position.
func (l *Leaderboard) UpdateScore(ctx context.Context, userID string) error {
	score, err := l.computeScore(ctx, userID)
	if err != nil {
		return err
	}

	l.rankMu.Lock()
	defer l.rankMu.Unlock()

	// AllLeaderboardEntries rend l'ordre positionnel courant: la base du tri stable
	entries, err := l.store.AllLeaderboardEntries(ctx)
	if err != nil {
		return apperr.Dependency(err, "could not load leaderboard entries")
	}

	now := time.Now().UTC()
	found := false
	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].TotalScore = score
			entries[i].LastUpdated = now
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, model.LeaderboardEntry{
			UserID:      userID,
			TotalScore:  score,
			LastUpdated: now,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	for i := range entries {
		entries[i].Position = i + 1
	}

	if err := l.store.SaveLeaderboardEntries(ctx, entries); err != nil {
		return apperr.Dependency(err, "could not save leaderboard entries")
	}
	return nil
}

// Get rend une page du classement, positions croissantes
func (l *Leaderboard) Get(ctx context.Context, limit, offset int) ([]model.LeaderboardEntry, error) {
	entries, err := l.store.ListLeaderboard(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list leaderboard")
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}

// Position rend nil pour un utilisateur pas encore classé: ce n'est pas une panne
func (l *Leaderboard) Position(ctx context.Context, userID string) (*int, error) {
	entry, found, err := l.store.LeaderboardEntry(ctx, userID)
	if err != nil {
		return nil, apperr.Dependency(err, "could not load position for user %s", userID)
	}
	if !found || entry.Position == 0 {
		return nil, nil
	}
	pos := entry.Position
	return &pos, nil
}

// ScoreOf rend score et position, zéro/nil pour un inconnu
func (l *Leaderboard) ScoreOf(ctx context.Context, userID string) (model.UserScore, error) {
	entry, found, err := l.store.LeaderboardEntry(ctx, userID)
	if err != nil {
		return model.UserScore{}, apperr.Dependency(err, "could not load score for user %s", userID)
	}
	if !found {
		return model.UserScore{}, nil
	}
	score := model.UserScore{TotalScore: entry.TotalScore}
	if entry.Position > 0 {
		pos := entry.Position
		score.Position = &pos
	}
	return score, nil
}

// Around rend les positions [max(1, pos-range) .. pos+range] autour de
// l'utilisateur. Sans position, repli sur le top 2×range.
func (l *Leaderboard) Around(ctx context.Context, userID string, rng int) ([]model.LeaderboardEntry, error) {
	pos, err := l.Position(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return l.Get(ctx, rng*2, 0)
	}

	start := *pos - rng
	if start < 1 {
		start = 1
	}
	limit := *pos + rng - start + 1
	return l.Get(ctx, limit, start-1)
}

// TopByAction classe par nombre d'actions d'un type donné, agrégation
// distincte du score total
func (l *Leaderboard) TopByAction(ctx context.Context, kind model.ActionType, limit int) ([]model.ActionLeaderboardEntry, error) {
	entries, err := l.actions.TopByAction(ctx, kind, limit)
	if err != nil {
		return nil, apperr.Dependency(err, "could not rank users by action %s", kind)
	}
	if entries == nil {
		entries = []model.ActionLeaderboardEntry{}
	}
	return entries, nil
}

func (l *Leaderboard) Stats(ctx context.Context) (model.LeaderboardStats, error) {
	stats, err := l.store.LeaderboardStats(ctx)
	if err != nil {
		return model.LeaderboardStats{}, apperr.Dependency(err, "could not compute leaderboard stats")
	}
	return stats, nil
}

// Reset vide le classement (admin / tests)
func (l *Leaderboard) Reset(ctx context.Context) error {
	l.rankMu.Lock()
	defer l.rankMu.Unlock()
	if err := l.store.ResetLeaderboard(ctx); err != nil {
		return apperr.Dependency(err, "could not reset leaderboard")
	}
	return nil
}

func (l *Leaderboard) computeScore(ctx context.Context, userID string) (int, error) {
	balance, _, err := l.coins.CoinBalance(ctx, userID)
	if err != nil {
		return 0, apperr.Dependency(err, "could not load coin balance for user %s", userID)
	}
	bonus, err := l.store.ChallengeBonus(ctx, userID, l.includePending)
	if err != nil {
		return 0, apperr.Dependency(err, "could not load challenge bonus for user %s", userID)
	}
	return balance.TotalCoins + bonus, nil
}
