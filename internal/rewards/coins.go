package rewards

import (
	"context"
	"time"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

// CoinLedger solde monotone croissant dérivé des actions.
// Jamais décrémenté hors du reset admin explicite.
type CoinLedger struct {
	store store.CoinStore
}

func NewCoinLedger(st store.CoinStore) *CoinLedger {
	return &CoinLedger{store: st}
}

// Award crédite amount coins et rend le solde résultant.
// Upsert: création au premier award, incrément ensuite.
func (c *CoinLedger) Award(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperr.Validation("coin award must be positive, got %d", amount)
	}

	balance, found, err := c.store.CoinBalance(ctx, userID)
	if err != nil {
		return 0, apperr.Dependency(err, "could not load coin balance for user %s", userID)
	}
	if !found {
		balance = model.CoinBalance{UserID: userID}
	}
	balance.TotalCoins += amount
	balance.LastUpdated = time.Now().UTC()

	if err := c.store.SaveCoinBalance(ctx, balance); err != nil {
		return 0, apperr.Dependency(err, "could not save coin balance for user %s", userID)
	}
	return balance.TotalCoins, nil
}

// Balance rend le solde courant, 0 pour un utilisateur sans compte
func (c *CoinLedger) Balance(ctx context.Context, userID string) (int, error) {
	balance, found, err := c.store.CoinBalance(ctx, userID)
	if err != nil {
		return 0, apperr.Dependency(err, "could not load coin balance for user %s", userID)
	}
	if !found {
		return 0, nil
	}
	return balance.TotalCoins, nil
}

// Reset remet le solde à zéro. Seule opération qui fait décroître un solde.
func (c *CoinLedger) Reset(ctx context.Context, userID string) error {
	balance := model.CoinBalance{UserID: userID, LastUpdated: time.Now().UTC()}
	if err := c.store.SaveCoinBalance(ctx, balance); err != nil {
		return apperr.Dependency(err, "could not reset coin balance for user %s", userID)
	}
	return nil
}
