// Package store isole la persistance derrière une interface à clé userId.
// Deux implémentations: Postgres (production) et mémoire (tests, dev local).
package store

import (
	"context"
	"time"

	model "github.com/00WhengWheng/T4G-backend/internal/models"
)

// ActionStore ledger append-only des actions utilisateur
type ActionStore interface {
	AppendAction(ctx context.Context, action model.UserAction) error
	RecentActions(ctx context.Context, userID string, limit int) ([]model.UserAction, error)
	// TopByAction classe les utilisateurs par nombre d'actions d'un type donné
	TopByAction(ctx context.Context, kind model.ActionType, limit int) ([]model.ActionLeaderboardEntry, error)
}

// CoinStore soldes de coins
type CoinStore interface {
	CoinBalance(ctx context.Context, userID string) (model.CoinBalance, bool, error)
	SaveCoinBalance(ctx context.Context, balance model.CoinBalance) error
}

// EligibilityStore compteurs d'éligibilité et resets batch
type EligibilityStore interface {
	Eligibility(ctx context.Context, userID string) (model.UserEligibility, bool, error)
	SaveEligibility(ctx context.Context, el model.UserEligibility) error
	GiftEligibleUsers(ctx context.Context) ([]string, error)
	ChallengeEligibleUsers(ctx context.Context) ([]string, error)
	// ResetWeeklyCounters remet à zéro les compteurs hebdo de tous les
	// utilisateurs et tamponne le début de semaine. Idempotent.
	ResetWeeklyCounters(ctx context.Context, weekStart time.Time) error
	ResetMonthlyCounters(ctx context.Context, monthStart time.Time) error
}

// LeaderboardStore entrées de classement. SaveLeaderboardEntries applique un
// re-rank complet de façon transactionnelle: aucun lecteur ne voit un
// classement partiellement réécrit.
type LeaderboardStore interface {
	LeaderboardEntry(ctx context.Context, userID string) (model.LeaderboardEntry, bool, error)
	AllLeaderboardEntries(ctx context.Context) ([]model.LeaderboardEntry, error)
	SaveLeaderboardEntries(ctx context.Context, entries []model.LeaderboardEntry) error
	ListLeaderboard(ctx context.Context, limit, offset int) ([]model.LeaderboardEntry, error)
	LeaderboardStats(ctx context.Context) (model.LeaderboardStats, error)
	ResetLeaderboard(ctx context.Context) error
	// ChallengeBonus somme des points des challenges complétés par l'utilisateur.
	// includePending compte aussi les participations non confirmées.
	ChallengeBonus(ctx context.Context, userID string, includePending bool) (int, error)
}

// UserStore annuaire des utilisateurs finaux
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	UserByID(ctx context.Context, id string) (model.User, bool, error)
	UserByEmail(ctx context.Context, email string) (model.User, bool, error)
	UserByAuth0ID(ctx context.Context, auth0ID string) (model.User, bool, error)
	UpdateUser(ctx context.Context, user model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
}

// TenantStore tenants, cadeaux et challenges côté organisation
type TenantStore interface {
	CreateTenant(ctx context.Context, tenant model.Tenant) error
	TenantByID(ctx context.Context, id string) (model.Tenant, bool, error)
	TenantByAuth0ID(ctx context.Context, auth0ID string) (model.Tenant, bool, error)
	UpdateTenant(ctx context.Context, tenant model.Tenant) error

	CreateGift(ctx context.Context, gift model.Gift) error
	GiftByID(ctx context.Context, id string) (model.Gift, bool, error)
	UpdateGift(ctx context.Context, gift model.Gift) error
	DeleteGift(ctx context.Context, id string) error
	GiftsByOrganization(ctx context.Context, orgID string) ([]model.Gift, error)

	CreateChallenge(ctx context.Context, ch model.Challenge) error
	ChallengeByID(ctx context.Context, id string) (model.Challenge, bool, error)
	UpdateChallenge(ctx context.Context, ch model.Challenge) error
	DeleteChallenge(ctx context.Context, id string) error
	ChallengesByOrganization(ctx context.Context, orgID string) ([]model.Challenge, error)

	SaveUserChallenge(ctx context.Context, uc model.UserChallenge) error
	UserChallenges(ctx context.Context, userID string) ([]model.UserChallenge, error)
}

// Store agrége toutes les préoccupations de persistance du backend
type Store interface {
	ActionStore
	CoinStore
	EligibilityStore
	LeaderboardStore
	UserStore
	TenantStore
}
