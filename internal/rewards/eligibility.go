package rewards

import (
	"context"
	"time"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	"github.com/00WhengWheng/T4G-backend/internal/logger"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

// Seuils d'éligibilité cadeau (fenêtre mensuelle)
const (
	GiftMonthlyScans  = 8
	GiftMonthlyShares = 3
	GiftMonthlyGames  = 8
)

// Seuils d'éligibilité challenge (fenêtre hebdomadaire, semaine débutant dimanche)
const (
	ChallengeWeeklyScans  = 3
	ChallengeWeeklyShares = 1
	ChallengeWeeklyGames  = 3
)

// EligibilityEngine maintient les compteurs glissants et en dérive les deux
// drapeaux d'éligibilité. Les drapeaux sont toujours recalculés depuis les
// compteurs, jamais posés indépendamment.
type EligibilityEngine struct {
	store store.EligibilityStore

	// now est injectable pour tester les bascules de fenêtre
	now func() time.Time
}

func NewEligibilityEngine(st store.EligibilityStore) *EligibilityEngine {
	return &EligibilityEngine{store: st, now: time.Now}
}

// Update applique reset-de-fenêtre puis incrément pour une action.
// Le reset est idempotent: il compare le marqueur stocké au début de fenêtre
// recalculé, pas un delta de temps écoulé — une action posée pile sur une
// frontière produit exactement un reset puis un incrément.
func (e *EligibilityEngine) Update(ctx context.Context, userID string, kind model.ActionType) error {
	now := e.now()
	monthStart := startOfMonth(now)
	weekStart := startOfWeek(now)

	el, found, err := e.store.Eligibility(ctx, userID)
	if err != nil {
		return apperr.Dependency(err, "could not load eligibility for user %s", userID)
	}
	if !found {
		el = model.UserEligibility{
			UserID:         userID,
			LastResetMonth: monthStart,
			LastResetWeek:  weekStart,
		}
	}

	if !el.LastResetMonth.Equal(monthStart) {
		el.MonthlyScans = 0
		el.MonthlyShares = 0
		el.MonthlyGames = 0
		el.LastResetMonth = monthStart
	}
	if !el.LastResetWeek.Equal(weekStart) {
		el.WeeklyScans = 0
		el.WeeklyShares = 0
		el.WeeklyGames = 0
		el.LastResetWeek = weekStart
	}

	switch kind {
	case model.ActionScan:
		el.MonthlyScans++
		el.WeeklyScans++
	case model.ActionShare:
		el.MonthlyShares++
		el.WeeklyShares++
	case model.ActionGame:
		el.MonthlyGames++
		el.WeeklyGames++
	default:
		return apperr.Validation("invalid action type: %s", kind)
	}

	wasGift, wasChallenge := el.GiftEligible, el.ChallengeEligible
	el.GiftEligible = giftEligible(el.MonthlyScans, el.MonthlyShares, el.MonthlyGames)
	el.ChallengeEligible = challengeEligible(el.WeeklyScans, el.WeeklyShares, el.WeeklyGames)

	if err := e.store.SaveEligibility(ctx, el); err != nil {
		return apperr.Dependency(err, "could not save eligibility for user %s", userID)
	}

	if el.GiftEligible && !wasGift {
		logger.Success("User %s is now gift eligible", userID)
	}
	if el.ChallengeEligible && !wasChallenge {
		logger.Success("User %s is now challenge eligible", userID)
	}
	return nil
}

// Status recalcule l'état d'éligibilité. Un utilisateur sans compteurs n'est
// pas une erreur: progression zéro. Des compteurs d'une fenêtre expirée sont
// présentés à zéro sans écrire quoi que ce soit.
func (e *EligibilityEngine) Status(ctx context.Context, userID string) (model.EligibilityStatus, error) {
	now := e.now()
	monthStart := startOfMonth(now)
	weekStart := startOfWeek(now)

	el, found, err := e.store.Eligibility(ctx, userID)
	if err != nil {
		return model.EligibilityStatus{}, apperr.Dependency(err, "could not load eligibility for user %s", userID)
	}
	if found && !el.LastResetMonth.Equal(monthStart) {
		el.MonthlyScans = 0
		el.MonthlyShares = 0
		el.MonthlyGames = 0
	}
	if found && !el.LastResetWeek.Equal(weekStart) {
		el.WeeklyScans = 0
		el.WeeklyShares = 0
		el.WeeklyGames = 0
	}

	return model.EligibilityStatus{
		GiftEligible:      giftEligible(el.MonthlyScans, el.MonthlyShares, el.MonthlyGames),
		ChallengeEligible: challengeEligible(el.WeeklyScans, el.WeeklyShares, el.WeeklyGames),
		MonthlyProgress: model.WindowProgress{
			Scans:          el.MonthlyScans,
			Shares:         el.MonthlyShares,
			Games:          el.MonthlyGames,
			RequiredScans:  GiftMonthlyScans,
			RequiredShares: GiftMonthlyShares,
			RequiredGames:  GiftMonthlyGames,
		},
		WeeklyProgress: model.WindowProgress{
			Scans:          el.WeeklyScans,
			Shares:         el.WeeklyShares,
			Games:          el.WeeklyGames,
			RequiredScans:  ChallengeWeeklyScans,
			RequiredShares: ChallengeWeeklyShares,
			RequiredGames:  ChallengeWeeklyGames,
		},
	}, nil
}

// ResetWeekly remet à zéro les compteurs hebdo de tous les utilisateurs.
// Idempotent dans une même semaine: le second appel réécrit le même état.
func (e *EligibilityEngine) ResetWeekly(ctx context.Context) error {
	weekStart := startOfWeek(e.now())
	if err := e.store.ResetWeeklyCounters(ctx, weekStart); err != nil {
		return apperr.Dependency(err, "could not reset weekly counters")
	}
	logger.Info("Weekly eligibility counters reset (week of %s)", weekStart.Format("2006-01-02"))
	return nil
}

// ResetMonthly remet à zéro les compteurs mensuels de tous les utilisateurs
func (e *EligibilityEngine) ResetMonthly(ctx context.Context) error {
	monthStart := startOfMonth(e.now())
	if err := e.store.ResetMonthlyCounters(ctx, monthStart); err != nil {
		return apperr.Dependency(err, "could not reset monthly counters")
	}
	logger.Info("Monthly eligibility counters reset (month of %s)", monthStart.Format("2006-01"))
	return nil
}

// GiftEligibleUsers rend tous les userIds dont le drapeau cadeau est vrai
func (e *EligibilityEngine) GiftEligibleUsers(ctx context.Context) ([]string, error) {
	users, err := e.store.GiftEligibleUsers(ctx)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list gift eligible users")
	}
	return users, nil
}

func (e *EligibilityEngine) ChallengeEligibleUsers(ctx context.Context) ([]string, error) {
	users, err := e.store.ChallengeEligibleUsers(ctx)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list challenge eligible users")
	}
	return users, nil
}

func giftEligible(scans, shares, games int) bool {
	return scans >= GiftMonthlyScans && shares >= GiftMonthlyShares && games >= GiftMonthlyGames
}

func challengeEligible(scans, shares, games int) bool {
	return scans >= ChallengeWeeklyScans && shares >= ChallengeWeeklyShares && games >= ChallengeWeeklyGames
}

// startOfWeek début de semaine (dimanche), heure tronquée
func startOfWeek(t time.Time) time.Time {
	d := t.AddDate(0, 0, -int(t.Weekday()))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
