package rewards

import (
	"context"
	"strings"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	"github.com/00WhengWheng/T4G-backend/internal/logger"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

// DefaultCoinsPerAction 1 coin par action journalisée
const DefaultCoinsPerAction = 1

const recentActionsLimit = 10

// Options règle la politique de récompense
type Options struct {
	// CoinsPerAction coins crédités par action (défaut 1)
	CoinsPerAction int
	// CountPendingChallengePoints compte au classement les points de
	// challenges non encore confirmés complétés
	CountPendingChallengePoints bool
}

// Orchestrator façade du moteur de récompenses: par action entrante il
// enchaîne ledger → coins → éligibilité → classement sous le verrou du
// userId, de sorte qu'aucun lecteur ne voie un état dérivé partiel.
type Orchestrator struct {
	Actions     *ActionLedger
	Coins       *CoinLedger
	Eligibility *EligibilityEngine
	Leaderboard *Leaderboard

	locks          *keyedMutex
	coinsPerAction int
}

func New(st store.Store, users UserDirectory, opts Options) *Orchestrator {
	coinsPerAction := opts.CoinsPerAction
	if coinsPerAction <= 0 {
		coinsPerAction = DefaultCoinsPerAction
	}
	return &Orchestrator{
		Actions:        NewActionLedger(st, users),
		Coins:          NewCoinLedger(st),
		Eligibility:    NewEligibilityEngine(st),
		Leaderboard:    NewLeaderboard(st, st, st, opts.CountPendingChallengePoints),
		locks:          newKeyedMutex(),
		coinsPerAction: coinsPerAction,
	}
}

// LogAction journalise une action et propage tous les états dérivés.
// La séquence complète s'exécute sous le verrou de l'utilisateur: deux appels
// concurrents pour le même userId se sérialisent, les autres restent parallèles.
func (o *Orchestrator) LogAction(ctx context.Context, userID string, kind model.ActionType, metadata map[string]interface{}) (int, error) {
	// Validation avant toute écriture et avant la prise de verrou
	if strings.TrimSpace(userID) == "" {
		return 0, apperr.Validation("valid userId is required")
	}
	if !model.ValidActionType(string(kind)) {
		return 0, apperr.Validation("invalid action type: %s", kind)
	}

	unlock := o.locks.Lock(userID)
	defer unlock()

	action, err := o.Actions.Record(ctx, userID, kind, metadata)
	if err != nil {
		logger.Error("Failed to record %s for user %s: %v", kind, userID, err)
		return 0, err
	}

	if _, err := o.Coins.Award(ctx, userID, o.coinsPerAction); err != nil {
		logger.Error("Failed to award coins for action %s: %v", action.ID, err)
		return 0, err
	}

	if err := o.Eligibility.Update(ctx, userID, kind); err != nil {
		logger.Error("Failed to update eligibility for user %s: %v", userID, err)
		return 0, err
	}

	if err := o.Leaderboard.UpdateScore(ctx, userID); err != nil {
		logger.Error("Failed to update leaderboard for user %s: %v", userID, err)
		return 0, err
	}

	logger.Info("Action logged: %s for user %s (+%d coins)", kind, userID, o.coinsPerAction)
	return o.coinsPerAction, nil
}

// Summary compose l'état courant des quatre sous-composants pour un
// utilisateur. Lecture en éventail sans exigence de cohérence au-delà des
// dernières valeurs committées.
func (o *Orchestrator) Summary(ctx context.Context, userID string) (model.UserRewardSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return model.UserRewardSummary{}, apperr.Validation("valid userId is required")
	}

	exists, err := o.Actions.users.Exists(ctx, userID)
	if err != nil {
		return model.UserRewardSummary{}, apperr.Dependency(err, "could not check user %s", userID)
	}
	if !exists {
		return model.UserRewardSummary{}, apperr.NotFound("user %s not found", userID)
	}

	coins, err := o.Coins.Balance(ctx, userID)
	if err != nil {
		return model.UserRewardSummary{}, err
	}
	score, err := o.Leaderboard.ScoreOf(ctx, userID)
	if err != nil {
		return model.UserRewardSummary{}, err
	}
	status, err := o.Eligibility.Status(ctx, userID)
	if err != nil {
		return model.UserRewardSummary{}, err
	}
	recent, err := o.Actions.Recent(ctx, userID, recentActionsLimit)
	if err != nil {
		return model.UserRewardSummary{}, err
	}

	return model.UserRewardSummary{
		UserID:            userID,
		TotalCoins:        coins,
		TotalScore:        score.TotalScore,
		Position:          score.Position,
		EligibilityStatus: status,
		RecentActions:     recent,
	}, nil
}
