package rewards

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

// UserDirectory collaborateur externe: annuaire des utilisateurs finaux
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// ActionLedger journal append-only des actions. Source de vérité du moteur:
// aucune API de mutation ni de suppression.
type ActionLedger struct {
	store store.ActionStore
	users UserDirectory
}

func NewActionLedger(st store.ActionStore, users UserDirectory) *ActionLedger {
	return &ActionLedger{store: st, users: users}
}

// Record valide puis appose un événement horodaté côté serveur.
// La validation précède toute écriture: pas d'écriture partielle.
func (a *ActionLedger) Record(ctx context.Context, userID string, kind model.ActionType, metadata map[string]interface{}) (model.UserAction, error) {
	if strings.TrimSpace(userID) == "" {
		return model.UserAction{}, apperr.Validation("valid userId is required")
	}
	if !model.ValidActionType(string(kind)) {
		return model.UserAction{}, apperr.Validation("invalid action type: %s", kind)
	}

	exists, err := a.users.Exists(ctx, userID)
	if err != nil {
		return model.UserAction{}, apperr.Dependency(err, "could not check user %s", userID)
	}
	if !exists {
		return model.UserAction{}, apperr.NotFound("user %s not found", userID)
	}

	action := model.UserAction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.AppendAction(ctx, action); err != nil {
		return model.UserAction{}, apperr.Dependency(err, "could not record action for user %s", userID)
	}
	return action, nil
}

// Recent rend les dernières actions d'un utilisateur, plus récentes d'abord
func (a *ActionLedger) Recent(ctx context.Context, userID string, limit int) ([]model.UserAction, error) {
	actions, err := a.store.RecentActions(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Dependency(err, "could not fetch recent actions for user %s", userID)
	}
	if actions == nil {
		actions = []model.UserAction{}
	}
	return actions, nil
}
