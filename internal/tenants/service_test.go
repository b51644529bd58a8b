package tenants

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

func newTenant(t *testing.T, svc *Service, auth0ID, orgID string, role model.TenantRole) model.Tenant {
	t.Helper()
	tenant, err := svc.Create(context.Background(), CreateTenantInput{
		Email:            auth0ID + "@t4g.space",
		Name:             "Bar " + orgID,
		Auth0ID:          auth0ID,
		OrganizationName: "Org " + orgID,
		OrganizationID:   orgID,
		Role:             role,
	})
	require.NoError(t, err)
	return tenant
}

func TestCreateTenant(t *testing.T) {
	svc := NewService(store.NewMemory())
	tenant := newTenant(t, svc, "auth0|bar1", "org-1", "")

	require.NotEmpty(t, tenant.ID)
	require.Equal(t, model.TenantRoleUser, tenant.Role)
	require.True(t, tenant.IsActive)
	require.True(t, tenant.Settings.AnalyticsEnabled)

	_, err := svc.Create(context.Background(), CreateTenantInput{
		Email:          "dup@t4g.space",
		Auth0ID:        "auth0|bar1",
		OrganizationID: "org-1",
	})
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestGiftPermissions(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	admin := newTenant(t, svc, "auth0|admin", "org-1", model.TenantRoleAdmin)
	viewer := newTenant(t, svc, "auth0|viewer", "org-1", model.TenantRoleUser)

	gift, err := svc.CreateGift(ctx, admin.ID, GiftInput{Name: "Free beer", Value: 5})
	require.NoError(t, err)
	require.Equal(t, "org-1", gift.OrganizationID)
	require.Equal(t, admin.ID, gift.CreatedBy)

	// tenant_user n'a pas la capacité manage_gifts
	_, err = svc.CreateGift(ctx, viewer.ID, GiftInput{Name: "Nope"})
	require.True(t, apperr.IsCode(err, apperr.CodePermission))
}

func TestGiftCrossOrganizationOwnership(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	owner := newTenant(t, svc, "auth0|own", "org-1", model.TenantRoleAdmin)
	other := newTenant(t, svc, "auth0|other", "org-2", model.TenantRoleAdmin)

	gift, err := svc.CreateGift(ctx, owner.ID, GiftInput{Name: "Free beer", Value: 5})
	require.NoError(t, err)

	_, err = svc.UpdateGift(ctx, other.ID, gift.ID, GiftInput{Name: "Hijacked"})
	require.True(t, apperr.IsCode(err, apperr.CodePermission))

	err = svc.DeleteGift(ctx, other.ID, gift.ID)
	require.True(t, apperr.IsCode(err, apperr.CodePermission))

	// Le propriétaire peut modifier puis supprimer
	updated, err := svc.UpdateGift(ctx, owner.ID, gift.ID, GiftInput{Name: "Two free beers"})
	require.NoError(t, err)
	require.Equal(t, "Two free beers", updated.Name)

	require.NoError(t, svc.DeleteGift(ctx, owner.ID, gift.ID))
	gifts, err := svc.GiftsForTenant(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, gifts)
}

func TestChallengeCrud(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	manager := newTenant(t, svc, "auth0|mgr", "org-1", model.TenantRoleManager)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	challenge, err := svc.CreateChallenge(ctx, manager.ID, ChallengeInput{
		Title:      "Scan week",
		Type:       model.ChallengeWeekly,
		Difficulty: model.DifficultyEasy,
		Points:     50,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 7),
		Rules:      []string{"3 scans", "1 share"},
	})
	require.NoError(t, err)
	require.Equal(t, 50, challenge.Points)
	require.True(t, challenge.IsActive)

	inactive := false
	updated, err := svc.UpdateChallenge(ctx, manager.ID, challenge.ID, ChallengeInput{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
	require.Equal(t, "Scan week", updated.Title)

	_, err = svc.CreateChallenge(ctx, manager.ID, ChallengeInput{Title: "", Points: 10})
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.CreateChallenge(ctx, manager.ID, ChallengeInput{Title: "Bad", Points: -1})
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestCompleteChallenge(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewService(st)

	admin := newTenant(t, svc, "auth0|admin", "org-1", model.TenantRoleAdmin)
	challenge, err := svc.CreateChallenge(ctx, admin.ID, ChallengeInput{Title: "Scan week", Points: 50})
	require.NoError(t, err)

	completion, err := svc.CompleteChallenge(ctx, "user-1", challenge.ID)
	require.NoError(t, err)
	require.True(t, completion.Completed)
	require.NotNil(t, completion.CompletedAt)

	// Les points complétés alimentent le bonus de classement
	bonus, err := st.ChallengeBonus(ctx, "user-1", false)
	require.NoError(t, err)
	require.Equal(t, 50, bonus)

	_, err = svc.CompleteChallenge(ctx, "user-1", "missing")
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	admin := newTenant(t, svc, "auth0|admin", "org-1", model.TenantRoleAdmin)
	outsider := newTenant(t, svc, "auth0|out", "org-2", model.TenantRoleAdmin)

	_, err := svc.CreateGift(ctx, admin.ID, GiftInput{Name: "Beer"})
	require.NoError(t, err)
	gift, err := svc.CreateGift(ctx, admin.ID, GiftInput{Name: "Pizza"})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateGift(ctx, admin.ID, gift.ID, GiftInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.CreateChallenge(ctx, admin.ID, ChallengeInput{Title: "Scan week", Points: 10})
	require.NoError(t, err)
	// Les données d'une autre organisation ne fuient pas dans le dashboard
	_, err = svc.CreateGift(ctx, outsider.ID, GiftInput{Name: "Elsewhere"})
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "org-1", dashboard.OrganizationID)
	require.Equal(t, 2, dashboard.Stats.TotalGifts)
	require.Equal(t, 1, dashboard.Stats.ActiveGifts)
	require.Equal(t, 1, dashboard.Stats.TotalChallenges)
	require.Equal(t, 1, dashboard.Stats.ActiveChallenges)
}
