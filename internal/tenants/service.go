// Package tenants gère le côté organisation: comptes tenant, cadeaux et
// challenges. Les droits sont résolus par rôle via un ensemble de capacités,
// jamais par appartenance à une liste de chaînes ad hoc.
package tenants

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

type CreateTenantInput struct {
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Picture          string           `json:"picture,omitempty"`
	Auth0ID          string           `json:"auth0Id"`
	OrganizationName string           `json:"organizationName"`
	OrganizationID   string           `json:"organizationId"`
	Role             model.TenantRole `json:"role,omitempty"`
}

type UpdateTenantInput struct {
	Name             *string                `json:"name,omitempty"`
	Picture          *string                `json:"picture,omitempty"`
	OrganizationName *string                `json:"organizationName,omitempty"`
	Settings         map[string]interface{} `json:"settings,omitempty"`
	IsActive         *bool                  `json:"isActive,omitempty"`
}

type GiftInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type ChallengeInput struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Type        model.ChallengeType       `json:"type"`
	Difficulty  model.ChallengeDifficulty `json:"difficulty"`
	Points      int                       `json:"points"`
	StartDate   time.Time                 `json:"startDate"`
	EndDate     time.Time                 `json:"endDate"`
	Rules       []string                  `json:"rules,omitempty"`
	IsActive    *bool                     `json:"isActive,omitempty"`
}

// DashboardAnalytics statistiques du tableau de bord d'une organisation
type DashboardAnalytics struct {
	OrganizationID string                 `json:"organizationId"`
	Stats          DashboardStats         `json:"stats"`
	RecentActivity DashboardRecentActivty `json:"recentActivity"`
}

type DashboardStats struct {
	TotalGifts       int `json:"totalGifts"`
	ActiveGifts      int `json:"activeGifts"`
	TotalChallenges  int `json:"totalChallenges"`
	ActiveChallenges int `json:"activeChallenges"`
}

type DashboardRecentActivty struct {
	Gifts      []model.Gift      `json:"gifts"`
	Challenges []model.Challenge `json:"challenges"`
}

type Service struct {
	store store.TenantStore
}

func NewService(st store.TenantStore) *Service {
	return &Service{store: st}
}

// --- Tenants ---

func (s *Service) Create(ctx context.Context, in CreateTenantInput) (model.Tenant, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Auth0ID) == "" {
		return model.Tenant{}, apperr.Validation("email and auth0Id are required")
	}
	if strings.TrimSpace(in.OrganizationID) == "" {
		return model.Tenant{}, apperr.Validation("organizationId is required")
	}

	_, found, err := s.store.TenantByAuth0ID(ctx, in.Auth0ID)
	if err != nil {
		return model.Tenant{}, apperr.Dependency(err, "could not look up tenant by auth0Id")
	}
	if found {
		return model.Tenant{}, apperr.Conflict("tenant already exists")
	}

	role := in.Role
	if role == "" {
		role = model.TenantRoleUser
	}

	now := time.Now().UTC()
	tenant := model.Tenant{
		ID:               uuid.NewString(),
		Email:            in.Email,
		Name:             in.Name,
		Picture:          in.Picture,
		Role:             role,
		Auth0ID:          in.Auth0ID,
		OrganizationName: in.OrganizationName,
		OrganizationID:   in.OrganizationID,
		IsActive:         true,
		Settings: model.TenantSettings{
			DashboardTheme:   "light",
			Notifications:    true,
			AnalyticsEnabled: true,
			RealTimeUpdates:  true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTenant(ctx, tenant); err != nil {
		return model.Tenant{}, apperr.Dependency(err, "could not create tenant")
	}
	return tenant, nil
}

func (s *Service) ByID(ctx context.Context, id string) (model.Tenant, error) {
	tenant, found, err := s.store.TenantByID(ctx, id)
	if err != nil {
		return model.Tenant{}, apperr.Dependency(err, "could not load tenant %s", id)
	}
	if !found {
		return model.Tenant{}, apperr.NotFound("tenant %s not found", id)
	}
	return tenant, nil
}

func (s *Service) ByAuth0ID(ctx context.Context, auth0ID string) (model.Tenant, error) {
	tenant, found, err := s.store.TenantByAuth0ID(ctx, auth0ID)
	if err != nil {
		return model.Tenant{}, apperr.Dependency(err, "could not look up tenant by auth0Id")
	}
	if !found {
		return model.Tenant{}, apperr.NotFound("tenant not found")
	}
	return tenant, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateTenantInput) (model.Tenant, error) {
	tenant, err := s.ByID(ctx, id)
	if err != nil {
		return model.Tenant{}, err
	}

	if in.Name != nil {
		tenant.Name = *in.Name
	}
	if in.Picture != nil {
		tenant.Picture = *in.Picture
	}
	if in.OrganizationName != nil {
		tenant.OrganizationName = *in.OrganizationName
	}
	if in.IsActive != nil {
		tenant.IsActive = *in.IsActive
	}
	if in.Settings != nil {
		mergeSettings(&tenant.Settings, in.Settings)
	}
	tenant.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTenant(ctx, tenant); err != nil {
		return model.Tenant{}, apperr.Dependency(err, "could not update tenant %s", id)
	}
	return tenant, nil
}

// TouchLogin tamponne la dernière connexion du tenant
func (s *Service) TouchLogin(ctx context.Context, id string) {
	tenant, found, err := s.store.TenantByID(ctx, id)
	if err != nil || !found {
		return
	}
	now := time.Now().UTC()
	tenant.LastLoginAt = &now
	tenant.UpdatedAt = now
	_ = s.store.UpdateTenant(ctx, tenant)
}

// --- Gifts ---

func (s *Service) CreateGift(ctx context.Context, tenantID string, in GiftInput) (model.Gift, error) {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermManageGifts)
	if err != nil {
		return model.Gift{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Gift{}, apperr.Validation("gift name is required")
	}

	now := time.Now().UTC()
	gift := model.Gift{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Description:    in.Description,
		Value:          in.Value,
		Category:       in.Category,
		ImageURL:       in.ImageURL,
		IsActive:       true,
		CreatedBy:      tenant.ID,
		OrganizationID: tenant.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateGift(ctx, gift); err != nil {
		return model.Gift{}, apperr.Dependency(err, "could not create gift")
	}
	return gift, nil
}

func (s *Service) UpdateGift(ctx context.Context, tenantID, giftID string, in GiftInput) (model.Gift, error) {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermManageGifts)
	if err != nil {
		return model.Gift{}, err
	}

	gift, found, err := s.store.GiftByID(ctx, giftID)
	if err != nil {
		return model.Gift{}, apperr.Dependency(err, "could not load gift %s", giftID)
	}
	if !found {
		return model.Gift{}, apperr.NotFound("gift %s not found", giftID)
	}
	if gift.OrganizationID != tenant.OrganizationID {
		return model.Gift{}, apperr.Permission("cannot modify gifts from another organization")
	}

	if in.Name != "" {
		gift.Name = in.Name
	}
	if in.Description != "" {
		gift.Description = in.Description
	}
	if in.Value != 0 {
		gift.Value = in.Value
	}
	if in.Category != "" {
		gift.Category = in.Category
	}
	if in.ImageURL != "" {
		gift.ImageURL = in.ImageURL
	}
	if in.IsActive != nil {
		gift.IsActive = *in.IsActive
	}
	gift.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateGift(ctx, gift); err != nil {
		return model.Gift{}, apperr.Dependency(err, "could not update gift %s", giftID)
	}
	return gift, nil
}

func (s *Service) DeleteGift(ctx context.Context, tenantID, giftID string) error {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermManageGifts)
	if err != nil {
		return err
	}

	gift, found, err := s.store.GiftByID(ctx, giftID)
	if err != nil {
		return apperr.Dependency(err, "could not load gift %s", giftID)
	}
	if !found {
		return apperr.NotFound("gift %s not found", giftID)
	}
	if gift.OrganizationID != tenant.OrganizationID {
		return apperr.Permission("cannot delete gifts from another organization")
	}

	if err := s.store.DeleteGift(ctx, giftID); err != nil {
		return apperr.Dependency(err, "could not delete gift %s", giftID)
	}
	return nil
}

func (s *Service) GiftsForTenant(ctx context.Context, tenantID string) ([]model.Gift, error) {
	tenant, err := s.ByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	gifts, err := s.store.GiftsByOrganization(ctx, tenant.OrganizationID)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list gifts")
	}
	return gifts, nil
}

// --- Challenges ---

func (s *Service) CreateChallenge(ctx context.Context, tenantID string, in ChallengeInput) (model.Challenge, error) {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermManageChallenges)
	if err != nil {
		return model.Challenge{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.Challenge{}, apperr.Validation("challenge title is required")
	}
	if in.Points < 0 {
		return model.Challenge{}, apperr.Validation("challenge points must be non-negative")
	}

	now := time.Now().UTC()
	ch := model.Challenge{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Type:           in.Type,
		Difficulty:     in.Difficulty,
		Points:         in.Points,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		IsActive:       true,
		Rules:          in.Rules,
		CreatedBy:      tenant.ID,
		OrganizationID: tenant.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateChallenge(ctx, ch); err != nil {
		return model.Challenge{}, apperr.Dependency(err, "could not create challenge")
	}
	return ch, nil
}

func (s *Service) UpdateChallenge(ctx context.Context, tenantID, challengeID string, in ChallengeInput) (model.Challenge, error) {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermManageChallenges)
	if err != nil {
		return model.Challenge{}, err
	}

	ch, found, err := s.store.ChallengeByID(ctx, challengeID)
	if err != nil {
		return model.Challenge{}, apperr.Dependency(err, "could not load challenge %s", challengeID)
	}
	if !found {
		return model.Challenge{}, apperr.NotFound("challenge %s not found", challengeID)
	}
	if ch.OrganizationID != tenant.OrganizationID {
		return model.Challenge{}, apperr.Permission("cannot modify challenges from another organization")
	}

	if in.Title != "" {
		ch.Title = in.Title
	}
	if in.Description != "" {
		ch.Description = in.Description
	}
	if in.Type != "" {
		ch.Type = in.Type
	}
	if in.Difficulty != "" {
		ch.Difficulty = in.Difficulty
	}
	if in.Points > 0 {
		ch.Points = in.Points
	}
	if !in.StartDate.IsZero() {
		ch.StartDate = in.StartDate
	}
	if !in.EndDate.IsZero() {
		ch.EndDate = in.EndDate
	}
	if in.Rules != nil {
		ch.Rules = in.Rules
	}
	if in.IsActive != nil {
		ch.IsActive = *in.IsActive
	}
	ch.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateChallenge(ctx, ch); err != nil {
		return model.Challenge{}, apperr.Dependency(err, "could not update challenge %s", challengeID)
	}
	return ch, nil
}

func (s *Service) DeleteChallenge(ctx context.Context, tenantID, challengeID string) error {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermManageChallenges)
	if err != nil {
		return err
	}

	ch, found, err := s.store.ChallengeByID(ctx, challengeID)
	if err != nil {
		return apperr.Dependency(err, "could not load challenge %s", challengeID)
	}
	if !found {
		return apperr.NotFound("challenge %s not found", challengeID)
	}
	if ch.OrganizationID != tenant.OrganizationID {
		return apperr.Permission("cannot delete challenges from another organization")
	}

	if err := s.store.DeleteChallenge(ctx, challengeID); err != nil {
		return apperr.Dependency(err, "could not delete challenge %s", challengeID)
	}
	return nil
}

func (s *Service) ChallengesForTenant(ctx context.Context, tenantID string) ([]model.Challenge, error) {
	tenant, err := s.ByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	challenges, err := s.store.ChallengesByOrganization(ctx, tenant.OrganizationID)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list challenges")
	}
	return challenges, nil
}

// CompleteChallenge enregistre la complétion confirmée d'un challenge par un
// utilisateur: c'est le signal externe qui rend ses points comptables au classement
func (s *Service) CompleteChallenge(ctx context.Context, userID, challengeID string) (model.UserChallenge, error) {
	ch, found, err := s.store.ChallengeByID(ctx, challengeID)
	if err != nil {
		return model.UserChallenge{}, apperr.Dependency(err, "could not load challenge %s", challengeID)
	}
	if !found {
		return model.UserChallenge{}, apperr.NotFound("challenge %s not found", challengeID)
	}

	now := time.Now().UTC()
	uc := model.UserChallenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		ChallengeID: ch.ID,
		Completed:   true,
		CompletedAt: &now,
		CreatedAt:   now,
	}
	if err := s.store.SaveUserChallenge(ctx, uc); err != nil {
		return model.UserChallenge{}, apperr.Dependency(err, "could not save challenge completion")
	}
	return uc, nil
}

// UserChallenges historique de participation d'un utilisateur
func (s *Service) UserChallenges(ctx context.Context, userID string) ([]model.UserChallenge, error) {
	list, err := s.store.UserChallenges(ctx, userID)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list user challenges")
	}
	if list == nil {
		list = []model.UserChallenge{}
	}
	return list, nil
}

// --- Analytics ---

func (s *Service) Dashboard(ctx context.Context, tenantID string) (DashboardAnalytics, error) {
	tenant, err := s.requirePermission(ctx, tenantID, model.PermViewAnalytics)
	if err != nil {
		return DashboardAnalytics{}, err
	}

	gifts, err := s.store.GiftsByOrganization(ctx, tenant.OrganizationID)
	if err != nil {
		return DashboardAnalytics{}, apperr.Dependency(err, "could not list gifts")
	}
	challenges, err := s.store.ChallengesByOrganization(ctx, tenant.OrganizationID)
	if err != nil {
		return DashboardAnalytics{}, apperr.Dependency(err, "could not list challenges")
	}

	out := DashboardAnalytics{OrganizationID: tenant.OrganizationID}
	out.Stats.TotalGifts = len(gifts)
	out.Stats.TotalChallenges = len(challenges)
	for _, g := range gifts {
		if g.IsActive {
			out.Stats.ActiveGifts++
		}
	}
	for _, c := range challenges {
		if c.IsActive {
			out.Stats.ActiveChallenges++
		}
	}
	out.RecentActivity.Gifts = lastN(gifts, 5)
	out.RecentActivity.Challenges = lastN(challenges, 5)
	return out, nil
}

func (s *Service) requirePermission(ctx context.Context, tenantID string, perm model.TenantPermission) (model.Tenant, error) {
	tenant, err := s.ByID(ctx, tenantID)
	if err != nil {
		return model.Tenant{}, err
	}
	if !model.TenantHasPermission(tenant.Role, perm) {
		return model.Tenant{}, apperr.Permission("insufficient permissions: %s", perm)
	}
	return tenant, nil
}

func mergeSettings(settings *model.TenantSettings, in map[string]interface{}) {
	if v, ok := in["dashboardTheme"].(string); ok {
		settings.DashboardTheme = v
	}
	if v, ok := in["notifications"].(bool); ok {
		settings.Notifications = v
	}
	if v, ok := in["analyticsEnabled"].(bool); ok {
		settings.AnalyticsEnabled = v
	}
	if v, ok := in["realTimeUpdates"].(bool); ok {
		settings.RealTimeUpdates = v
	}
}

func lastN[T any](list []T, n int) []T {
	if len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}
