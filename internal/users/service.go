// Package users annuaire des utilisateurs finaux. Collaborateur du moteur de
// récompenses (vérification d'existence) et support du CRUD de profil.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

type CreateUserInput struct {
	Email   string         `json:"email"`
	Name    string         `json:"name"`
	Picture string         `json:"picture,omitempty"`
	Auth0ID string         `json:"auth0Id"`
	Role    model.UserRole `json:"role,omitempty"`
}

type UpdateUserInput struct {
	Name        *string                `json:"name,omitempty"`
	Picture     *string                `json:"picture,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
	IsActive    *bool                  `json:"isActive,omitempty"`
}

type Service struct {
	store store.UserStore
}

func NewService(st store.UserStore) *Service {
	return &Service{store: st}
}

// Create crée un utilisateur, conflit si l'auth0Id est déjà enregistré
func (s *Service) Create(ctx context.Context, in CreateUserInput) (model.User, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Auth0ID) == "" {
		return model.User{}, apperr.Validation("email and auth0Id are required")
	}

	_, found, err := s.store.UserByAuth0ID(ctx, in.Auth0ID)
	if err != nil {
		return model.User{}, apperr.Dependency(err, "could not look up user by auth0Id")
	}
	if found {
		return model.User{}, apperr.Conflict("user already exists")
	}
	_, found, err = s.store.UserByEmail(ctx, in.Email)
	if err != nil {
		return model.User{}, apperr.Dependency(err, "could not look up user by email")
	}
	if found {
		return model.User{}, apperr.Conflict("email %s is already registered", in.Email)
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}

	now := time.Now().UTC()
	user := model.User{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Name:     in.Name,
		Picture:  in.Picture,
		Role:     role,
		Auth0ID:  in.Auth0ID,
		IsActive: true,
		Preferences: model.UserPreferences{
			Notifications: true,
			Theme:         "light",
			Language:      "en",
			EmailUpdates:  true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return model.User{}, apperr.Dependency(err, "could not create user")
	}
	return user, nil
}

func (s *Service) ByID(ctx context.Context, id string) (model.User, error) {
	user, found, err := s.store.UserByID(ctx, id)
	if err != nil {
		return model.User{}, apperr.Dependency(err, "could not load user %s", id)
	}
	if !found {
		return model.User{}, apperr.NotFound("user %s not found", id)
	}
	return user, nil
}

func (s *Service) ByAuth0ID(ctx context.Context, auth0ID string) (model.User, error) {
	user, found, err := s.store.UserByAuth0ID(ctx, auth0ID)
	if err != nil {
		return model.User{}, apperr.Dependency(err, "could not look up user by auth0Id")
	}
	if !found {
		return model.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

// Exists satisfait le contrat d'annuaire du moteur de récompenses.
// Un utilisateur désactivé reste connu de l'annuaire.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, found, err := s.store.UserByID(ctx, id)
	if err != nil {
		return false, err
	}
	return found, nil
}

// Update applique une mise à jour partielle, avec fusion des préférences
func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (model.User, error) {
	user, err := s.ByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Picture != nil {
		user.Picture = *in.Picture
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Preferences != nil {
		mergePreferences(&user.Preferences, in.Preferences)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return model.User{}, apperr.Dependency(err, "could not update user %s", id)
	}
	return user, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (model.User, error) {
	inactive := false
	return s.Update(ctx, id, UpdateUserInput{IsActive: &inactive})
}

func (s *Service) Activate(ctx context.Context, id string) (model.User, error) {
	active := true
	return s.Update(ctx, id, UpdateUserInput{IsActive: &active})
}

func (s *Service) List(ctx context.Context) ([]model.User, error) {
	list, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Dependency(err, "could not list users")
	}
	if list == nil {
		list = []model.User{}
	}
	return list, nil
}

// TouchLogin tamponne la dernière connexion, silencieux si l'utilisateur manque
func (s *Service) TouchLogin(ctx context.Context, id string) {
	user, found, err := s.store.UserByID(ctx, id)
	if err != nil || !found {
		return
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	_ = s.store.UpdateUser(ctx, user)
}

func mergePreferences(prefs *model.UserPreferences, in map[string]interface{}) {
	if v, ok := in["notifications"].(bool); ok {
		prefs.Notifications = v
	}
	if v, ok := in["theme"].(string); ok {
		prefs.Theme = v
	}
	if v, ok := in["language"].(string); ok {
		prefs.Language = v
	}
	if v, ok := in["emailUpdates"].(bool); ok {
		prefs.EmailUpdates = v
	}
}
