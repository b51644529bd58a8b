package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/store"
)

func TestCreateUserDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	user, err := svc.Create(ctx, CreateUserInput{
		Email:   "marco@t4g.fun",
		Name:    "Marco",
		Auth0ID: "auth0|abc123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, model.RoleUser, user.Role)
	require.True(t, user.IsActive)
	require.True(t, user.Preferences.Notifications)
	require.Equal(t, "light", user.Preferences.Theme)
	require.Equal(t, "en", user.Preferences.Language)
}

func TestCreateUserConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	_, err := svc.Create(ctx, CreateUserInput{Email: "a@t4g.fun", Auth0ID: "auth0|dup"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserInput{Email: "b@t4g.fun", Auth0ID: "auth0|dup"})
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// Même email, autre auth0Id
	_, err = svc.Create(ctx, CreateUserInput{Email: "a@t4g.fun", Auth0ID: "auth0|new"})
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(store.NewMemory())

	_, err := svc.Create(context.Background(), CreateUserInput{Email: "a@t4g.fun"})
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.Create(context.Background(), CreateUserInput{Auth0ID: "auth0|x"})
	require.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	user, err := svc.Create(ctx, CreateUserInput{Email: "a@t4g.fun", Name: "Before", Auth0ID: "auth0|x"})
	require.NoError(t, err)

	name := "After"
	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{
		Name:        &name,
		Preferences: map[string]interface{}{"theme": "dark"},
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Equal(t, "dark", updated.Preferences.Theme)
	// Les préférences non mentionnées restent inchangées
	require.Equal(t, "en", updated.Preferences.Language)
	require.Equal(t, user.Email, updated.Email)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := NewService(store.NewMemory())

	name := "x"
	_, err := svc.Update(context.Background(), "nope", UpdateUserInput{Name: &name})
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestDeactivateAndExists(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	user, err := svc.Create(ctx, CreateUserInput{Email: "a@t4g.fun", Auth0ID: "auth0|x"})
	require.NoError(t, err)

	exists, err := svc.Exists(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, exists)

	got, err := svc.Deactivate(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	exists, err = svc.Exists(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestByAuth0ID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	created, err := svc.Create(ctx, CreateUserInput{Email: "a@t4g.fun", Auth0ID: "auth0|lookup"})
	require.NoError(t, err)

	got, err := svc.ByAuth0ID(ctx, "auth0|lookup")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.ByAuth0ID(ctx, "auth0|missing")
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
