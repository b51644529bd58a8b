package auth

import (
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testConfig() Auth0Config {
	return Auth0Config{
		UserDomain:        "users.eu.auth0.com",
		UserClientID:      "user-client",
		TenantDomain:      "tenants.eu.auth0.com",
		TenantClientID:    "tenant-client",
		CallbackURLUser:   "http://localhost:3000/api/auth/callback/user",
		CallbackURLTenant: "http://localhost:3000/api/auth/callback/tenant",
		FrontendURLUser:   "https://t4g.fun",
		FrontendURLTenant: "https://t4g.space",
		SessionSecret:     "secret",
	}
}

func TestLoginURLPerAccountType(t *testing.T) {
	svc := NewAuth0Service(testConfig())

	loginURL := svc.LoginURL(AccountUser, "")
	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	require.Equal(t, "users.eu.auth0.com", parsed.Host)
	require.Equal(t, "/authorize", parsed.Path)
	require.Equal(t, "user-client", parsed.Query().Get("client_id"))
	require.Equal(t, "code", parsed.Query().Get("response_type"))
	require.Equal(t, "openid profile email", parsed.Query().Get("scope"))
	require.Empty(t, parsed.Query().Get("state"))

	loginURL = svc.LoginURL(AccountTenant, "/dashboard")
	parsed, err = url.Parse(loginURL)
	require.NoError(t, err)
	require.Equal(t, "tenants.eu.auth0.com", parsed.Host)
	require.Equal(t, "tenant-client", parsed.Query().Get("client_id"))
	require.Equal(t, "/dashboard", parsed.Query().Get("state"))
}

func TestLogoutURL(t *testing.T) {
	svc := NewAuth0Service(testConfig())

	parsed, err := url.Parse(svc.LogoutURL(AccountTenant))
	require.NoError(t, err)
	require.Equal(t, "tenants.eu.auth0.com", parsed.Host)
	require.Equal(t, "/v2/logout", parsed.Path)
	require.Equal(t, "https://t4g.space", parsed.Query().Get("returnTo"))
}

func TestRedirectURL(t *testing.T) {
	svc := NewAuth0Service(testConfig())

	got := svc.RedirectURL(AuthUser{Type: AccountUser}, "")
	parsed, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, "t4g.fun", parsed.Host)
	require.Equal(t, "success", parsed.Query().Get("auth"))
	require.Equal(t, "user", parsed.Query().Get("type"))
}

func TestValidateUser(t *testing.T) {
	svc := NewAuth0Service(testConfig())

	require.Nil(t, svc.ValidateUser(map[string]interface{}{"email": "a@t4g.fun"}))
	require.Nil(t, svc.ValidateUser(map[string]interface{}{"id": "auth0|x"}))

	user := svc.ValidateUser(map[string]interface{}{"id": "auth0|x", "email": "a@t4g.fun"})
	require.NotNil(t, user)
	require.Equal(t, "a@t4g.fun", user.Name) // repli du nom sur l'email
	require.Equal(t, AccountUser, user.Type)
}

func TestTokenRoundTrip(t *testing.T) {
	verifier := NewTokenVerifier("secret")

	token, err := verifier.Issue(AuthUser{ID: "auth0|x", Email: "a@t4g.fun", Type: AccountTenant}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	identity := verifier.Verify(token)
	require.NotNil(t, identity)
	require.Equal(t, "auth0|x", identity.ID)
	require.Equal(t, "a@t4g.fun", identity.Email)
	require.Equal(t, AccountTenant, identity.Type)

	// Mauvais secret ou token vide → nil
	require.Nil(t, NewTokenVerifier("other").Verify(token))
	require.Nil(t, verifier.Verify(""))

	expired, err := verifier.Issue(AuthUser{ID: "auth0|x"}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	require.NoError(t, err)
	require.Nil(t, verifier.Verify(expired))
}
