// Package auth délègue l'authentification à Auth0. Deux domaines distincts:
// un pour les utilisateurs finaux, un pour les organisations (tenants).
package auth

import (
	"net/url"

	model "github.com/00WhengWheng/T4G-backend/internal/models"
)

// AccountType distingue les deux populations Auth0
type AccountType string

const (
	AccountUser   AccountType = "user"
	AccountTenant AccountType = "tenant"
)

// Auth0Config paires domaine/client pour chaque population
type Auth0Config struct {
	UserDomain        string
	UserClientID      string
	UserClientSecret  string
	TenantDomain      string
	TenantClientID    string
	TenantClientSecret string
	CallbackURLUser   string
	CallbackURLTenant string
	FrontendURLUser   string
	FrontendURLTenant string
	SessionSecret     string
}

// AuthUser identité minimale extraite d'une session Auth0
type AuthUser struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Picture      string      `json:"picture,omitempty"`
	Type         AccountType `json:"type"`
	Domain       string      `json:"domain"`
	AccessToken  string      `json:"-"`
	RefreshToken string      `json:"-"`
}

type Auth0Service struct {
	config Auth0Config
}

func NewAuth0Service(cfg Auth0Config) *Auth0Service {
	return &Auth0Service{config: cfg}
}

// LoginURL construit l'URL /authorize du domaine correspondant au type de compte.
// returnTo est transporté dans le paramètre state s'il est fourni.
func (s *Auth0Service) LoginURL(accountType AccountType, returnTo string) string {
	domain := s.config.UserDomain
	clientID := s.config.UserClientID
	callback := s.config.CallbackURLUser
	if accountType == AccountTenant {
		domain = s.config.TenantDomain
		clientID = s.config.TenantClientID
		callback = s.config.CallbackURLTenant
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", clientID)
	params.Set("redirect_uri", callback)
	params.Set("scope", "openid profile email")
	if returnTo != "" {
		params.Set("state", returnTo)
	}

	return "https://" + domain + "/authorize?" + params.Encode()
}

// LogoutURL construit l'URL /v2/logout qui ramène vers le frontend du bon monde
func (s *Auth0Service) LogoutURL(accountType AccountType) string {
	domain := s.config.UserDomain
	clientID := s.config.UserClientID
	returnTo := s.config.FrontendURLUser
	if accountType == AccountTenant {
		domain = s.config.TenantDomain
		clientID = s.config.TenantClientID
		returnTo = s.config.FrontendURLTenant
	}

	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("returnTo", returnTo)

	return "https://" + domain + "/v2/logout?" + params.Encode()
}

// RedirectURL URL frontend post-login, annotée du résultat
func (s *Auth0Service) RedirectURL(user AuthUser, returnTo string) string {
	frontend := s.config.FrontendURLUser
	if user.Type == AccountTenant {
		frontend = s.config.FrontendURLTenant
	}
	if returnTo != "" {
		frontend = returnTo
	}

	params := url.Values{}
	params.Set("auth", "success")
	params.Set("type", string(user.Type))

	return frontend + "?" + params.Encode()
}

// ValidateUser normalise un profil brut; retourne nil si id ou email manquent
func (s *Auth0Service) ValidateUser(raw map[string]interface{}) *AuthUser {
	id, _ := raw["id"].(string)
	email, _ := raw["email"].(string)
	if id == "" || email == "" {
		return nil
	}

	user := AuthUser{
		ID:     id,
		Email:  email,
		Name:   email,
		Type:   AccountUser,
		Domain: "t4g.fun",
	}
	if name, ok := raw["name"].(string); ok && name != "" {
		user.Name = name
	}
	if picture, ok := raw["picture"].(string); ok {
		user.Picture = picture
	}
	if typ, ok := raw["type"].(string); ok && typ != "" {
		user.Type = AccountType(typ)
	}
	if domain, ok := raw["domain"].(string); ok && domain != "" {
		user.Domain = domain
	}
	if token, ok := raw["accessToken"].(string); ok {
		user.AccessToken = token
	}
	if token, ok := raw["refreshToken"].(string); ok {
		user.RefreshToken = token
	}
	return &user
}

// Permissions expose les capacités associées au rôle d'un tenant
func Permissions(role model.TenantRole) []model.TenantPermission {
	return model.TenantRolePermissions(role)
}
