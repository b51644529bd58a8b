package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/00WhengWheng/T4G-backend/internal/auth"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

// Context keys
type contextKey string

const (
	identityContextKey = contextKey("identity")
	tokenContextKey    = contextKey("token")
)

// Verifier est injecté au démarrage du serveur
var Verifier *auth.TokenVerifier

// AuthMiddleware valide le Bearer token et injecte l'identité dans le contexte
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			utils.ErrorSimple(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		identity := Verifier.Verify(token)
		if identity == nil {
			utils.ErrorSimple(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, *identity)
		ctx = context.WithValue(ctx, tokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth injecte l'identité si un token valide est présent, sans bloquer
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if identity := Verifier.Verify(token); identity != nil {
				ctx := context.WithValue(r.Context(), identityContextKey, *identity)
				ctx = context.WithValue(ctx, tokenContextKey, token)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTenant bloque les identités qui ne sont pas des comptes organisation
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentityFromContext(r)
		if err != nil || identity.Type != auth.AccountTenant {
			utils.ErrorSimple(w, http.StatusForbidden, "tenant account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// GetIdentityFromContext récupère l'identité depuis le contexte de la requête
func GetIdentityFromContext(r *http.Request) (auth.AuthUser, error) {
	identity, ok := r.Context().Value(identityContextKey).(auth.AuthUser)
	if !ok {
		return auth.AuthUser{}, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// GetTokenFromContext récupère le token brut depuis le contexte
func GetTokenFromContext(r *http.Request) (string, error) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	if !ok || token == "" {
		return "", fmt.Errorf("token not found in context")
	}
	return token, nil
}
