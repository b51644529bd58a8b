package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims contenu signé attendu dans les tokens de session
type Claims struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// TokenVerifier vérifie les tokens HS256 émis après le callback Auth0
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify retourne l'identité portée par le token, ou nil si invalide
func (v *TokenVerifier) Verify(tokenString string) *AuthUser {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil
	}

	accountType := AccountUser
	if claims.Type == string(AccountTenant) {
		accountType = AccountTenant
	}

	return &AuthUser{
		ID:    claims.Subject,
		Email: claims.Email,
		Type:  accountType,
	}
}

// Issue signe un token de session pour l'identité donnée
func (v *TokenVerifier) Issue(user AuthUser, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = user.ID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:            user.Email,
		Type:             string(user.Type),
		RegisteredClaims: claims,
	})
	return token.SignedString(v.secret)
}
