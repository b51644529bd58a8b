package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/00WhengWheng/T4G-backend/internal/auth"
	"github.com/00WhengWheng/T4G-backend/internal/middleware"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

// Login redirige vers la page Auth0 du bon domaine (user ou tenant)
func Login(w http.ResponseWriter, r *http.Request) {
	accountType, ok := accountTypeFromPath(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "type must be user or tenant")
		return
	}

	returnTo := r.URL.Query().Get("returnTo")
	http.Redirect(w, r, Auth0.LoginURL(accountType, returnTo), http.StatusFound)
}

// Logout redirige vers le logout Auth0 du bon domaine
func Logout(w http.ResponseWriter, r *http.Request) {
	accountType, ok := accountTypeFromPath(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "type must be user or tenant")
		return
	}

	http.Redirect(w, r, Auth0.LogoutURL(accountType), http.StatusFound)
}

// Profile retourne l'identité portée par le token de session
func Profile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentityFromContext(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if identity.Type == auth.AccountTenant {
		tenant, err := Tenants.ByAuth0ID(r.Context(), identity.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		Tenants.TouchLogin(r.Context(), tenant.ID)
		utils.Success(w, tenant)
		return
	}

	user, err := Users.ByAuth0ID(r.Context(), identity.ID)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	Users.TouchLogin(r.Context(), user.ID)
	utils.Success(w, user)
}

func accountTypeFromPath(r *http.Request) (auth.AccountType, bool) {
	switch mux.Vars(r)["type"] {
	case "user":
		return auth.AccountUser, true
	case "tenant":
		return auth.AccountTenant, true
	default:
		return "", false
	}
}
