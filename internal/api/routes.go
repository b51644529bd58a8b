package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"

	"github.com/00WhengWheng/T4G-backend/internal/handler"
	"github.com/00WhengWheng/T4G-backend/internal/middleware"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

func SetupRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)

	tenantRoutes := r.PathPrefix("/tenants").Subrouter()
	tenantRoutes.Use(middleware.AuthMiddleware)
	tenantRoutes.Use(middleware.RequireTenant)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Auth (délégué à Auth0, type = user | tenant)
	r.HandleFunc("/auth/login/{type}", handler.Login).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout/{type}", handler.Logout).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/auth/profile", handler.Profile).Methods(http.MethodGet)

	// Rewards - actions
	r.HandleFunc("/rewards/actions", handler.LogAction).Methods(http.MethodPost)

	// Rewards - lectures par utilisateur
	r.HandleFunc("/rewards/users/{userId}/summary", handler.GetUserSummary).Methods(http.MethodGet)
	r.HandleFunc("/rewards/users/{userId}/eligibility", handler.GetUserEligibility).Methods(http.MethodGet)
	r.HandleFunc("/rewards/users/{userId}/score", handler.GetUserScore).Methods(http.MethodGet)

	// Rewards - classement
	r.HandleFunc("/rewards/leaderboard", handler.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/rewards/leaderboard/stats", handler.GetLeaderboardStats).Methods(http.MethodGet)
	r.HandleFunc("/rewards/leaderboard/users/{userId}/context", handler.GetLeaderboardContext).Methods(http.MethodGet)
	r.HandleFunc("/rewards/leaderboard/actions/{actionType}", handler.GetActionLeaderboard).Methods(http.MethodGet)

	// Rewards - éligibilité
	r.HandleFunc("/rewards/eligibility/gifts", handler.GetGiftEligibleUsers).Methods(http.MethodGet)
	r.HandleFunc("/rewards/eligibility/challenges", handler.GetChallengeEligibleUsers).Methods(http.MethodGet)

	// Rewards - administration (resets de fenêtres, appelés par le scheduler)
	r.HandleFunc("/rewards/admin/reset/weekly", handler.ResetWeekly).Methods(http.MethodPost)
	r.HandleFunc("/rewards/admin/reset/monthly", handler.ResetMonthly).Methods(http.MethodPost)

	// Rewards - health check
	r.HandleFunc("/rewards/health", handler.HealthCheck).Methods(http.MethodGet)

	// Users
	r.HandleFunc("/users", handler.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users", handler.GetUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", handler.GetUser).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/users/{id}", handler.UpdateUser).Methods(http.MethodPut, http.MethodPatch)
	authenticatedRoutes.HandleFunc("/users/{id}", handler.DeactivateUser).Methods(http.MethodDelete)
	authenticatedRoutes.HandleFunc("/users/{id}/picture", handler.UploadProfilePicture).Methods(http.MethodPost)

	// Tenants
	r.HandleFunc("/tenants", handler.CreateTenant).Methods(http.MethodPost)
	tenantRoutes.HandleFunc("/{id}", handler.GetTenant).Methods(http.MethodGet)
	tenantRoutes.HandleFunc("/{id}", handler.UpdateTenant).Methods(http.MethodPut, http.MethodPatch)

	// Tenant gifts
	tenantRoutes.HandleFunc("/{id}/gifts", handler.GetTenantGifts).Methods(http.MethodGet)
	tenantRoutes.HandleFunc("/{id}/gifts", handler.CreateGift).Methods(http.MethodPost)
	tenantRoutes.HandleFunc("/{id}/gifts/{giftId}", handler.UpdateGift).Methods(http.MethodPut)
	tenantRoutes.HandleFunc("/{id}/gifts/{giftId}", handler.DeleteGift).Methods(http.MethodDelete)

	// Tenant challenges
	tenantRoutes.HandleFunc("/{id}/challenges", handler.GetTenantChallenges).Methods(http.MethodGet)
	tenantRoutes.HandleFunc("/{id}/challenges", handler.CreateChallenge).Methods(http.MethodPost)
	tenantRoutes.HandleFunc("/{id}/challenges/{challengeId}", handler.UpdateChallenge).Methods(http.MethodPut)
	tenantRoutes.HandleFunc("/{id}/challenges/{challengeId}", handler.DeleteChallenge).Methods(http.MethodDelete)

	// Participation aux challenges côté utilisateur
	authenticatedRoutes.HandleFunc("/tenants/challenges/{challengeId}/complete/{userId}", handler.CompleteChallenge).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/tenants/challenges/users/{userId}", handler.GetUserChallenges).Methods(http.MethodGet)

	// Tenant analytics
	tenantRoutes.HandleFunc("/{id}/analytics", handler.GetTenantDashboard).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
