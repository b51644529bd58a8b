package handler

import (
	"net/http"
	"time"

	"github.com/00WhengWheng/T4G-backend/internal/auth"
	"github.com/00WhengWheng/T4G-backend/internal/rewards"
	"github.com/00WhengWheng/T4G-backend/internal/tenants"
	"github.com/00WhengWheng/T4G-backend/internal/users"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

// Services injectés au démarrage par Init
var (
	Rewards *rewards.Orchestrator
	Users   *users.Service
	Tenants *tenants.Service
	Auth0   *auth.Auth0Service
)

func Init(orchestrator *rewards.Orchestrator, userService *users.Service, tenantService *tenants.Service, auth0 *auth.Auth0Service) {
	Rewards = orchestrator
	Users = userService
	Tenants = tenantService
	Auth0 = auth0
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
