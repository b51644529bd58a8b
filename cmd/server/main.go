package main

import (
	"net/http"
	"os"

	"github.com/00WhengWheng/T4G-backend/internal/api"
	"github.com/00WhengWheng/T4G-backend/internal/auth"
	"github.com/00WhengWheng/T4G-backend/internal/config"
	"github.com/00WhengWheng/T4G-backend/internal/database"
	"github.com/00WhengWheng/T4G-backend/internal/handler"
	"github.com/00WhengWheng/T4G-backend/internal/logger"
	"github.com/00WhengWheng/T4G-backend/internal/middleware"
	"github.com/00WhengWheng/T4G-backend/internal/rewards"
	"github.com/00WhengWheng/T4G-backend/internal/services"
	"github.com/00WhengWheng/T4G-backend/internal/store"
	"github.com/00WhengWheng/T4G-backend/internal/tenants"
	"github.com/00WhengWheng/T4G-backend/internal/users"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	st := store.NewPostgres(db)

	// Services
	userService := users.NewService(st)
	tenantService := tenants.NewService(st)
	orchestrator := rewards.New(st, userService, rewards.Options{
		CoinsPerAction:              cfg.CoinsPerAction,
		CountPendingChallengePoints: cfg.CountPendingChallengePoints,
	})
	auth0 := auth.NewAuth0Service(cfg.Auth0)

	// Cloudinary est optionnel (upload de photos désactivé sans configuration)
	if cloudinary, err := services.NewCloudinaryService(cfg.CloudinaryURL); err == nil {
		handler.Cloudinary = cloudinary
	} else {
		logger.Warning("Cloudinary disabled: %v", err)
	}

	middleware.Verifier = auth.NewTokenVerifier(cfg.Auth0.SessionSecret)
	handler.Init(orchestrator, userService, tenantService, auth0)

	// Initialize routes
	router := api.SetupRouter()

	// Wrap router with CORS middleware
	h := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, h); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
