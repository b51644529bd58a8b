package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
	model "github.com/00WhengWheng/T4G-backend/internal/models"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

type logActionRequest struct {
	UserID   string                 `json:"userId"`
	Type     string                 `json:"type"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// LogAction enregistre une action utilisateur et crédite les coins
func LogAction(w http.ResponseWriter, r *http.Request) {
	var req logActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coins, err := Rewards.LogAction(r.Context(), req.UserID, model.ActionType(req.Type), req.Metadata)
	if err != nil {
		utils.Fail(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "action logged",
		"coinsAwarded": coins,
	})
}

// GetUserSummary résumé complet des récompenses d'un utilisateur
func GetUserSummary(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	summary, err := Rewards.Summary(r.Context(), userID)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, summary)
}

// GetUserEligibility progression gift/challenge de l'utilisateur
func GetUserEligibility(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if strings.TrimSpace(userID) == "" {
		utils.Error(w, http.StatusBadRequest, "userId is required")
		return
	}

	status, err := Rewards.Eligibility.Status(r.Context(), userID)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, status)
}

// GetUserScore score et position d'un utilisateur au classement
func GetUserScore(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if strings.TrimSpace(userID) == "" {
		utils.Error(w, http.StatusBadRequest, "userId is required")
		return
	}

	score, err := Rewards.Leaderboard.ScoreOf(r.Context(), userID)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, score)
}

// GetLeaderboard classement général paginé
func GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit < 1 || limit > 100 {
		utils.Error(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		utils.Error(w, http.StatusBadRequest, "offset must be non-negative")
		return
	}

	entries, err := Rewards.Leaderboard.Get(r.Context(), limit, offset)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, entries)
}

// GetLeaderboardContext fenêtre du classement autour d'un utilisateur
func GetLeaderboardContext(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	rng, err := queryInt(r, "range", 5)
	if err != nil || rng < 1 || rng > 20 {
		utils.Error(w, http.StatusBadRequest, "range must be between 1 and 20")
		return
	}

	entries, err := Rewards.Leaderboard.Around(r.Context(), userID, rng)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, entries)
}

// GetGiftEligibleUsers utilisateurs éligibles aux cadeaux ce mois-ci
func GetGiftEligibleUsers(w http.ResponseWriter, r *http.Request) {
	userIDs, err := Rewards.Eligibility.GiftEligibleUsers(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, map[string]interface{}{
		"eligibleUsers": userIDs,
		"count":         len(userIDs),
	})
}

// GetChallengeEligibleUsers utilisateurs éligibles aux challenges cette semaine
func GetChallengeEligibleUsers(w http.ResponseWriter, r *http.Request) {
	userIDs, err := Rewards.Eligibility.ChallengeEligibleUsers(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, map[string]interface{}{
		"eligibleUsers": userIDs,
		"count":         len(userIDs),
	})
}

// GetActionLeaderboard top des utilisateurs pour un type d'action donné
func GetActionLeaderboard(w http.ResponseWriter, r *http.Request) {
	actionType := model.ActionType(mux.Vars(r)["actionType"])
	if !model.ValidActionType(string(actionType)) {
		utils.Error(w, http.StatusBadRequest, "invalid action type")
		return
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit < 1 || limit > 50 {
		utils.Error(w, http.StatusBadRequest, "limit must be between 1 and 50")
		return
	}

	entries, err := Rewards.Leaderboard.TopByAction(r.Context(), actionType, limit)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, entries)
}

// GetLeaderboardStats statistiques globales du classement
func GetLeaderboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := Rewards.Leaderboard.Stats(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, stats)
}

// ResetWeekly remet à zéro les compteurs hebdomadaires (challenges)
func ResetWeekly(w http.ResponseWriter, r *http.Request) {
	if err := Rewards.Eligibility.ResetWeekly(r.Context()); err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Message(w, "weekly counters reset")
}

// ResetMonthly remet à zéro les compteurs mensuels (gifts)
func ResetMonthly(w http.ResponseWriter, r *http.Request) {
	if err := Rewards.Eligibility.ResetMonthly(r.Context()); err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Message(w, "monthly counters reset")
}

// queryInt lit un paramètre entier avec valeur par défaut
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return value, nil
}
