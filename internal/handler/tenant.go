package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/00WhengWheng/T4G-backend/internal/tenants"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

// CreateTenant enregistre un compte organisation
func CreateTenant(w http.ResponseWriter, r *http.Request) {
	var input tenants.CreateTenantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := Tenants.Create(r.Context(), input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: tenant})
}

// GetTenant récupère un tenant par ID
func GetTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := Tenants.ByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, tenant)
}

// UpdateTenant met à jour le profil d'un tenant
func UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var input tenants.UpdateTenantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := Tenants.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, tenant)
}

// --- Gifts ---

// GetTenantGifts liste les cadeaux de l'organisation du tenant
func GetTenantGifts(w http.ResponseWriter, r *http.Request) {
	gifts, err := Tenants.GiftsForTenant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, gifts)
}

// CreateGift crée un cadeau pour l'organisation du tenant
func CreateGift(w http.ResponseWriter, r *http.Request) {
	var input tenants.GiftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gift, err := Tenants.CreateGift(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: gift})
}

// UpdateGift met à jour un cadeau de l'organisation
func UpdateGift(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var input tenants.GiftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	gift, err := Tenants.UpdateGift(r.Context(), vars["id"], vars["giftId"], input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, gift)
}

// DeleteGift supprime un cadeau de l'organisation
func DeleteGift(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := Tenants.DeleteGift(r.Context(), vars["id"], vars["giftId"]); err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Message(w, "gift deleted")
}

// --- Challenges ---

// GetTenantChallenges liste les challenges de l'organisation du tenant
func GetTenantChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := Tenants.ChallengesForTenant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, challenges)
}

// CreateChallenge crée un challenge pour l'organisation du tenant
func CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var input tenants.ChallengeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	challenge, err := Tenants.CreateChallenge(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: challenge})
}

// UpdateChallenge met à jour un challenge de l'organisation
func UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var input tenants.ChallengeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	challenge, err := Tenants.UpdateChallenge(r.Context(), vars["id"], vars["challengeId"], input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, challenge)
}

// DeleteChallenge supprime un challenge de l'organisation
func DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := Tenants.DeleteChallenge(r.Context(), vars["id"], vars["challengeId"]); err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Message(w, "challenge deleted")
}

// CompleteChallenge enregistre la complétion d'un challenge par un utilisateur
// puis recalcule son score au classement
func CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	completion, err := Tenants.CompleteChallenge(r.Context(), vars["userId"], vars["challengeId"])
	if err != nil {
		utils.Fail(w, err)
		return
	}

	if err := Rewards.Leaderboard.UpdateScore(r.Context(), vars["userId"]); err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, completion)
}

// GetUserChallenges historique de participation d'un utilisateur
func GetUserChallenges(w http.ResponseWriter, r *http.Request) {
	list, err := Tenants.UserChallenges(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, list)
}

// GetTenantDashboard statistiques du tableau de bord de l'organisation
func GetTenantDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := Tenants.Dashboard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, dashboard)
}
