package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/00WhengWheng/T4G-backend/internal/services"
	"github.com/00WhengWheng/T4G-backend/internal/users"
	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

// Cloudinary est optionnel: nil désactive l'upload de photos
var Cloudinary *services.CloudinaryService

// CreateUser crée un utilisateur (appelé après le premier login Auth0)
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var input users.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := Users.Create(r.Context(), input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: user})
}

// GetUsers liste tous les utilisateurs
func GetUsers(w http.ResponseWriter, r *http.Request) {
	list, err := Users.List(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, list)
}

// GetUser récupère un utilisateur par ID
func GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := Users.ByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, user)
}

// UpdateUser met à jour le profil (mise à jour partielle)
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	var input users.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := Users.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, user)
}

// DeactivateUser désactive un compte (soft delete)
func DeactivateUser(w http.ResponseWriter, r *http.Request) {
	if _, err := Users.Deactivate(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Message(w, "user deactivated")
}

// UploadProfilePicture upload la photo de profil vers Cloudinary
func UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	if Cloudinary == nil {
		utils.Error(w, http.StatusServiceUnavailable, "image upload is not configured")
		return
	}

	userID := mux.Vars(r)["id"]
	if _, err := Users.ByID(r.Context(), userID); err != nil {
		utils.Fail(w, err)
		return
	}

	// 5 MB max
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.Error(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}

	file, _, err := r.FormFile("picture")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "picture file is required")
		return
	}
	defer file.Close()

	url, err := Cloudinary.UploadProfilePicture(r.Context(), file, userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not upload picture")
		return
	}

	user, err := Users.Update(r.Context(), userID, users.UpdateUserInput{Picture: &url})
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.Success(w, user)
}
