package utils

import (
	"encoding/json"
	"net/http"

	"github.com/00WhengWheng/T4G-backend/internal/apperr"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// Created répond 201 avec un message et des champs additionnels fusionnés
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, status int, err string) {
	LogError("[%d] %s", status, err)
	JSON(w, status, APIResponse{Success: false, Error: err})
}

func ErrorSimple(w http.ResponseWriter, status int, err string) {
	JSON(w, status, APIResponse{Success: false, Error: err})
}

// Fail mappe une erreur métier sur le bon code HTTP
func Fail(w http.ResponseWriter, err error) {
	Error(w, apperr.HTTPStatus(err), err.Error())
}

func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Message: msg})
}
