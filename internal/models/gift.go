package model

import (
	"time"
)

// Gift cadeau débloquable par les utilisateurs éligibles
type Gift struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Value          float64   `json:"value"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedBy      string    `json:"createdBy"`
	OrganizationID string    `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
