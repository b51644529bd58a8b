package model

import (
	"time"
)

type ChallengeType string

const (
	ChallengeDaily   ChallengeType = "daily"
	ChallengeWeekly  ChallengeType = "weekly"
	ChallengeMonthly ChallengeType = "monthly"
	ChallengeSpecial ChallengeType = "special"
)

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "easy"
	DifficultyMedium ChallengeDifficulty = "medium"
	DifficultyHard   ChallengeDifficulty = "hard"
)

// Challenge défi organisé par un tenant, rapporte des points bonus au classement
type Challenge struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Type           ChallengeType       `json:"type"`
	Difficulty     ChallengeDifficulty `json:"difficulty"`
	Points         int                 `json:"points"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	IsActive       bool                `json:"isActive"`
	Rules          []string            `json:"rules,omitempty"`
	CreatedBy      string              `json:"createdBy"`
	OrganizationID string              `json:"organizationId"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// UserChallenge participation d'un utilisateur à un challenge.
// Les points du challenge ne comptent au classement qu'une fois CompletedAt renseigné.
type UserChallenge struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	ChallengeID string     `json:"challengeId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
