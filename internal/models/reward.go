package model

import (
	"time"
)

// ActionType énumère les actions récompensées
type ActionType string

const (
	ActionScan  ActionType = "SCAN"
	ActionShare ActionType = "SHARE"
	ActionGame  ActionType = "GAME"
)

// ValidActionType vérifie qu'un type d'action fait partie de l'énumération
func ValidActionType(t string) bool {
	switch ActionType(t) {
	case ActionScan, ActionShare, ActionGame:
		return true
	}
	return false
}

// UserAction est un événement immuable du ledger d'actions
type UserAction struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Type      ActionType             `json:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// CoinBalance solde de coins d'un utilisateur (1 coin par action)
type CoinBalance struct {
	UserID      string    `json:"userId"`
	TotalCoins  int       `json:"totalCoins"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// UserEligibility compteurs d'éligibilité par fenêtre glissante
type UserEligibility struct {
	UserID            string    `json:"userId"`
	MonthlyScans      int       `json:"monthlyScans"`
	MonthlyShares     int       `json:"monthlyShares"`
	MonthlyGames      int       `json:"monthlyGames"`
	WeeklyScans       int       `json:"weeklyScans"`
	WeeklyShares      int       `json:"weeklyShares"`
	WeeklyGames       int       `json:"weeklyGames"`
	GiftEligible      bool      `json:"giftEligible"`
	ChallengeEligible bool      `json:"challengeEligible"`
	LastResetMonth    time.Time `json:"lastResetMonth"`
	LastResetWeek     time.Time `json:"lastResetWeek"`
}

// WindowProgress progression vers les seuils d'une fenêtre
type WindowProgress struct {
	Scans          int `json:"scans"`
	Shares         int `json:"shares"`
	Games          int `json:"games"`
	RequiredScans  int `json:"requiredScans"`
	RequiredShares int `json:"requiredShares"`
	RequiredGames  int `json:"requiredGames"`
}

type EligibilityStatus struct {
	GiftEligible      bool           `json:"giftEligible"`
	ChallengeEligible bool           `json:"challengeEligible"`
	MonthlyProgress   WindowProgress `json:"monthlyProgress"`
	WeeklyProgress    WindowProgress `json:"weeklyProgress"`
}

// LeaderboardEntry position d'un utilisateur dans le classement.
// Position est dérivée du score, jamais une vérité indépendante.
type LeaderboardEntry struct {
	UserID      string    `json:"userId"`
	TotalScore  int       `json:"totalScore"`
	Position    int       `json:"position"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ActionLeaderboardEntry classement par nombre d'actions d'un type donné
type ActionLeaderboardEntry struct {
	UserID      string     `json:"userId"`
	ActionType  ActionType `json:"actionType"`
	ActionCount int        `json:"actionCount"`
	Position    int        `json:"position"`
}

type LeaderboardStats struct {
	TotalUsers   int     `json:"totalUsers"`
	AverageScore float64 `json:"averageScore"`
	TopScore     int     `json:"topScore"`
}

// UserScore score et position d'un utilisateur (position nil = pas encore classé)
type UserScore struct {
	TotalScore int  `json:"totalScore"`
	Position   *int `json:"position"`
}

// UserRewardSummary agrégat lecture seule des quatre sous-composants
type UserRewardSummary struct {
	UserID            string            `json:"userId"`
	TotalCoins        int               `json:"totalCoins"`
	TotalScore        int               `json:"totalScore"`
	Position          *int              `json:"position"`
	EligibilityStatus EligibilityStatus `json:"eligibilityStatus"`
	RecentActions     []UserAction      `json:"recentActions"`
}
