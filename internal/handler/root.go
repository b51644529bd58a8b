package handler

import (
	"net/http"

	"github.com/00WhengWheng/T4G-backend/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "T4G API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "GET", "path": "/auth/login/{type}", "description": "Redirection vers Auth0 (type: user ou tenant)"},
				{"method": "GET", "path": "/auth/logout/{type}", "description": "Déconnexion Auth0"},
				{"method": "GET", "path": "/auth/profile", "description": "Profil de l'identité authentifiée"},
			},
			"rewards": []map[string]string{
				{"method": "POST", "path": "/rewards/actions", "description": "Enregistrer une action (SCAN/SHARE/GAME)"},
				{"method": "GET", "path": "/rewards/users/{userId}/summary", "description": "Résumé complet des récompenses"},
				{"method": "GET", "path": "/rewards/users/{userId}/eligibility", "description": "Progression gift/challenge"},
				{"method": "GET", "path": "/rewards/users/{userId}/score", "description": "Score et position au classement"},
				{"method": "GET", "path": "/rewards/leaderboard", "description": "Classement général (params: limit, offset)"},
				{"method": "GET", "path": "/rewards/leaderboard/users/{userId}/context", "description": "Classement autour d'un utilisateur (param: range)"},
				{"method": "GET", "path": "/rewards/leaderboard/actions/{actionType}", "description": "Top par type d'action (param: limit)"},
				{"method": "GET", "path": "/rewards/leaderboard/stats", "description": "Statistiques du classement"},
				{"method": "GET", "path": "/rewards/eligibility/gifts", "description": "Utilisateurs éligibles aux cadeaux"},
				{"method": "GET", "path": "/rewards/eligibility/challenges", "description": "Utilisateurs éligibles aux challenges"},
				{"method": "POST", "path": "/rewards/admin/reset/weekly", "description": "Reset des compteurs hebdomadaires"},
				{"method": "POST", "path": "/rewards/admin/reset/monthly", "description": "Reset des compteurs mensuels"},
				{"method": "GET", "path": "/rewards/health", "description": "Health check du moteur de récompenses"},
			},
			"users": []map[string]string{
				{"method": "POST", "path": "/users", "description": "Créer un utilisateur"},
				{"method": "GET", "path": "/users", "description": "Lister les utilisateurs"},
				{"method": "GET", "path": "/users/{id}", "description": "Récupérer un utilisateur"},
				{"method": "PUT", "path": "/users/{id}", "description": "Mettre à jour un utilisateur"},
				{"method": "DELETE", "path": "/users/{id}", "description": "Désactiver un utilisateur"},
				{"method": "POST", "path": "/users/{id}/picture", "description": "Upload photo de profil"},
			},
			"tenants": []map[string]string{
				{"method": "POST", "path": "/tenants", "description": "Créer un compte organisation"},
				{"method": "GET", "path": "/tenants/{id}", "description": "Récupérer un tenant"},
				{"method": "PUT", "path": "/tenants/{id}", "description": "Mettre à jour un tenant"},
				{"method": "GET", "path": "/tenants/{id}/gifts", "description": "Cadeaux de l'organisation"},
				{"method": "POST", "path": "/tenants/{id}/gifts", "description": "Créer un cadeau"},
				{"method": "PUT", "path": "/tenants/{id}/gifts/{giftId}", "description": "Mettre à jour un cadeau"},
				{"method": "DELETE", "path": "/tenants/{id}/gifts/{giftId}", "description": "Supprimer un cadeau"},
				{"method": "GET", "path": "/tenants/{id}/challenges", "description": "Challenges de l'organisation"},
				{"method": "POST", "path": "/tenants/{id}/challenges", "description": "Créer un challenge"},
				{"method": "PUT", "path": "/tenants/{id}/challenges/{challengeId}", "description": "Mettre à jour un challenge"},
				{"method": "DELETE", "path": "/tenants/{id}/challenges/{challengeId}", "description": "Supprimer un challenge"},
				{"method": "POST", "path": "/tenants/challenges/{challengeId}/complete/{userId}", "description": "Enregistrer la complétion d'un challenge"},
				{"method": "GET", "path": "/tenants/{id}/analytics", "description": "Tableau de bord de l'organisation"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check de l'API"},
			},
		},
		"documentation": map[string]string{
			"description": "API REST T4G - Récompenses, classements et cadeaux",
			"contact":     "support@t4g.fun",
		},
	}

	utils.Success(w, routes)
}
