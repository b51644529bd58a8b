package model

import (
	"time"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// UserPermission capacité accordée à un rôle utilisateur
type UserPermission string

const (
	PermReadProfile     UserPermission = "read:profile"
	PermUpdateProfile   UserPermission = "update:profile"
	PermModerateContent UserPermission = "moderate:content"
	PermManagePlatform  UserPermission = "manage:platform"
)

type UserPreferences struct {
	Notifications bool   `json:"notifications"`
	Theme         string `json:"theme"` // light, dark
	Language      string `json:"language"`
	EmailUpdates  bool   `json:"emailUpdates"`
}

type User struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Picture     string          `json:"picture,omitempty"`
	Role        UserRole        `json:"role"`
	Auth0ID     string          `json:"auth0Id"`
	IsActive    bool            `json:"isActive"`
	Preferences UserPreferences `json:"preferences"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RolePermissions résout un rôle vers son ensemble de capacités.
// Fonction pure: jamais de droits stockés par utilisateur.
func RolePermissions(role UserRole) []UserPermission {
	switch role {
	case RoleAdmin:
		return []UserPermission{PermReadProfile, PermUpdateProfile, PermModerateContent, PermManagePlatform}
	case RoleModerator:
		return []UserPermission{PermReadProfile, PermUpdateProfile, PermModerateContent}
	case RoleUser:
		return []UserPermission{PermReadProfile, PermUpdateProfile}
	}
	return nil
}

// HasPermission vérifie qu'un rôle porte une capacité
func HasPermission(role UserRole, perm UserPermission) bool {
	for _, p := range RolePermissions(role) {
		if p == perm {
			return true
		}
	}
	return false
}
