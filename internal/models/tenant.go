package model

import (
	"time"
)

type TenantRole string

const (
	TenantRoleAdmin   TenantRole = "tenant_admin"
	TenantRoleManager TenantRole = "tenant_manager"
	TenantRoleUser    TenantRole = "tenant_user"
)

// TenantPermission capacité côté organisation
type TenantPermission string

const (
	PermManageGifts      TenantPermission = "manage_gifts"
	PermManageChallenges TenantPermission = "manage_challenges"
	PermViewAnalytics    TenantPermission = "view_analytics"
	PermManageUsers      TenantPermission = "manage_users"
	PermManageSettings   TenantPermission = "manage_settings"
)

type TenantSettings struct {
	DashboardTheme   string `json:"dashboardTheme"` // light, dark
	Notifications    bool   `json:"notifications"`
	AnalyticsEnabled bool   `json:"analyticsEnabled"`
	RealTimeUpdates  bool   `json:"realTimeUpdates"`
}

type Tenant struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Name             string         `json:"name"`
	Picture          string         `json:"picture,omitempty"`
	Role             TenantRole     `json:"role"`
	Auth0ID          string         `json:"auth0Id"`
	OrganizationName string         `json:"organizationName"`
	OrganizationID   string         `json:"organizationId"`
	IsActive         bool           `json:"isActive"`
	Settings         TenantSettings `json:"settings"`
	LastLoginAt      *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// TenantRolePermissions résout un rôle tenant vers ses capacités
func TenantRolePermissions(role TenantRole) []TenantPermission {
	switch role {
	case TenantRoleAdmin:
		return []TenantPermission{PermViewAnalytics, PermManageGifts, PermManageChallenges, PermManageUsers, PermManageSettings}
	case TenantRoleManager:
		return []TenantPermission{PermViewAnalytics, PermManageGifts, PermManageChallenges}
	case TenantRoleUser:
		return []TenantPermission{PermViewAnalytics}
	}
	return nil
}

func TenantHasPermission(role TenantRole, perm TenantPermission) bool {
	for _, p := range TenantRolePermissions(role) {
		if p == perm {
			return true
		}
	}
	return false
}
