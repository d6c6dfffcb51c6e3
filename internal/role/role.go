package role

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
)

// GuardName is the fixed authentication guard every role is created under.
const GuardName = "api"

const createdAtLayout = "2006/01/02 15:04:05"

type Permission struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	GuardName   string       `json:"guard_name"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Permissions []Permission `json:"permissions"`
}

type PermissionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RoleResponse carries both the nested permission list and the flattened
// permissions_pluck projection; the pluck is derived from Permissions at
// serialization time, never stored.
type RoleResponse struct {
	ID               int64                `json:"id"`
	Name             string               `json:"name"`
	CreatedAt        string               `json:"created_at"`
	Permissions      []PermissionResponse `json:"permissions"`
	PermissionsPluck []string             `json:"permissions_pluck"`
}

type RolesData struct {
	Roles []RoleResponse `json:"roles"`
}

type RoleData struct {
	Role RoleResponse `json:"role"`
}

func (r *Role) ToResponse() RoleResponse {
	permissions := make([]PermissionResponse, 0, len(r.Permissions))
	pluck := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		permissions = append(permissions, PermissionResponse{ID: p.ID, Name: p.Name})
		pluck = append(pluck, p.Name)
	}

	return RoleResponse{
		ID:               r.ID,
		Name:             r.Name,
		CreatedAt:        r.CreatedAt.Format(createdAtLayout),
		Permissions:      permissions,
		PermissionsPluck: pluck,
	}
}

// NormalizeName trims, lowercases and capitalizes the first rune, so
// uniqueness holds regardless of the casing the panel submits.
func NormalizeName(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(first)) + trimmed[size:]
}

func FromDataModel(dm *roleDatamodel.Role) *Role {
	permissions := make([]Permission, 0, len(dm.Permissions))
	for _, p := range dm.Permissions {
		permissions = append(permissions, Permission{ID: p.ID, Name: p.Name})
	}
	return &Role{
		ID:          dm.ID,
		Name:        dm.Name,
		GuardName:   dm.GuardName,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
		Permissions: permissions,
	}
}
