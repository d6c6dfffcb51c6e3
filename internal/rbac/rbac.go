package rbac

import (
	"errors"
	"fmt"

	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// ErrUnknownPermission is returned when a permission name does not exist in
// the reference table.
var ErrUnknownPermission = errors.New("unknown permission name")

// Service maintains the RBAC pivot tables (role_has_permissions and
// user_roles). Assignments here are independent of the role_id foreign key
// on the users table.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// MissingPermissions returns the subset of names with no matching row in the
// permissions table.
func (s *Service) MissingPermissions(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var existing []string
	err := s.db.Model(&roleDatamodel.Permission{}).
		Where("name IN ?", names).
		Pluck("name", &existing).Error
	if err != nil {
		return nil, fmt.Errorf("lookup permissions: %w", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		known[name] = struct{}{}
	}

	var missing []string
	for _, name := range names {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// SyncPermissions replaces the role's permission set with exactly the given
// names. Full replace, never additive; order does not matter. Fails without
// touching the pivot when any name is unknown.
func (s *Service) SyncPermissions(roleID int64, names []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var permissions []roleDatamodel.Permission
		if len(names) > 0 {
			if err := tx.Where("name IN ?", names).Find(&permissions).Error; err != nil {
				return fmt.Errorf("resolve permissions: %w", err)
			}
			if len(permissions) != len(uniqueNames(names)) {
				return ErrUnknownPermission
			}
		}

		if err := tx.Where("role_id = ?", roleID).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return fmt.Errorf("clear role permissions: %w", err)
		}

		for _, permission := range permissions {
			pivot := roleDatamodel.RolePermission{RoleID: roleID, PermissionID: permission.ID}
			if err := tx.Create(&pivot).Error; err != nil {
				return fmt.Errorf("grant permission %s: %w", permission.Name, err)
			}
		}
		return nil
	})
}

// PermissionsForRole returns the role's permission rows ordered by id.
func (s *Service) PermissionsForRole(roleID int64) ([]roleDatamodel.Permission, error) {
	var permissions []roleDatamodel.Permission
	err := s.db.
		Joins("JOIN role_has_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Order("permissions.id ASC").
		Find(&permissions).Error
	if err != nil {
		return nil, fmt.Errorf("permissions for role %d: %w", roleID, err)
	}
	return permissions, nil
}

// AssignRole records the user-role assignment in the pivot. Idempotent.
func (s *Service) AssignRole(userID, roleID int64) error {
	var count int64
	err := s.db.Model(&userDatamodel.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check role assignment: %w", err)
	}
	if count > 0 {
		return nil
	}

	pivot := userDatamodel.UserRole{UserID: userID, RoleID: roleID}
	if err := s.db.Create(&pivot).Error; err != nil {
		return fmt.Errorf("assign role %d to user %d: %w", roleID, userID, err)
	}
	return nil
}

// RemoveRole deletes a single user-role assignment from the pivot.
func (s *Service) RemoveRole(userID, roleID int64) error {
	err := s.db.
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&userDatamodel.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("remove role %d from user %d: %w", roleID, userID, err)
	}
	return nil
}

// RemoveAllRoles clears every assignment the user currently has. Used before
// reassignment so the pivot never accumulates stale rows.
func (s *Service) RemoveAllRoles(userID int64) error {
	err := s.db.Where("user_id = ?", userID).Delete(&userDatamodel.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("remove roles from user %d: %w", userID, err)
	}
	return nil
}

// RolesForUser returns the role ids currently assigned through the pivot.
func (s *Service) RolesForUser(userID int64) ([]int64, error) {
	var roleIDs []int64
	err := s.db.Model(&userDatamodel.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &roleIDs).Error
	if err != nil {
		return nil, fmt.Errorf("roles for user %d: %w", userID, err)
	}
	return roleIDs, nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
