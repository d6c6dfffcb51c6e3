package role

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/backofficehq/admin-backend/internal"
	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
)

type RepositoryAPI interface {
	Search(search string) ([]*roleDatamodel.Role, error)
	GetByID(id int64) (*roleDatamodel.Role, error)
	ExistsByName(name string, excludeID int64) (bool, error)
	Create(role *roleDatamodel.Role) error
	UpdateName(id int64, name string) error
	Delete(id int64) error
}

// PermissionSyncer is the slice of the RBAC layer the role directory needs:
// existence checks before validation passes, full-replace sync after.
type PermissionSyncer interface {
	MissingPermissions(names []string) ([]string, error)
	SyncPermissions(roleID int64, names []string) error
}

type Service struct {
	repo   RepositoryAPI
	rbac   PermissionSyncer
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, rbac PermissionSyncer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		rbac:   rbac,
		logger: logger,
	}
}

// List returns roles matching the case-insensitive substring search, newest
// id first, each with its nested and plucked permission representations.
func (s *Service) List(search string) ([]RoleResponse, error) {
	rows, err := s.repo.Search(search)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err, "search", search)
		return nil, err
	}

	responses := make([]RoleResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}
	return responses, nil
}

func (s *Service) Create(dto StoreRoleDTO) (*RoleResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := NormalizeName(dto.Name)

	taken, err := s.repo.ExistsByName(name, 0)
	if err != nil {
		return nil, fmt.Errorf("check role name: %w", err)
	}
	if taken {
		return nil, internal.NewValidationFieldError("name", "Este nombre de rol ya existe.", internal.ErrCodeRoleNameTaken)
	}

	if err := s.validatePermissionNames(dto.Permissions); err != nil {
		return nil, err
	}

	now := time.Now()
	row := &roleDatamodel.Role{
		Name:      name,
		GuardName: GuardName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	if err := s.rbac.SyncPermissions(row.ID, dto.Permissions); err != nil {
		return nil, fmt.Errorf("sync permissions: %w", err)
	}

	return s.reload(row.ID)
}

func (s *Service) Get(id int64) (*RoleResponse, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}

	response := FromDataModel(row).ToResponse()
	return &response, nil
}

func (s *Service) Update(id int64, dto UpdateRoleDTO) (*RoleResponse, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	if existing == nil {
		return nil, internal.ErrRoleNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := NormalizeName(dto.Name)

	taken, err := s.repo.ExistsByName(name, id)
	if err != nil {
		return nil, fmt.Errorf("check role name: %w", err)
	}
	if taken {
		return nil, internal.NewValidationFieldError("name", "Este nombre de rol ya existe.", internal.ErrCodeRoleNameTaken)
	}

	if err := s.validatePermissionNames(dto.Permissions); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateName(id, name); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if err := s.rbac.SyncPermissions(id, dto.Permissions); err != nil {
		return nil, fmt.Errorf("sync permissions: %w", err)
	}

	return s.reload(id)
}

func (s *Service) Delete(id int64) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("get role: %w", err)
	}
	if existing == nil {
		return internal.ErrRoleNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

func (s *Service) validatePermissionNames(names []string) error {
	missing, err := s.rbac.MissingPermissions(names)
	if err != nil {
		return fmt.Errorf("check permissions: %w", err)
	}
	if len(missing) > 0 {
		s.logger.Warn("rejected unknown permission names", "missing", missing)
		return internal.NewValidationFieldError("permissions", "Alguno de los permisos seleccionados no es válido.", internal.ErrCodeUnknownPermission)
	}
	return nil
}

func (s *Service) reload(id int64) (*RoleResponse, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("reload role: %w", err)
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}
	response := FromDataModel(row).ToResponse()
	return &response, nil
}
