package user

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/backofficehq/admin-backend/internal"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"github.com/backofficehq/admin-backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	Search(search string) ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	EmailExists(email string, excludeID int64) (bool, error)
	Create(row *userDatamodel.User) error
	Update(row *userDatamodel.User) error
	Delete(id int64) error
	RoleExists(id int64) (bool, error)
	SucursaleExists(id int64) (bool, error)
}

// RoleManager is the slice of the RBAC layer the user directory needs:
// assignments live in the pivot, independent of the role_id column.
type RoleManager interface {
	AssignRole(userID, roleID int64) error
	RemoveAllRoles(userID int64) error
}

// avatarDir is the storage directory avatars are stored under; only the
// relative path is persisted on the row.
const avatarDir = "users"

type Service struct {
	repo       RepositoryAPI
	rbac       RoleManager
	files      storage.FileStorage
	baseURL    string
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, rbac RoleManager, files storage.FileStorage, baseURL string, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		rbac:       rbac,
		files:      files,
		baseURL:    baseURL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// List returns users whose name contains the search term (name only, not
// surname or email), newest id first.
func (s *Service) List(search string) ([]UserResponse, error) {
	rows, err := s.repo.Search(search)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "search", search)
		return nil, err
	}

	responses := make([]UserResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse(s.baseURL))
	}
	return responses, nil
}

func (s *Service) Create(dto CreateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkReferences(dto.Email, 0, &dto.RoleID, &dto.SucursaleID); err != nil {
		return nil, err
	}

	avatarPath := ""
	if dto.Avatar != nil {
		path, err := s.files.Put(avatarDir, dto.Avatar.Filename, dto.Avatar.Content)
		if err != nil {
			return nil, fmt.Errorf("store avatar: %w", err)
		}
		avatarPath = path
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	row := &userDatamodel.User{
		Name:           dto.Name,
		Surname:        dto.Surname,
		Email:          dto.Email,
		PasswordHash:   string(hash),
		RoleID:         dto.RoleID,
		SucursaleID:    dto.SucursaleID,
		Avatar:         avatarPath,
		TypeDocument:   dto.TypeDocument,
		NumberDocument: dto.NumberDocument,
		Gender:         dto.Gender,
		Phone:          dto.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(row); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Pivot assignment on top of the role_id column.
	if err := s.rbac.AssignRole(row.ID, dto.RoleID); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}

	return s.reload(row.ID)
}

func (s *Service) Get(id int64) (*UserResponse, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	response := FromDataModel(row).ToResponse(s.baseURL)
	return &response, nil
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*UserResponse, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := row.Email
	if dto.Email != nil {
		email = *dto.Email
	}
	if err := s.checkReferences(email, id, dto.RoleID, dto.SucursaleID); err != nil {
		return nil, err
	}

	previousRoleID := row.RoleID

	if dto.Avatar != nil {
		// The previous file goes first so the storage area never holds two
		// avatars for one user.
		if row.Avatar != "" {
			if err := s.files.Delete(row.Avatar); err != nil {
				return nil, fmt.Errorf("delete previous avatar: %w", err)
			}
		}
		path, err := s.files.Put(avatarDir, dto.Avatar.Filename, dto.Avatar.Content)
		if err != nil {
			return nil, fmt.Errorf("store avatar: %w", err)
		}
		row.Avatar = path
	}

	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		row.PasswordHash = string(hash)
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Surname != nil {
		row.Surname = *dto.Surname
	}
	if dto.Email != nil {
		row.Email = *dto.Email
	}
	if dto.RoleID != nil {
		row.RoleID = *dto.RoleID
	}
	if dto.SucursaleID != nil {
		row.SucursaleID = *dto.SucursaleID
	}
	if dto.TypeDocument != nil {
		row.TypeDocument = *dto.TypeDocument
	}
	if dto.NumberDocument != nil {
		row.NumberDocument = *dto.NumberDocument
	}
	if dto.Gender != nil {
		row.Gender = *dto.Gender
	}
	if dto.Phone != nil {
		row.Phone = *dto.Phone
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if dto.RoleID != nil && *dto.RoleID != previousRoleID {
		// Clear the current assignments before granting the new role so the
		// pivot never keeps stale rows.
		if err := s.rbac.RemoveAllRoles(id); err != nil {
			return nil, fmt.Errorf("remove previous role: %w", err)
		}
		if err := s.rbac.AssignRole(id, *dto.RoleID); err != nil {
			return nil, fmt.Errorf("assign role: %w", err)
		}
	}

	return s.reload(id)
}

func (s *Service) Delete(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if row == nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Service) checkReferences(email string, excludeID int64, roleID, sucursaleID *int64) error {
	taken, err := s.repo.EmailExists(email, excludeID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return internal.NewValidationFieldError("email", "Este correo ya está registrado.", internal.ErrCodeEmailTaken)
	}

	if roleID != nil {
		exists, err := s.repo.RoleExists(*roleID)
		if err != nil {
			return fmt.Errorf("check role: %w", err)
		}
		if !exists {
			return internal.NewValidationFieldError("role_id", "El rol seleccionado no existe.", internal.ErrCodeRoleNotFound)
		}
	}

	if sucursaleID != nil {
		exists, err := s.repo.SucursaleExists(*sucursaleID)
		if err != nil {
			return fmt.Errorf("check sucursale: %w", err)
		}
		if !exists {
			return internal.NewValidationFieldError("sucursale_id", "La sucursal seleccionada no existe.", internal.ErrCodeSucursaleNotFound)
		}
	}
	return nil
}

func (s *Service) reload(id int64) (*UserResponse, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	response := FromDataModel(row).ToResponse(s.baseURL)
	return &response, nil
}
