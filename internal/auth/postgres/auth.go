package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/backofficehq/admin-backend/internal/auth"
	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

// GetUserWithPermissions resolves the caller and the permission names its
// assigned roles grant, through the RBAC pivots.
func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, email, name, surname FROM users WHERE id = ?`
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Surname); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	permQuery := `SELECT DISTINCT p.name
	             FROM permissions p
	             JOIN role_has_permissions rp ON p.id = rp.permission_id
	             JOIN user_roles ur ON ur.role_id = rp.role_id
	             WHERE ur.user_id = ?`

	rows, err := r.db.Raw(permQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permName string
		if err := rows.Scan(&permName); err != nil {
			return nil, err
		}
		permissions = append(permissions, permName)
	}

	user.Permissions = permissions
	return &user, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateUser(params auth.CreateUserParams) (int64, error) {
	now := time.Now()
	row := userDatamodel.User{
		Name:           params.Name,
		Surname:        params.Surname,
		Email:          params.Email,
		PasswordHash:   params.PasswordHash,
		RoleID:         params.RoleID,
		SucursaleID:    params.SucursaleID,
		TypeDocument:   params.TypeDocument,
		NumberDocument: params.NumberDocument,
		Gender:         params.Gender,
		Phone:          params.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.db.Omit("Role", "Sucursale").Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}
