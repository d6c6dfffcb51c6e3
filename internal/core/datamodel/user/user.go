package user

import (
	"time"

	roleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/role"
	sucursaleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/sucursale"
)

type User struct {
	ID             int64     `gorm:"primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Surname        string    `gorm:"column:surname;not null"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	RoleID         int64     `gorm:"column:role_id;not null"`
	SucursaleID    int64     `gorm:"column:sucursale_id;not null"`
	Avatar         string    `gorm:"column:avatar"`
	TypeDocument   string    `gorm:"column:type_document;not null"`
	NumberDocument string    `gorm:"column:number_document;not null"`
	Gender         string    `gorm:"column:gender;not null"`
	Phone          string    `gorm:"column:phone"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`

	Role      roleDatamodel.Role           `gorm:"foreignKey:RoleID"`
	Sucursale sucursaleDatamodel.Sucursale `gorm:"foreignKey:SucursaleID"`
}

func (User) TableName() string {
	return "users"
}

// UserRole is the RBAC assignment pivot, maintained independently of the
// role_id column on users.
type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
