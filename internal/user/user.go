package user

import (
	"strings"
	"time"

	userDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/user"
)

const createdAtLayout = "2006-01-02  PM 03:04"

type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SucursaleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Surname        string       `json:"surname"`
	Email          string       `json:"email"`
	Avatar         string       `json:"-"`
	RoleID         int64        `json:"role_id"`
	SucursaleID    int64        `json:"sucursale_id"`
	Role           RoleRef      `json:"role"`
	Sucursale      SucursaleRef `json:"sucursale"`
	TypeDocument   string       `json:"type_document"`
	NumberDocument string       `json:"number_document"`
	Gender         string       `json:"gender"`
	Phone          string       `json:"phone"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// UserResponse is the list/detail wire shape: denormalized full_name, nested
// role and sucursale references, and an absolute avatar URL (null when the
// user has no stored avatar).
type UserResponse struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Surname        string       `json:"surname"`
	FullName       string       `json:"full_name"`
	Email          string       `json:"email"`
	Role           RoleRef      `json:"role"`
	Sucursale      SucursaleRef `json:"sucursale"`
	Avatar         *string      `json:"avatar"`
	TypeDocument   string       `json:"type_document"`
	NumberDocument string       `json:"number_document"`
	Gender         string       `json:"gender"`
	Phone          string       `json:"phone"`
	CreatedAt      string       `json:"created_at"`
}

type UsersData struct {
	Users []UserResponse `json:"users"`
}

type UserData struct {
	User UserResponse `json:"user"`
}

// ToResponse builds the wire shape; baseURL is the application's public URL
// the relative avatar path is joined onto.
func (u *User) ToResponse(baseURL string) UserResponse {
	var avatar *string
	if u.Avatar != "" {
		url := strings.TrimRight(baseURL, "/") + "/storage/" + u.Avatar
		avatar = &url
	}

	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Surname:        u.Surname,
		FullName:       u.Name + " " + u.Surname,
		Email:          u.Email,
		Role:           u.Role,
		Sucursale:      u.Sucursale,
		Avatar:         avatar,
		TypeDocument:   u.TypeDocument,
		NumberDocument: u.NumberDocument,
		Gender:         u.Gender,
		Phone:          u.Phone,
		CreatedAt:      u.CreatedAt.Format(createdAtLayout),
	}
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:             dm.ID,
		Name:           dm.Name,
		Surname:        dm.Surname,
		Email:          dm.Email,
		Avatar:         dm.Avatar,
		RoleID:         dm.RoleID,
		SucursaleID:    dm.SucursaleID,
		Role:           RoleRef{ID: dm.Role.ID, Name: dm.Role.Name},
		Sucursale:      SucursaleRef{ID: dm.Sucursale.ID, Name: dm.Sucursale.Name},
		TypeDocument:   dm.TypeDocument,
		NumberDocument: dm.NumberDocument,
		Gender:         dm.Gender,
		Phone:          dm.Phone,
		CreatedAt:      dm.CreatedAt,
		UpdatedAt:      dm.UpdatedAt,
	}
}
