package user

import (
	"io"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/backofficehq/admin-backend/internal"
)

// MaxAvatarSize caps avatar uploads at 2MB, matching the panel's limit.
const MaxAvatarSize = 2 << 20

var allowedAvatarExtensions = map[string]struct{}{
	".jpeg": {},
	".png":  {},
	".jpg":  {},
	".gif":  {},
}

// AvatarUpload carries a pending avatar file through validation into the
// storage layer.
type AvatarUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

func (a *AvatarUpload) validate(addError func(field, message string)) {
	ext := strings.ToLower(filepath.Ext(a.Filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		addError("avatar", "El avatar debe ser una imagen jpeg, png, jpg o gif.")
	}
	if a.Size > MaxAvatarSize {
		addError("avatar", "El avatar no debe superar los 2MB.")
	}
}

// CreateUserDTO is the explicit field set accepted by the store operation;
// anything else in the request is dropped, never mass-assigned.
type CreateUserDTO struct {
	Name                 string
	Surname              string
	Email                string
	Password             string
	PasswordConfirmation string
	RoleID               int64
	SucursaleID          int64
	TypeDocument         string
	NumberDocument       string
	Gender               string
	Phone                string
	Avatar               *AvatarUpload
}

// UpdateUserDTO carries partial-update semantics: nil fields are left
// untouched on the row, present fields obey the same constraints as create.
type UpdateUserDTO struct {
	Name                 *string
	Surname              *string
	Email                *string
	Password             *string
	PasswordConfirmation *string
	RoleID               *int64
	SucursaleID          *int64
	TypeDocument         *string
	NumberDocument       *string
	Gender               *string
	Phone                *string
	Avatar               *AvatarUpload
}

func (d CreateUserDTO) Validate() error {
	var errs []internal.ValidationError
	addError := func(field, message string) {
		errs = append(errs, internal.ValidationError{Field: field, Message: message, Code: string(internal.ErrCodeValidationFailed)})
	}

	if d.Name == "" {
		addError("name", "El nombre es obligatorio.")
	} else if len(d.Name) > 255 {
		addError("name", "El nombre no debe exceder 255 caracteres.")
	}
	if d.Surname == "" {
		addError("surname", "El apellido es obligatorio.")
	} else if len(d.Surname) > 255 {
		addError("surname", "El apellido no debe exceder 255 caracteres.")
	}
	if d.Email == "" {
		addError("email", "El correo es obligatorio.")
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		addError("email", "El correo no es válido.")
	}
	if len(d.Password) < 8 {
		addError("password", "La contraseña debe tener al menos 8 caracteres.")
	} else if d.Password != d.PasswordConfirmation {
		addError("password", "La confirmación de la contraseña no coincide.")
	}
	if d.RoleID <= 0 {
		addError("role_id", "El rol es obligatorio.")
	}
	if d.SucursaleID <= 0 {
		addError("sucursale_id", "La sucursal es obligatoria.")
	}
	if d.TypeDocument == "" {
		addError("type_document", "El tipo de documento es obligatorio.")
	}
	if !isNumeric(d.NumberDocument) {
		addError("number_document", "El número de documento debe ser numérico.")
	}
	if d.Gender != "1" && d.Gender != "2" {
		addError("gender", "El género seleccionado no es válido.")
	}
	if d.Avatar != nil {
		d.Avatar.validate(addError)
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Los datos proporcionados no son válidos.", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

func (d UpdateUserDTO) Validate() error {
	var errs []internal.ValidationError
	addError := func(field, message string) {
		errs = append(errs, internal.ValidationError{Field: field, Message: message, Code: string(internal.ErrCodeValidationFailed)})
	}

	if d.Name != nil && (*d.Name == "" || len(*d.Name) > 255) {
		addError("name", "El nombre no es válido.")
	}
	if d.Surname != nil && (*d.Surname == "" || len(*d.Surname) > 255) {
		addError("surname", "El apellido no es válido.")
	}
	if d.Email != nil {
		if _, err := mail.ParseAddress(*d.Email); err != nil {
			addError("email", "El correo no es válido.")
		}
	}
	if d.Password != nil {
		if len(*d.Password) < 8 {
			addError("password", "La contraseña debe tener al menos 8 caracteres.")
		} else if d.PasswordConfirmation == nil || *d.Password != *d.PasswordConfirmation {
			addError("password", "La confirmación de la contraseña no coincide.")
		}
	}
	if d.RoleID != nil && *d.RoleID <= 0 {
		addError("role_id", "El rol seleccionado no es válido.")
	}
	if d.SucursaleID != nil && *d.SucursaleID <= 0 {
		addError("sucursale_id", "La sucursal seleccionada no es válida.")
	}
	if d.NumberDocument != nil && !isNumeric(*d.NumberDocument) {
		addError("number_document", "El número de documento debe ser numérico.")
	}
	if d.Gender != nil && *d.Gender != "1" && *d.Gender != "2" {
		addError("gender", "El género seleccionado no es válido.")
	}
	if d.Avatar != nil {
		d.Avatar.validate(addError)
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Los datos proporcionados no son válidos.", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
