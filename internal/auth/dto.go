package auth

import (
	"net/mail"

	"github.com/backofficehq/admin-backend/internal"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterDTO creates an account through the public register endpoint. Same
// constraints as the user directory's store operation, minus the avatar.
type RegisterDTO struct {
	Name                 string `json:"name"`
	Surname              string `json:"surname"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	RoleID               int64  `json:"role_id"`
	SucursaleID          int64  `json:"sucursale_id"`
	TypeDocument         string `json:"type_document"`
	NumberDocument       string `json:"number_document"`
	Gender               string `json:"gender"`
	Phone                string `json:"phone"`
}

func (d LoginDTO) Validate() error {
	var errs []internal.ValidationError
	if d.Email == "" {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "El correo es obligatorio.", Code: string(internal.ErrCodeValidationFailed)})
	}
	if d.Password == "" {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "La contraseña es obligatoria.", Code: string(internal.ErrCodeValidationFailed)})
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Los datos proporcionados no son válidos.", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "El refresh token es obligatorio.", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (d RegisterDTO) Validate() error {
	var errs []internal.ValidationError

	addError := func(field, message string) {
		errs = append(errs, internal.ValidationError{Field: field, Message: message, Code: string(internal.ErrCodeValidationFailed)})
	}

	if d.Name == "" {
		addError("name", "El nombre es obligatorio.")
	}
	if d.Surname == "" {
		addError("surname", "El apellido es obligatorio.")
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
