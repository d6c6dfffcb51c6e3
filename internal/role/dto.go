package role

import (
	"github.com/backofficehq/admin-backend/internal"
)

// StoreRoleDTO creates a role; Name is normalized before validation against
// the uniqueness constraint.
type StoreRoleDTO struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleDTO mirrors StoreRoleDTO: the update request also requires a
// name and a non-empty permission list, which fully replaces the current set.
type UpdateRoleDTO struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func validateRolePayload(name string, permissions []string) error {
	var errs []internal.ValidationError

	addError := func(field, message string) {
		errs = append(errs, internal.ValidationError{Field: field, Message: message, Code: string(internal.ErrCodeValidationFailed)})
	}

	if name == "" {
		addError("name", "El nombre del rol es obligatorio.")
	} else if len(name) > 255 {
		addError("name", "El nombre del rol no debe exceder 255 caracteres.")
	}

	if len(permissions) == 0 {
		addError("permissions", "Debe seleccionar al menos un permiso.")
	}
	for _, permission := range permissions {
		if permission == "" {
			addError("permissions", "Alguno de los permisos seleccionados no es válido.")
			break
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Los datos proporcionados no son válidos.", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

func (d StoreRoleDTO) Validate() error {
	return validateRolePayload(NormalizeName(d.Name), d.Permissions)
}

func (d UpdateRoleDTO) Validate() error {
	return validateRolePayload(NormalizeName(d.Name), d.Permissions)
}
