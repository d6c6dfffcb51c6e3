package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/backofficehq/admin-backend/internal/transport"
	"github.com/backofficehq/admin-backend/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(search string) ([]UserResponse, error)
	Create(dto CreateUserDTO) (*UserResponse, error)
	Get(id int64) (*UserResponse, error)
	Update(id int64, dto UpdateUserDTO) (*UserResponse, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	users, err := h.Service.List(search)
	if err != nil {
		h.Logger.Error("Index: failed to list users", "error", err)
		h.HandleServiceError(w, err, "Ocurrió un error al obtener los usuarios")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Usuarios obtenidos correctamente", UsersData{Users: users})
}

// Store accepts multipart/form-data so the avatar can ride along with the
// profile fields in a single request.
func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxAvatarSize + 1<<20); err != nil {
		h.Logger.Error("Store: invalid multipart body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	dto := CreateUserDTO{
		Name:                 r.FormValue("name"),
		Surname:              r.FormValue("surname"),
		Email:                r.FormValue("email"),
		Password:             r.FormValue("password"),
		PasswordConfirmation: r.FormValue("password_confirmation"),
		TypeDocument:         r.FormValue("type_document"),
		NumberDocument:       r.FormValue("number_document"),
		Gender:               r.FormValue("gender"),
		Phone:                r.FormValue("phone"),
	}
	dto.RoleID, _ = strconv.ParseInt(r.FormValue("role_id"), 10, 64)
	dto.SucursaleID, _ = strconv.ParseInt(r.FormValue("sucursale_id"), 10, 64)

	avatar, ok := h.avatarUpload(w, r)
	if !ok {
		return
	}
	dto.Avatar = avatar

	created, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("Store: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err, "Ocurrió un error al crear el usuario")
		return
	}

	h.Logger.Info("Store: user created", "user_id", created.ID, "email", created.Email)
	h.WriteSuccess(w, http.StatusCreated, "Usuario creado correctamente", UserData{User: *created})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	found, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err, "Ocurrió un error al obtener el usuario")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Usuario obtenido correctamente", UserData{User: *found})
}

// Update reads multipart/form-data with partial semantics: a field missing
// from the form leaves the stored value untouched, a present field replaces
// it.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(MaxAvatarSize + 1<<20); err != nil {
		h.Logger.Error("Update: invalid multipart body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	var dto UpdateUserDTO
	dto.Name = formField(r, "name")
	dto.Surname = formField(r, "surname")
	dto.Email = formField(r, "email")
	dto.Password = formField(r, "password")
	dto.PasswordConfirmation = formField(r, "password_confirmation")
	dto.TypeDocument = formField(r, "type_document")
	dto.NumberDocument = formField(r, "number_document")
	dto.Gender = formField(r, "gender")
	dto.Phone = formField(r, "phone")
	dto.RoleID = formIntField(r, "role_id")
	dto.SucursaleID = formIntField(r, "sucursale_id")

	avatar, ok := h.avatarUpload(w, r)
	if !ok {
		return
	}
	dto.Avatar = avatar

	updated, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err, "Ocurrió un error al actualizar el usuario")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Usuario actualizado correctamente", UserData{User: *updated})
}

func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("Destroy: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err, "Ocurrió un error al eliminar el usuario")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Usuario eliminado correctamente", nil)
}

func (h *Handler) avatarUpload(w http.ResponseWriter, r *http.Request) (*AvatarUpload, bool) {
	file, header, err := r.FormFile("avatar")
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		h.Logger.Error("invalid avatar upload", "error", err)
		h.WriteError(w, http.StatusBadRequest, "El archivo de avatar no es válido")
		return nil, false
	}
	return &AvatarUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, true
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.Logger.Error("invalid user id", "id", raw)
		h.WriteError(w, http.StatusBadRequest, "Identificador de usuario inválido")
		return 0, false
	}
	return id, true
}

func formField(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formIntField(r *http.Request, name string) *int64 {
	raw := formField(r, name)
	if raw == nil {
		return nil
	}
	value, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		invalid := int64(-1)
		return &invalid
	}
	return &value
}
