package role

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/backofficehq/admin-backend/internal/transport"
	"github.com/backofficehq/admin-backend/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(search string) ([]RoleResponse, error)
	Create(dto StoreRoleDTO) (*RoleResponse, error)
	Get(id int64) (*RoleResponse, error)
	Update(id int64, dto UpdateRoleDTO) (*RoleResponse, error)
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

	roles, err := h.Service.List(search)
	if err != nil {
		h.Logger.Error("Index: failed to list roles", "error", err)
		h.HandleServiceError(w, err, "Ocurrió un error al obtener los roles")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Roles obtenidos correctamente", RolesData{Roles: roles})
}

func (h *Handler) Store(w http.ResponseWriter, r *http.Request) {
	var dto StoreRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Store: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	created, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("Store: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err, "Ocurrió un error al crear el rol")
		return
	}

	h.Logger.Info("Store: role created", "role_id", created.ID, "name", created.Name)
	h.WriteSuccess(w, http.StatusCreated, "Rol creado correctamente", RoleData{Role: *created})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	found, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err, "Ocurrió un error al obtener el rol")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Rol obtenido correctamente", RoleData{Role: *found})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Update: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	updated, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("Update: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err, "Ocurrió un error al actualizar el rol")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Rol actualizado correctamente", RoleData{Role: *updated})
}

func (h *Handler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("Destroy: service error", "error", err, "role_id", id)
		h.HandleServiceError(w, err, "Ocurrió un error al eliminar el rol")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Rol eliminado correctamente", nil)
}

func (h *Handler) roleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.Logger.Error("invalid role id", "id", raw)
		h.WriteError(w, http.StatusBadRequest, "Identificador de rol inválido")
		return 0, false
	}
	return id, true
}
