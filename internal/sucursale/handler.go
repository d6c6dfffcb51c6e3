package sucursale

import (
	"log/slog"
	"net/http"

	"github.com/backofficehq/admin-backend/internal/transport"
	"github.com/backofficehq/admin-backend/pkg/logger"
)

type ServiceAPI interface {
	List() ([]SucursaleResponse, error)
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
	sucursales, err := h.Service.List()
	if err != nil {
		h.HandleServiceError(w, err, "Ocurrió un error al obtener las sucursales")
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Sucursales obtenidas correctamente", SucursalesData{Sucursales: sucursales})
}
