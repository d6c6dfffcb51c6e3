package sucursale

import (
	"time"

	sucursaleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/sucursale"
)

// Sucursale is a branch office users are attached to. Read-mostly reference
// data, seeded once and listed for the user forms.
type Sucursale struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SucursaleResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type SucursalesData struct {
	Sucursales []SucursaleResponse `json:"sucursales"`
}

func (s *Sucursale) ToResponse() SucursaleResponse {
	return SucursaleResponse{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
	}
}

func FromDataModel(dm *sucursaleDatamodel.Sucursale) *Sucursale {
	return &Sucursale{
		ID:        dm.ID,
		Name:      dm.Name,
		Address:   dm.Address,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}
