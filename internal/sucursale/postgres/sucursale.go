package postgres

import (
	sucursaleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/sucursale"
	"github.com/backofficehq/admin-backend/internal/sucursale"
	"gorm.io/gorm"
)

type SucursaleRepository struct {
	db *gorm.DB
}

func NewSucursaleRepository(db *gorm.DB) sucursale.RepositoryAPI {
	return &SucursaleRepository{db: db}
}

func (r *SucursaleRepository) GetAll() ([]*sucursaleDatamodel.Sucursale, error) {
	var rows []*sucursaleDatamodel.Sucursale
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}
