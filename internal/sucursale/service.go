package sucursale

import (
	"log/slog"

	sucursaleDatamodel "github.com/backofficehq/admin-backend/internal/core/datamodel/sucursale"
)

type RepositoryAPI interface {
	GetAll() ([]*sucursaleDatamodel.Sucursale, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List() ([]SucursaleResponse, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list sucursales", "error", err)
		return nil, err
	}

	responses := make([]SucursaleResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}
	return responses, nil
}
