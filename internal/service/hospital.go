package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"care-admin-service/internal/dto"
	"care-admin-service/internal/metrics"
	"care-admin-service/internal/model"
	"care-admin-service/internal/repository"
)

var ErrAllFieldsRequired = errors.New("todos los campos son obligatorios")

type HospitalService struct {
	repo *repository.HospitalRepository
}

func NewHospitalService(r *repository.HospitalRepository) *HospitalService {
	return &HospitalService{repo: r}
}

func (s *HospitalService) GetAll(ctx context.Context) ([]*model.HospitalPartner, error) {
	return s.repo.FindAll(ctx)
}

// Register valida el formulario, compone el registro con los strings de
// display (horario, período de bloqueo, cobertura con sufijo "km"), genera
// la clave y escribe. Con cualquier campo vacío no se emite NINGUNA
// escritura.
//
// Devuelve el listado completo re-leído: read-your-write por re-fetch
// explícito, porque el alta pasa en la misma sesión que la lectura.
func (s *HospitalService) Register(ctx context.Context, form dto.RegisterHospitalRequest) (*model.HospitalPartner, []*model.HospitalPartner, error) {
	required := []string{
		form.Name, form.Address, form.Number,
		form.OpenTime, form.CloseTime,
		form.BlockStart, form.BlockEnd,
		form.CoverageKm, form.LatLng,
	}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return nil, nil, ErrAllFieldsRequired
		}
	}

	h := &model.HospitalPartner{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(form.Name),
		Address:      strings.TrimSpace(form.Address),
		Number:       strings.TrimSpace(form.Number),
		Timing:       strings.TrimSpace(form.OpenTime) + " - " + strings.TrimSpace(form.CloseTime),
		BlockPeriod:  strings.TrimSpace(form.BlockStart) + " - " + strings.TrimSpace(form.BlockEnd),
		CoverageArea: strings.TrimSpace(form.CoverageKm) + " km",
		// El par "lat,lng" viene opaco del widget de mapas.
		LatLng: strings.TrimSpace(form.LatLng),
		IsOpen: form.IsOpen,
	}

	if err := s.repo.Save(ctx, h); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("register_hospital").Inc()
		return nil, nil, err
	}
	metrics.HospitalsRegisteredTotal.Inc()

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		// El alta ya quedó escrita; el listado viejo es el problema del
		// próximo fetch.
		return h, nil, err
	}
	return h, all, nil
}
