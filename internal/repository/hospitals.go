package repository

import (
	"context"

	"care-admin-service/internal/model"
	"care-admin-service/internal/store"
)

type HospitalRepository struct {
	store store.RecordStore
}

func NewHospitalRepository(s store.RecordStore) *HospitalRepository {
	return &HospitalRepository{store: s}
}

// FindAll es lectura one-shot, no suscripción: el listado de hospitales se
// vuelve a pedir explícitamente después de cada alta.
func (r *HospitalRepository) FindAll(ctx context.Context) ([]*model.HospitalPartner, error) {
	entries, err := r.store.List(ctx, HospitalsCollection)
	if err != nil {
		return nil, err
	}
	out := make([]*model.HospitalPartner, 0, len(entries))
	for _, e := range entries {
		var h model.HospitalPartner
		if err := store.Decode(e.Data, &h); err != nil {
			return nil, err
		}
		h.ID = e.Key
		out = append(out, &h)
	}
	return out, nil
}

func (r *HospitalRepository) Save(ctx context.Context, h *model.HospitalPartner) error {
	return r.store.Set(ctx, HospitalPath(h.ID), h)
}
