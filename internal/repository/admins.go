package repository

import (
	"context"

	"care-admin-service/internal/model"
	"care-admin-service/internal/store"
)

type AdminRepository struct {
	store store.RecordStore
}

func NewAdminRepository(s store.RecordStore) *AdminRepository {
	return &AdminRepository{store: s}
}

// FindByPhone es una lectura única, no una suscripción: la credencial se
// consulta solo en el login.
func (r *AdminRepository) FindByPhone(ctx context.Context, phone string) (*model.AdminCredential, error) {
	data, err := r.store.Get(ctx, AdminPath(phone))
	if err != nil {
		return nil, err
	}
	var cred model.AdminCredential
	if err := store.Decode(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}
