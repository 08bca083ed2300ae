package repository

import (
	"context"
	"sort"

	"care-admin-service/internal/model"
	"care-admin-service/internal/store"
)

type PathologyRepository struct {
	store store.RecordStore
}

func NewPathologyRepository(s store.RecordStore) *PathologyRepository {
	return &PathologyRepository{store: s}
}

func (r *PathologyRepository) FindAll(ctx context.Context) ([]*model.PathologyPartner, error) {
	entries, err := r.store.List(ctx, PathologiesCollection)
	if err != nil {
		return nil, err
	}
	return decodePathologies(entries)
}

func (r *PathologyRepository) FindByID(ctx context.Context, partnerID string) (*model.PathologyPartner, error) {
	data, err := r.store.Get(ctx, PathologyPath(partnerID))
	if err != nil {
		return nil, err
	}
	var p model.PathologyPartner
	if err := store.Decode(data, &p); err != nil {
		return nil, err
	}
	p.ID = partnerID
	return &p, nil
}

// Verify levanta el flag de verificación. Es de una sola vía: no existe
// camino de des-verificación.
func (r *PathologyRepository) Verify(ctx context.Context, partnerID string) error {
	return r.store.Update(ctx, PathologyPath(partnerID), map[string]interface{}{"verified": true})
}

// Transactions lee el sub-árbol de transacciones de un partner, más
// recientes primero. Producidas por el checkout externo, solo lectura.
func (r *PathologyRepository) Transactions(ctx context.Context, partnerID string) ([]*model.Transaction, error) {
	entries, err := r.store.List(ctx, PathologyTransactionsPath(partnerID))
	if err != nil {
		return nil, err
	}
	out := make([]*model.Transaction, 0, len(entries))
	for _, e := range entries {
		var tx model.Transaction
		if err := store.Decode(e.Data, &tx); err != nil {
			return nil, err
		}
		if tx.TransactionKey == "" {
			tx.TransactionKey = e.Key
		}
		out = append(out, &tx)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].InitiatedAt > out[j].InitiatedAt
	})
	return out, nil
}

func (r *PathologyRepository) Subscribe(ctx context.Context) (<-chan []*model.PathologyPartner, func(), error) {
	raw, release, err := r.store.Subscribe(ctx, PathologiesCollection)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []*model.PathologyPartner, 1)
	go func() {
		defer close(out)
		for entries := range raw {
			partners, err := decodePathologies(entries)
			if err != nil {
				continue
			}
			select {
			case out <- partners:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, release, nil
}

func decodePathologies(entries []store.Entry) ([]*model.PathologyPartner, error) {
	out := make([]*model.PathologyPartner, 0, len(entries))
	for _, e := range entries {
		var p model.PathologyPartner
		if err := store.Decode(e.Data, &p); err != nil {
			return nil, err
		}
		p.ID = e.Key
		out = append(out, &p)
	}
	return out, nil
}
