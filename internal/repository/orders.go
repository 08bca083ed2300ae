package repository

import (
	"context"

	"care-admin-service/internal/model"
	"care-admin-service/internal/store"
)

type OrderRepository struct {
	store store.RecordStore
}

func NewOrderRepository(s store.RecordStore) *OrderRepository {
	return &OrderRepository{store: s}
}

// FindAll devuelve las órdenes más nuevas primero: el store las entrega en
// orden de inserción y acá se invierte.
func (r *OrderRepository) FindAll(ctx context.Context) ([]*model.TransportOrder, error) {
	entries, err := r.store.List(ctx, OrdersCollection)
	if err != nil {
		return nil, err
	}
	return decodeOrders(entries)
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*model.TransportOrder, error) {
	data, err := r.store.Get(ctx, OrderPath(orderID))
	if err != nil {
		return nil, err
	}
	var o model.TransportOrder
	if err := store.Decode(data, &o); err != nil {
		return nil, err
	}
	o.ID = orderID
	return &o, nil
}

// UpdateLedger escribe campos parciales en la copia ledger de la orden.
func (r *OrderRepository) UpdateLedger(ctx context.Context, orderID string, fields map[string]interface{}) error {
	return r.store.Update(ctx, OrderPath(orderID), fields)
}

// UpdateMirror escribe los mismos campos en la copia espejo del cliente.
func (r *OrderRepository) UpdateMirror(ctx context.Context, userID, orderID string, fields map[string]interface{}) error {
	return r.store.Update(ctx, MirrorOrderPath(userID, orderID), fields)
}

// Save crea la orden en el ledger y, si tiene cliente, también el espejo.
// Lo usa el consumer de booking_placed.
func (r *OrderRepository) Save(ctx context.Context, o *model.TransportOrder) error {
	if err := r.store.Set(ctx, OrderPath(o.ID), o); err != nil {
		return err
	}
	if o.UserID == "" {
		return nil
	}
	return r.store.Set(ctx, MirrorOrderPath(o.UserID, o.ID), o)
}

// Subscribe entrega el listado completo, ya invertido, en cada cambio.
func (r *OrderRepository) Subscribe(ctx context.Context) (<-chan []*model.TransportOrder, func(), error) {
	raw, release, err := r.store.Subscribe(ctx, OrdersCollection)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []*model.TransportOrder, 1)
	go func() {
		defer close(out)
		for entries := range raw {
			orders, err := decodeOrders(entries)
			if err != nil {
				continue
			}
			select {
			case out <- orders:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, release, nil
}

func decodeOrders(entries []store.Entry) ([]*model.TransportOrder, error) {
	out := make([]*model.TransportOrder, 0, len(entries))
	// Invertido: la más reciente primero.
	for i := len(entries) - 1; i >= 0; i-- {
		var o model.TransportOrder
		if err := store.Decode(entries[i].Data, &o); err != nil {
			return nil, err
		}
		o.ID = entries[i].Key
		out = append(out, &o)
	}
	return out, nil
}
