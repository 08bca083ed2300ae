package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"care-admin-service/internal/metrics"
	"care-admin-service/internal/model"
	"care-admin-service/internal/timeutil"
)

// Interfaz que debe implementar repository
type OrderRepository interface {
	FindAll(ctx context.Context) ([]*model.TransportOrder, error)
	FindByID(ctx context.Context, orderID string) (*model.TransportOrder, error)
	UpdateLedger(ctx context.Context, orderID string, fields map[string]interface{}) error
	UpdateMirror(ctx context.Context, userID, orderID string, fields map[string]interface{}) error
	Save(ctx context.Context, o *model.TransportOrder) error
	Subscribe(ctx context.Context) (<-chan []*model.TransportOrder, func(), error)
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrInvalidStatus = errors.New("estado de orden inválido")
	// La edición quedó a medias: una copia se escribió y la otra no.
	// El store no tiene rollback, así que solo se reporta.
	ErrPartialWrite = errors.New("la edición se guardó parcialmente")
	ErrWriteFailed  = errors.New("no se pudo guardar la edición de booking")
)

type BookingService struct {
	repo OrderRepository
	loc  *time.Location
}

func NewBookingService(repo OrderRepository, tz string) (*BookingService, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return &BookingService{repo: repo, loc: loc}, nil
}

func (s *BookingService) GetAll(ctx context.Context) ([]*model.TransportOrder, error) {
	return s.repo.FindAll(ctx)
}

func (s *BookingService) Subscribe(ctx context.Context) (<-chan []*model.TransportOrder, func(), error) {
	return s.repo.Subscribe(ctx)
}

// CommitBookingEdit valida el draft (fecha + hora + estado), compone el
// timestamp canónico, deriva el arribo (booking - 10 min) y escribe la
// terna {bookingTime, arrivalTime, status} en el ledger y, si la orden
// tiene cliente, en la copia espejo.
//
// Las dos escrituras se lanzan sin asumir orden entre paths y se espera a
// que ambas terminen. No hay primitiva de transacción: si una falla no se
// revierte la otra, se reporta un único error distinguiendo falla parcial
// de falla total.
func (s *BookingService) CommitBookingEdit(ctx context.Context, orderID, date, timeOfDay, status string) error {
	st := model.OrderStatus(status)
	if !st.IsValid() {
		return ErrInvalidStatus
	}

	// Validación local: sin fecha u hora no se toca la red.
	booking, err := timeutil.ComposeBooking(date, timeOfDay, s.loc)
	if err != nil {
		return err
	}
	arrival := timeutil.Arrival(booking)

	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	// El estado se persiste como enum; el booleano legado es solo de
	// lectura y nunca se escribe de vuelta.
	fields := map[string]interface{}{
		"bookingTime": timeutil.Canonical(booking),
		"arrivalTime": timeutil.Canonical(arrival),
		"status":      string(st),
	}

	var ledgerErr, mirrorErr error
	mirrored := ord.UserID != ""

	var g errgroup.Group
	g.Go(func() error {
		ledgerErr = s.repo.UpdateLedger(ctx, orderID, fields)
		return nil
	})
	if mirrored {
		g.Go(func() error {
			mirrorErr = s.repo.UpdateMirror(ctx, ord.UserID, orderID, fields)
			return nil
		})
	}
	_ = g.Wait()

	switch {
	case ledgerErr == nil && mirrorErr == nil:
		metrics.BookingEditsTotal.Inc()
		return nil
	case ledgerErr != nil && (mirrorErr != nil || !mirrored):
		metrics.OperationErrorsTotal.WithLabelValues("booking_edit").Inc()
		if mirrorErr != nil {
			return fmt.Errorf("%w: ledger: %v; espejo: %v", ErrWriteFailed, ledgerErr, mirrorErr)
		}
		return fmt.Errorf("%w: %v", ErrWriteFailed, ledgerErr)
	default:
		metrics.OperationErrorsTotal.WithLabelValues("booking_edit").Inc()
		failed := ledgerErr
		which := "ledger"
		if failed == nil {
			failed = mirrorErr
			which = "espejo"
		}
		return fmt.Errorf("%w: copia %s: %v", ErrPartialWrite, which, failed)
	}
}
