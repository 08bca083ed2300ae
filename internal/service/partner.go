package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"care-admin-service/internal/metrics"
	"care-admin-service/internal/model"
	"care-admin-service/internal/repository"
)

type PartnerService struct {
	repo *repository.PathologyRepository
}

func NewPartnerService(r *repository.PathologyRepository) *PartnerService {
	return &PartnerService{repo: r}
}

// GetAll lista las pathologies, con filtro opcional por nombre/teléfono/
// dirección. El filtro es puro, sobre el snapshot ya leído.
func (s *PartnerService) GetAll(ctx context.Context, query string) ([]*model.PathologyPartner, error) {
	partners, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterPathologies(partners, query), nil
}

// GetUnverified es la vista "pendientes de verificación": solo las que
// todavía no tienen el flag.
func (s *PartnerService) GetUnverified(ctx context.Context) ([]*model.PathologyPartner, error) {
	partners, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := partners[:0]
	for _, p := range partners {
		if !p.Verified {
			out = append(out, p)
		}
	}
	return out, nil
}

// Verify levanta el flag de verificación del partner. Sin deshacer: una
// vez verificado queda visible en el listado público para siempre.
// Si la escritura falla, la vista queda desincronizada hasta la próxima
// recarga; aceptado por ser una acción admin de baja frecuencia.
func (s *PartnerService) Verify(ctx context.Context, partnerID string) error {
	if _, err := s.repo.FindByID(ctx, partnerID); err != nil {
		return err
	}
	if err := s.repo.Verify(ctx, partnerID); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("verify_pathology").Inc()
		return err
	}
	metrics.PathologiesVerifiedTotal.Inc()
	return nil
}

func (s *PartnerService) Subscribe(ctx context.Context) (<-chan []*model.PathologyPartner, func(), error) {
	return s.repo.Subscribe(ctx)
}

// Transactions devuelve el historial de un partner, con búsqueda por
// clave/contacto/monto y orden por fecha de inicio.
func (s *PartnerService) Transactions(ctx context.Context, partnerID, query, sortOrder string) ([]*model.Transaction, error) {
	txs, err := s.repo.Transactions(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if query != "" {
		q := strings.ToLower(query)
		filtered := txs[:0]
		for _, tx := range txs {
			if strings.Contains(strings.ToLower(tx.TransactionKey), q) ||
				strings.Contains(strings.ToLower(tx.PaymentDetails.Email), q) ||
				strings.Contains(strings.ToLower(tx.PaymentDetails.Contact), q) ||
				strings.Contains(fmt.Sprintf("%v", tx.TotalAmount), q) {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}
	if sortOrder == "asc" {
		sort.Slice(txs, func(i, j int) bool {
			return txs[i].InitiatedAt < txs[j].InitiatedAt
		})
	}
	return txs, nil
}

func filterPathologies(partners []*model.PathologyPartner, query string) []*model.PathologyPartner {
	if query == "" {
		return partners
	}
	q := strings.ToLower(query)
	out := partners[:0]
	for _, p := range partners {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.PhoneNo), q) ||
			strings.Contains(strings.ToLower(p.Address), q) {
			out = append(out, p)
		}
	}
	return out
}
