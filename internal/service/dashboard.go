package service

import (
	"context"

	"care-admin-service/internal/dto"
	"care-admin-service/internal/model"
	"care-admin-service/internal/repository"
)

// DashboardService arma los números de las cards y del wallet agregando
// lecturas reales del store (la pantalla original los tenía hardcodeados).
type DashboardService struct {
	orders      *repository.OrderRepository
	pathologies *repository.PathologyRepository
	hospitals   *repository.HospitalRepository
}

func NewDashboardService(o *repository.OrderRepository, p *repository.PathologyRepository, h *repository.HospitalRepository) *DashboardService {
	return &DashboardService{orders: o, pathologies: p, hospitals: h}
}

func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	pathologies, err := s.pathologies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	hospitals, err := s.hospitals.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	sum := &dto.DashboardSummary{
		TotalOrders:      len(orders),
		TotalHospitals:   len(hospitals),
		TotalPathologies: len(pathologies),
	}
	for _, o := range orders {
		switch o.EffectiveStatus() {
		case model.StatusPending:
			sum.PendingOrders++
		case model.StatusConfirmed:
			sum.ConfirmedOrders++
		case model.StatusCompleted:
			sum.CompletedOrders++
		}
	}
	for _, p := range pathologies {
		if p.Verified {
			sum.VerifiedPathologies++
		} else {
			sum.PendingVerifications++
		}
	}

	revenue, _, _, err := s.revenue(ctx, pathologies)
	if err != nil {
		return nil, err
	}
	sum.TotalRevenue = revenue
	return sum, nil
}

func (s *DashboardService) Wallet(ctx context.Context) (*dto.WalletSummary, error) {
	pathologies, err := s.pathologies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	revenue, captured, count, err := s.revenue(ctx, pathologies)
	if err != nil {
		return nil, err
	}
	return &dto.WalletSummary{
		TotalRevenue:     revenue,
		CapturedBalance:  captured,
		TransactionCount: count,
	}, nil
}

// revenue recorre las transacciones de todos los partners. El balance
// capturado solo suma pagos con status "captured" del proveedor externo.
func (s *DashboardService) revenue(ctx context.Context, pathologies []*model.PathologyPartner) (total, captured float64, count int, err error) {
	for _, p := range pathologies {
		txs, err := s.pathologies.Transactions(ctx, p.ID)
		if err != nil {
			return 0, 0, 0, err
		}
		for _, tx := range txs {
			total += tx.TotalAmount
			count++
			if tx.PaymentDetails.Status == "captured" {
				captured += tx.PaymentDetails.Amount
			}
		}
	}
	return total, captured, count, nil
}
