package services

import (
	"context"
	"time"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context, viewer authz.Viewer) (*DashboardStats, error)
}

type analyticsService struct {
	packageRepo interfaces.PackageRepository
	offerRepo   interfaces.OfferRepository
	invoiceRepo interfaces.InvoiceRepository
}

func NewAnalyticsService(
	packageRepo interfaces.PackageRepository,
	offerRepo interfaces.OfferRepository,
	invoiceRepo interfaces.InvoiceRepository,
) AnalyticsService {
	return &analyticsService{
		packageRepo: packageRepo,
		offerRepo:   offerRepo,
		invoiceRepo: invoiceRepo,
	}
}

// DashboardStats summarizes the viewer's slice of the marketplace.
type DashboardStats struct {
	TotalPackages    int64                          `json:"total_packages"`
	ByStatus         map[models.PackageStatus]int64 `json:"by_status"`
	ActiveDeliveries int64                          `json:"active_deliveries"`
	Completed        int64                          `json:"completed"`
	Offers           int64                          `json:"offers"`
	InvoicedAmount   float64                        `json:"invoiced_amount"`
	PaidAmount       float64                        `json:"paid_amount"`
	GeneratedAt      time.Time                      `json:"generated_at"`
}

func (s *analyticsService) Dashboard(ctx context.Context, viewer authz.Viewer) (*DashboardStats, error) {
	counts, err := s.packageRepo.CountByStatus(ctx, authz.ScopePackages(viewer))
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	offers, err := s.offerRepo.Count(ctx, authz.ScopeOffers(viewer))
	if err != nil {
		return nil, err
	}

	invoiced, paid, err := s.invoiceRepo.SumAmounts(ctx, authz.ScopeInvoices(viewer))
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalPackages:    total,
		ByStatus:         counts,
		ActiveDeliveries: counts[models.PackageStatusBooked] + counts[models.PackageStatusLoaded],
		Completed:        counts[models.PackageStatusDelivered],
		Offers:           offers,
		InvoicedAmount:   invoiced,
		PaidAmount:       paid,
		GeneratedAt:      time.Now(),
	}, nil
}
