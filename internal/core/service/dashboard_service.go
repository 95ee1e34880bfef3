package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

const recentShipmentsLimit = 5

// DashboardService builds the overview from the full shipment and customer lists.
type DashboardService struct {
	shipments ports.ShipmentService
	customers ports.CustomerService
}

func NewDashboardService(shipments ports.ShipmentService, customers ports.CustomerService) *DashboardService {
	return &DashboardService{shipments: shipments, customers: customers}
}

// Summary fetches both lists concurrently. If either fails no partial
// statistics are returned.
func (s *DashboardService) Summary(ctx context.Context) (*ports.DashboardSummary, error) {
	var (
		shipments []domain.Shipment
		customers []domain.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shipments, err = s.shipments.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.customers.ListActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	summary := Summarize(shipments, customers)
	return &summary, nil
}

// Summarize derives the dashboard statistics. Recent shipments are the first
// five in backend order.
func Summarize(shipments []domain.Shipment, customers []domain.Customer) ports.DashboardSummary {
	out := ports.DashboardSummary{
		TotalShipments: len(shipments),
		TotalCustomers: len(customers),
	}
	for _, sh := range shipments {
		switch {
		case sh.Status.Active():
			out.ActiveDeliveries++
		case sh.Status == domain.StatusDelivered:
			out.CompletedShipments++
		}
	}
	n := min(len(shipments), recentShipmentsLimit)
	out.RecentShipments = append([]domain.Shipment{}, shipments[:n]...)
	return out
}
