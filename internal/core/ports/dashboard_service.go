package ports

import (
	"context"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// DashboardSummary is derived from the full shipment and customer lists.
type DashboardSummary struct {
	TotalShipments     int
	ActiveDeliveries   int
	CompletedShipments int
	TotalCustomers     int
	RecentShipments    []domain.Shipment
}

// DashboardService aggregates the overview screen.
type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}
