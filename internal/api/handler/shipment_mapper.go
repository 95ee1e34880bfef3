package handler

import (
	"github.com/moveswift/logistics-console/internal/console"
	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

func (r createShipmentRequest) toInput() ports.ShipmentInput {
	return ports.ShipmentInput{
		CustomerID:    r.CustomerID,
		SendersName:   r.SendersName,
		ReceiversName: r.ReceiversName,
		Origin:        r.Origin,
		Destination:   r.Destination,
		Weight:        string(r.Weight),
		Price:         string(r.Price),
		Status:        domain.ShipmentStatus(r.Status),
		Location:      r.Location,
	}
}

func (r updateShipmentRequest) toUpdate() ports.ShipmentUpdate {
	return ports.ShipmentUpdate{
		SendersName:    r.SendersName,
		ReceiversName:  r.ReceiversName,
		Origin:         r.Origin,
		Destination:    r.Destination,
		Weight:         string(r.Weight),
		Price:          string(r.Price),
		Status:         domain.ShipmentStatus(r.Status),
		Location:       r.Location,
		PreviousStatus: domain.ShipmentStatus(r.PreviousStatus),
	}
}

func toShipmentList(s console.ShipmentBoardState) shipmentListResponse {
	return shipmentListResponse{
		Shipments: nonNil(s.Visible),
		Total:     len(s.Shipments),
		Filter:    s.Filter,
		Stale:     s.Stale,
	}
}

func toShipmentDetail(s console.ShipmentDetailState) shipmentDetailResponse {
	return shipmentDetailResponse{
		Shipment:      s.Shipment,
		Timeline:      nonNil(s.Timeline),
		TimelineError: s.TimelineError,
	}
}

func toTracking(s console.TrackingState) trackingResponse {
	return trackingResponse{
		TrackingNumber: s.TrackingNumber,
		Shipment:       s.Shipment,
		Timeline:       nonNil(s.Timeline),
	}
}

func toDashboard(s *ports.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		TotalShipments:     s.TotalShipments,
		ActiveDeliveries:   s.ActiveDeliveries,
		CompletedShipments: s.CompletedShipments,
		TotalCustomers:     s.TotalCustomers,
		RecentShipments:    nonNil(s.RecentShipments),
	}
}
