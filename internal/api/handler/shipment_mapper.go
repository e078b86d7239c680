package handler

import (
	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest, idempotencyKey string) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		CustomerName:   req.CustomerName,
		Address:        req.Address,
		Province:       req.Province,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service result → HTTP response ---

func toShipmentResponse(s *domain.Shipment) shipmentResponse {
	return shipmentResponse{
		ID:           s.ID,
		TrackingCode: s.TrackingCode,
		CustomerName: s.CustomerName,
		Address:      s.Address,
		Province:     s.Province,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
	}
}

func toShipmentList(ss []*domain.Shipment) []shipmentResponse {
	out := make([]shipmentResponse, 0, len(ss))
	for _, s := range ss {
		out = append(out, toShipmentResponse(s))
	}
	return out
}

func toStatisticsResponse(s *ports.Statistics) statisticsResponse {
	return statisticsResponse{TotalShipments: s.TotalShipments, DistinctProvinces: s.DistinctProvinces}
}

func toCounterResponse(p *ports.CounterPreview) counterResponse {
	return counterResponse{Counter: p.Counter, NextCode: p.NextCode}
}
