package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

type commandService struct {
	shipments ports.ShipmentService
	log       zerolog.Logger
}

// NewCommandService returns a StatusCommandProcessor that applies queued
// commands through the shipment service, so they follow the same state
// machine rules as synchronous requests.
func NewCommandService(shipments ports.ShipmentService, log zerolog.Logger) ports.StatusCommandProcessor {
	return &commandService{shipments: shipments, log: log}
}

// Process applies a single status command.
func (s *commandService) Process(ctx context.Context, cmd domain.StatusCommand) error {
	var res ports.Result[*domain.Shipment]
	switch cmd.Action {
	case domain.ActionAdvance:
		res = s.shipments.Advance(ctx, cmd.TrackingCode)
	case domain.ActionSet:
		res = s.shipments.ChangeStatus(ctx, cmd.TrackingCode, cmd.Status)
	case domain.ActionReturn:
		res = s.shipments.ReturnShipment(ctx, cmd.TrackingCode, cmd.Cause)
	default:
		return fmt.Errorf("process command: %w", domain.NewValidationError("action", "Error: unknown action '%s'.", cmd.Action))
	}

	if !res.Succeeded {
		return fmt.Errorf("process command %s on %s: %w", cmd.Action, cmd.TrackingCode, res.Err)
	}

	s.log.Info().
		Str("tracking_code", cmd.TrackingCode).
		Str("action", string(cmd.Action)).
		Str("status", string(res.Payload.Status)).
		Str("source", cmd.Source).
		Msg("command processed")

	return nil
}
