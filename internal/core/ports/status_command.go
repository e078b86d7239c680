package ports

import (
	"context"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

// StatusCommandProcessor applies queued status commands.
type StatusCommandProcessor interface {
	Process(ctx context.Context, cmd domain.StatusCommand) error
}
