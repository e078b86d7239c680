package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

const maxBatchSize = 1000

// CommandDispatcher is the interface the handler uses to enqueue commands.
type CommandDispatcher interface {
	EnqueueBatch(cmds []domain.StatusCommand) error
}

// CommandHandler handles asynchronous status command ingestion.
type CommandHandler struct {
	dispatcher CommandDispatcher
	now        func() time.Time
}

// NewCommandHandler creates a CommandHandler backed by the given dispatcher.
func NewCommandHandler(dispatcher CommandDispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher, now: time.Now}
}

// ReceiveBatch handles POST /v1/shipments/status/batch. The whole batch is
// validated before anything is enqueued; commands on the same tracking code
// are applied in array order.
//
// @Summary      Queue a batch of status commands
// @Tags         status
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []statusCommandRequest  true  "Status commands"
// @Success      202   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      503   {object}  envelope
// @Router       /v1/shipments/status/batch [post]
func (h *CommandHandler) ReceiveBatch(c echo.Context) error {
	var reqs []statusCommandRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("batch exceeds %d commands", maxBatchSize))
	}

	source := requestSource(c)
	received := h.now().UTC()
	cmds := make([]domain.StatusCommand, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("command[%d]: %s", i, err.Error()))
		}
		cmds = append(cmds, domain.StatusCommand{
			TrackingCode: strings.ToUpper(strings.TrimSpace(req.TrackingCode)),
			Action:       domain.StatusAction(req.Action),
			Status:       req.Status,
			Cause:        req.Cause,
			Source:       source,
			ReceivedAt:   received,
		})
	}

	if err := h.dispatcher.EnqueueBatch(cmds); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "command queue is not accepting work").SetInternal(err)
	}
	return c.JSON(http.StatusAccepted, envelope{
		Succeeded: true,
		Message:   fmt.Sprintf("%d command(s) accepted.", len(cmds)),
		Payload:   acceptedResponse{Count: len(cmds)},
	})
}
