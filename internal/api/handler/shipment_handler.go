package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

func shipmentPayload(s *domain.Shipment) any {
	return toShipmentResponse(s)
}

func shipmentListPayload(ss []*domain.Shipment) any {
	return toShipmentList(ss)
}

// Create handles POST /v1/shipments.
//
// @Summary      Register a new shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                 false  "Replays the first result for a repeated request"
// @Param        body             body      createShipmentRequest  true   "Shipment details"
// @Success      201              {object}  envelope
// @Success      200              {object}  envelope  "Idempotent replay"
// @Failure      400              {object}  envelope
// @Failure      409              {object}  envelope
// @Failure      503              {object}  envelope
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	res := h.service.CreateShipment(c.Request().Context(), toCreateInput(req, idempotencyKey))

	status := http.StatusCreated
	if res.Succeeded && res.Payload.AlreadyExisted {
		status = http.StatusOK
	}
	return respond(c, status, res, func(r *ports.CreateShipmentResult) any {
		return toShipmentResponse(r.Shipment)
	})
}

// List handles GET /v1/shipments.
//
// @Summary      List all shipments, newest first
// @Tags         shipments
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      503  {object}  envelope
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.ListAll(c.Request().Context()), shipmentListPayload)
}

// Get handles GET /v1/shipments/:code.
//
// @Summary      Get a shipment by tracking code
// @Tags         shipments
// @Produce      json
// @Param        code  path      string  true  "Tracking code (e.g. ENV001)"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /v1/shipments/{code} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.FindByCode(c.Request().Context(), c.Param("code")), shipmentPayload)
}

// Search handles GET /v1/shipments/search?client=.
//
// @Summary      Find shipments by customer name
// @Tags         shipments
// @Produce      json
// @Param        client  query     string  true  "Part of the customer name, case and accent insensitive"
// @Success      200     {object}  envelope
// @Failure      400     {object}  envelope
// @Router       /v1/shipments/search [get]
func (h *ShipmentHandler) Search(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.FindByClient(c.Request().Context(), c.QueryParam("client")), shipmentListPayload)
}

// Range handles GET /v1/shipments/range?from=&to=.
//
// @Summary      Find shipments created in a date range
// @Tags         shipments
// @Produce      json
// @Param        from  query     string  true  "Start, DD/MM/YYYY HH:MM"
// @Param        to    query     string  true  "End, DD/MM/YYYY HH:MM (whole minute included)"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /v1/shipments/range [get]
func (h *ShipmentHandler) Range(c echo.Context) error {
	res := h.service.FindByDateRange(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
	return respond(c, http.StatusOK, res, shipmentListPayload)
}

// Statistics handles GET /v1/statistics.
//
// @Summary      Shipment totals
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /v1/statistics [get]
func (h *ShipmentHandler) Statistics(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.Statistics(c.Request().Context()), func(s *ports.Statistics) any {
		return toStatisticsResponse(s)
	})
}

// Counter handles GET /v1/counter.
//
// @Summary      Current counter and next tracking code
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /v1/counter [get]
func (h *ShipmentHandler) Counter(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.CounterPreview(c.Request().Context()), func(p *ports.CounterPreview) any {
		return toCounterResponse(p)
	})
}

// ChangeStatus handles PUT /v1/shipments/:code/status.
//
// @Summary      Set a shipment status
// @Tags         status
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string               true  "Tracking code"
// @Param        body  body      changeStatusRequest  true  "Pending, InTransit, Delivered or Cancelled"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /v1/shipments/{code}/status [put]
func (h *ShipmentHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.service.ChangeStatus(c.Request().Context(), c.Param("code"), req.Status), shipmentPayload)
}

// Advance handles POST /v1/shipments/:code/advance.
//
// @Summary      Move a shipment to the next status
// @Tags         status
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string  true  "Tracking code"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /v1/shipments/{code}/advance [post]
func (h *ShipmentHandler) Advance(c echo.Context) error {
	return respond(c, http.StatusOK, h.service.Advance(c.Request().Context(), c.Param("code")), shipmentPayload)
}

// Return handles POST /v1/shipments/:code/return.
//
// @Summary      Record the return of a delivered shipment
// @Tags         status
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string                 true  "Tracking code"
// @Param        body  body      returnShipmentRequest  true  "Return cause"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Failure      422   {object}  envelope
// @Router       /v1/shipments/{code}/return [post]
func (h *ShipmentHandler) Return(c echo.Context) error {
	var req returnShipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.service.ReturnShipment(c.Request().Context(), c.Param("code"), req.Cause), shipmentPayload)
}
