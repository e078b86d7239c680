package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub service
// ---------------------------------------------------------------------------

type stubShipmentService struct {
	createFn  func(ctx context.Context, in ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult]
	findFn    func(ctx context.Context, code string) ports.Result[*domain.Shipment]
	clientFn  func(ctx context.Context, name string) ports.Result[[]*domain.Shipment]
	rangeFn   func(ctx context.Context, start, end string) ports.Result[[]*domain.Shipment]
	listFn    func(ctx context.Context) ports.Result[[]*domain.Shipment]
	setFn     func(ctx context.Context, code, requested string) ports.Result[*domain.Shipment]
	advanceFn func(ctx context.Context, code string) ports.Result[*domain.Shipment]
	returnFn  func(ctx context.Context, code, cause string) ports.Result[*domain.Shipment]
	statsFn   func(ctx context.Context) ports.Result[*ports.Statistics]
	counterFn func(ctx context.Context) ports.Result[*ports.CounterPreview]
}

func (s *stubShipmentService) CreateShipment(ctx context.Context, in ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult] {
	return s.createFn(ctx, in)
}
func (s *stubShipmentService) FindByCode(ctx context.Context, code string) ports.Result[*domain.Shipment] {
	return s.findFn(ctx, code)
}
func (s *stubShipmentService) FindByClient(ctx context.Context, name string) ports.Result[[]*domain.Shipment] {
	return s.clientFn(ctx, name)
}
func (s *stubShipmentService) FindByDateRange(ctx context.Context, start, end string) ports.Result[[]*domain.Shipment] {
	return s.rangeFn(ctx, start, end)
}
func (s *stubShipmentService) ListAll(ctx context.Context) ports.Result[[]*domain.Shipment] {
	return s.listFn(ctx)
}
func (s *stubShipmentService) ChangeStatus(ctx context.Context, code, requested string) ports.Result[*domain.Shipment] {
	return s.setFn(ctx, code, requested)
}
func (s *stubShipmentService) Advance(ctx context.Context, code string) ports.Result[*domain.Shipment] {
	return s.advanceFn(ctx, code)
}
func (s *stubShipmentService) ReturnShipment(ctx context.Context, code, cause string) ports.Result[*domain.Shipment] {
	return s.returnFn(ctx, code, cause)
}
func (s *stubShipmentService) Statistics(ctx context.Context) ports.Result[*ports.Statistics] {
	return s.statsFn(ctx)
}
func (s *stubShipmentService) CounterPreview(ctx context.Context) ports.Result[*ports.CounterPreview] {
	return s.counterFn(ctx)
}

func sampleShipment() *domain.Shipment {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Shipment{
		ID: 1, TrackingCode: "ENV001", CustomerName: "Jose Perez", Address: "Av Hipolito 12",
		Province: "Cordoba", Status: domain.StatusPending, CreatedAt: ts, UpdatedAt: ts,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestShipmentHandler_Create_Success(t *testing.T) {
	stub := &stubShipmentService{
		createFn: func(_ context.Context, in ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult] {
			if in.CustomerName != "José Pérez" || in.Province != "còrdoba" || in.IdempotencyKey != "req-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return ports.OK(&ports.CreateShipmentResult{Shipment: sampleShipment()}, "Shipment ENV001 created successfully.")
		},
	}
	h := NewShipmentHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/shipments",
		`{"customer_name":"José Pérez","address":"Av Hipolito 12","province":"còrdoba"}`)
	c.Request().Header.Set("Idempotency-Key", "req-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["succeeded"] != true || resp["message"] != "Shipment ENV001 created successfully." {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	payload, ok := resp["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected payload object")
	}
	if payload["tracking_code"] != "ENV001" || payload["province"] != "Cordoba" || payload["status"] != "Pending" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestShipmentHandler_Create_Replay(t *testing.T) {
	stub := &stubShipmentService{
		createFn: func(context.Context, ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult] {
			return ports.OK(&ports.CreateShipmentResult{Shipment: sampleShipment(), AlreadyExisted: true}, "replayed")
		},
	}
	c, rec := newContext(http.MethodPost, "/v1/shipments", `{"customer_name":"Ana","address":"Calle 1","province":"Salta"}`)

	if err := NewShipmentHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", rec.Code)
	}
}

func TestShipmentHandler_Create_InvalidPayload(t *testing.T) {
	stub := &stubShipmentService{
		createFn: func(context.Context, ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult] {
			t.Fatalf("should not be called")
			return ports.Result[*ports.CreateShipmentResult]{}
		},
	}
	h := NewShipmentHandler(stub)

	for name, body := range map[string]string{
		"not json":      "not-json",
		"name too long": fmt.Sprintf(`{"customer_name":"%s"}`, strings.Repeat("a", 256)),
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/v1/shipments", body)
			err := h.Create(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestShipmentHandler_Create_ValidationFailureIsReturned(t *testing.T) {
	stub := &stubShipmentService{
		createFn: func(context.Context, ports.CreateShipmentInput) ports.Result[*ports.CreateShipmentResult] {
			return ports.Fail[*ports.CreateShipmentResult](domain.NewValidationError("province", "Error: 'Atlantis' is not a valid province in Argentina."))
		},
	}
	c, _ := newContext(http.MethodPost, "/v1/shipments", `{"customer_name":"Ana","address":"Calle 1","province":"Atlantis"}`)

	err := NewShipmentHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for the error handler, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestShipmentHandler_Get(t *testing.T) {
	stub := &stubShipmentService{
		findFn: func(_ context.Context, code string) ports.Result[*domain.Shipment] {
			if code != "env001" {
				t.Fatalf("unexpected code %q", code)
			}
			return ports.OK(sampleShipment(), "Shipment ENV001 found.")
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/shipments/env001", "")
	c.SetParamNames("code")
	c.SetParamValues("env001")

	if err := NewShipmentHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload := decodeEnvelope(t, rec)["payload"].(map[string]any)
	if payload["customer_name"] != "Jose Perez" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestShipmentHandler_SearchAndRangePassQueryParams(t *testing.T) {
	stub := &stubShipmentService{
		clientFn: func(_ context.Context, name string) ports.Result[[]*domain.Shipment] {
			if name != "josé" {
				t.Fatalf("unexpected client %q", name)
			}
			return ports.OK([]*domain.Shipment{}, "No shipments found for client 'josé'.")
		},
		rangeFn: func(_ context.Context, start, end string) ports.Result[[]*domain.Shipment] {
			if start != "01/01/2024 00:00" || end != "31/01/2024 23:59" {
				t.Fatalf("unexpected range %q - %q", start, end)
			}
			return ports.OK([]*domain.Shipment{sampleShipment()}, "Found 1 shipment(s) in the given range.")
		},
	}
	h := NewShipmentHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/shipments/search?client=jos%C3%A9", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("search error: %v", err)
	}
	payload, ok := decodeEnvelope(t, rec)["payload"].([]any)
	if !ok || len(payload) != 0 {
		t.Fatalf("expected empty list payload, got %s", rec.Body.String())
	}

	c, rec = newContext(http.MethodGet, "/v1/shipments/range?from=01%2F01%2F2024+00%3A00&to=31%2F01%2F2024+23%3A59", "")
	if err := h.Range(c); err != nil {
		t.Fatalf("range error: %v", err)
	}
	if payload := decodeEnvelope(t, rec)["payload"].([]any); len(payload) != 1 {
		t.Fatalf("expected one shipment, got %d", len(payload))
	}
}

func TestShipmentHandler_StatisticsAndCounter(t *testing.T) {
	stub := &stubShipmentService{
		statsFn: func(context.Context) ports.Result[*ports.Statistics] {
			return ports.OK(&ports.Statistics{TotalShipments: 5, DistinctProvinces: 3}, "5 shipment(s) to 3 province(s).")
		},
		counterFn: func(context.Context) ports.Result[*ports.CounterPreview] {
			return ports.OK(&ports.CounterPreview{Counter: 5, NextCode: "ENV006"}, "Next tracking code: ENV006.")
		},
	}
	h := NewShipmentHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/statistics", "")
	if err := h.Statistics(c); err != nil {
		t.Fatalf("statistics error: %v", err)
	}
	stats := decodeEnvelope(t, rec)["payload"].(map[string]any)
	if stats["total_shipments"] != float64(5) || stats["distinct_provinces"] != float64(3) {
		t.Fatalf("unexpected statistics: %+v", stats)
	}

	c, rec = newContext(http.MethodGet, "/v1/counter", "")
	if err := h.Counter(c); err != nil {
		t.Fatalf("counter error: %v", err)
	}
	if counter := decodeEnvelope(t, rec)["payload"].(map[string]any); counter["next_code"] != "ENV006" {
		t.Fatalf("unexpected counter: %+v", counter)
	}
}

// ---------------------------------------------------------------------------
// Status changes
// ---------------------------------------------------------------------------

func TestShipmentHandler_ChangeStatus(t *testing.T) {
	stub := &stubShipmentService{
		setFn: func(_ context.Context, code, requested string) ports.Result[*domain.Shipment] {
			if code != "ENV001" || requested != "in transit" {
				t.Fatalf("unexpected args %q %q", code, requested)
			}
			s := sampleShipment()
			s.Status = domain.StatusInTransit
			return ports.OK(s, "changed")
		},
	}
	c, rec := newContext(http.MethodPut, "/v1/shipments/ENV001/status", `{"status":"in transit"}`)
	c.SetParamNames("code")
	c.SetParamValues("ENV001")

	if err := NewShipmentHandler(stub).ChangeStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if payload := decodeEnvelope(t, rec)["payload"].(map[string]any); payload["status"] != "InTransit" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestShipmentHandler_ChangeStatus_MissingStatus(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/v1/shipments/ENV001/status", `{}`)
	err := NewShipmentHandler(&stubShipmentService{}).ChangeStatus(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if !strings.Contains(fmt.Sprint(he.Message), "status is required") {
		t.Errorf("expected json field name in message, got %v", he.Message)
	}
}

func TestShipmentHandler_AdvanceAndReturnFailures(t *testing.T) {
	stub := &stubShipmentService{
		advanceFn: func(context.Context, string) ports.Result[*domain.Shipment] {
			return ports.Fail[*domain.Shipment](domain.ErrAlreadyDelivered)
		},
		returnFn: func(_ context.Context, _, cause string) ports.Result[*domain.Shipment] {
			if cause != "broken" {
				t.Fatalf("unexpected cause %q", cause)
			}
			return ports.Fail[*domain.Shipment](domain.ErrNotDelivered)
		},
	}
	h := NewShipmentHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/shipments/ENV001/advance", "")
	if err := h.Advance(c); !errors.Is(err, domain.ErrAlreadyDelivered) {
		t.Fatalf("expected ErrAlreadyDelivered, got %v", err)
	}

	c, _ = newContext(http.MethodPost, "/v1/shipments/ENV001/return", `{"cause":"broken"}`)
	if err := h.Return(c); !errors.Is(err, domain.ErrNotDelivered) {
		t.Fatalf("expected ErrNotDelivered, got %v", err)
	}
}
