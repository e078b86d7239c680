package handler

import "time"

// envelope is the body of every response, success or failure.
type envelope struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	Payload   any    `json:"payload"`
}

// --- Request types ---

// Field contents are checked by the domain validators so their messages
// reach the caller unchanged; the tags here only bound the sizes.
type createShipmentRequest struct {
	CustomerName string `json:"customer_name" validate:"max=255"`
	Address      string `json:"address"       validate:"max=255"`
	Province     string `json:"province"      validate:"max=64"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type returnShipmentRequest struct {
	Cause string `json:"cause" validate:"max=200"`
}

// --- Response types ---

type shipmentResponse struct {
	ID           int64     `json:"id"`
	TrackingCode string    `json:"tracking_code"`
	CustomerName string    `json:"customer_name"`
	Address      string    `json:"address"`
	Province     string    `json:"province"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type statisticsResponse struct {
	TotalShipments    int64 `json:"total_shipments"`
	DistinctProvinces int64 `json:"distinct_provinces"`
}

type counterResponse struct {
	Counter  int64  `json:"counter"`
	NextCode string `json:"next_code"`
}
