package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ShipmentStatus represents the lifecycle state of a shipment.
//
//	Pending ──advance──> InTransit ──advance──> Delivered ──return──> Returned, cause: <X>
//	   │                     │
//	   └──── manual set ─────┴──> Cancelled
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "Pending"
	StatusInTransit ShipmentStatus = "InTransit"
	StatusDelivered ShipmentStatus = "Delivered"
	StatusCancelled ShipmentStatus = "Cancelled"

	// ReturnedMarker prefixes every returned status, followed by the cause.
	ReturnedMarker = "Returned, cause: "
)

// advanceRules defines the forward chain.
var advanceRules = map[ShipmentStatus]ShipmentStatus{
	StatusPending:   StatusInTransit,
	StatusInTransit: StatusDelivered,
}

// ManualStatuses is the set an operator may set directly.
var ManualStatuses = []ShipmentStatus{StatusPending, StatusInTransit, StatusDelivered, StatusCancelled}

// IsReturned reports whether the status carries the return marker.
func (s ShipmentStatus) IsReturned() bool {
	return strings.HasPrefix(string(s), ReturnedMarker)
}

// Advance moves a shipment one step along the forward chain.
func Advance(current ShipmentStatus) (ShipmentStatus, error) {
	if current == StatusDelivered {
		return "", ErrAlreadyDelivered
	}
	next, ok := advanceRules[current]
	if !ok {
		return "", fmt.Errorf("%w (%s)", ErrNoAdvanceRule, current)
	}
	return next, nil
}

// ManualSet overwrites the status with an operator-chosen value from
// ManualStatuses. Delivered and returned shipments cannot be cancelled.
func ManualSet(current ShipmentStatus, requested string) (ShipmentStatus, error) {
	next, ok := ParseManualStatus(requested)
	if !ok {
		return "", fmt.Errorf("%w: '%s' (allowed: %s)", ErrInvalidStatus, requested, joinStatuses(ManualStatuses))
	}
	if next == StatusCancelled && (current == StatusDelivered || current.IsReturned()) {
		return "", ErrIllegalCancellation
	}
	return next, nil
}

// ProcessReturn records the return of a delivered shipment.
func ProcessReturn(current ShipmentStatus, cause string) (ShipmentStatus, error) {
	if current.IsReturned() {
		return "", ErrAlreadyReturned
	}
	if current != StatusDelivered {
		return "", fmt.Errorf("%w (current status: %s)", ErrNotDelivered, current)
	}
	cause = strings.TrimSpace(cause)
	if cause == "" {
		return "", invalid("cause", "Error: a return cause is required.")
	}
	return ShipmentStatus(ReturnedMarker + capitalize(cause)), nil
}

// ParseManualStatus matches s against ManualStatuses ignoring case, spaces
// and underscores, so "in transit" and "IN_TRANSIT" both map to InTransit.
func ParseManualStatus(s string) (ShipmentStatus, bool) {
	key := statusKey(s)
	for _, st := range ManualStatuses {
		if statusKey(string(st)) == key {
			return st, true
		}
	}
	return "", false
}

func statusKey(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

func joinStatuses(ss []ShipmentStatus) string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return strings.Join(out, ", ")
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// NextCode mints the tracking code for the counter following last.
func NextCode(last int64) (string, int64) {
	next := last + 1
	return fmt.Sprintf("%s%03d", TrackingCodePrefix, next), next
}

// Shipment is the core aggregate root.
type Shipment struct {
	ID           int64          `json:"id" db:"id" bson:"_id"`
	TrackingCode string         `json:"tracking_code" db:"tracking_code" bson:"tracking_code"`
	CustomerName string         `json:"customer_name" db:"customer_name" bson:"customer_name"`
	Address      string         `json:"address" db:"address" bson:"address"`
	Province     string         `json:"province" db:"province" bson:"province"`
	Status       ShipmentStatus `json:"status" db:"status" bson:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at" bson:"updated_at"`
}

// NewShipment builds a Pending shipment from already validated fields,
// normalizing the free-text ones.
func NewShipment(id int64, code, customerName, address, province string) *Shipment {
	return &Shipment{
		ID:           id,
		TrackingCode: code,
		CustomerName: NormalizeText(customerName),
		Address:      NormalizeText(address),
		Province:     province,
		Status:       StatusPending,
	}
}
