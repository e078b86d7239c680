package domain

import "time"

// StatusAction names the state machine operation a StatusCommand applies.
type StatusAction string

const (
	ActionAdvance StatusAction = "advance"
	ActionSet     StatusAction = "set"
	ActionReturn  StatusAction = "return"
)

// StatusCommand is a status mutation queued for asynchronous processing.
// Status is read for ActionSet, Cause for ActionReturn.
type StatusCommand struct {
	TrackingCode string
	Action       StatusAction
	Status       string
	Cause        string
	Source       string
	ReceivedAt   time.Time
}
