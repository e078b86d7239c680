package handler

type statusCommandRequest struct {
	TrackingCode string `json:"tracking_code" validate:"required,max=32,tracking_code"`
	Action       string `json:"action"        validate:"required,oneof=advance set return"`
	Status       string `json:"status"        validate:"required_if=Action set,max=32"`
	Cause        string `json:"cause"         validate:"required_if=Action return,max=200"`
}

type acceptedResponse struct {
	Count int `json:"count"`
}
