package cancel_session

// CancelSessionRequest HTTP request model
type CancelSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}
