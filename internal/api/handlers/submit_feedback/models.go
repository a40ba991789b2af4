package submit_feedback

// SubmitFeedbackRequest HTTP request model
type SubmitFeedbackRequest struct {
	Feedback *string `json:"feedback,omitempty"`
	Rating   *int    `json:"rating,omitempty"` // 1-5
}
