package mark_outcome

// MarkOutcomeRequest HTTP request model
type MarkOutcomeRequest struct {
	Outcome string `json:"outcome"` // completed | no_show
}
