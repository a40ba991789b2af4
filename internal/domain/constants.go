package domain

// Business validation constants
const (
	MinParticipants = 1
	MaxParticipants = 500

	MinRating = 1
	MaxRating = 5

	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxInstructorLength  = 100
	MaxFeedbackLength    = 1000
	MaxSubjects          = 20
	MaxTimeSlots         = 24

	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
