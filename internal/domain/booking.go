package domain

import "time"

// BookingStatus represents the status of a demo booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// DemoBooking represents one seat reservation against one bookable instant of a session
type DemoBooking struct {
	ID        int64
	SessionID int64
	StudentID int64

	// Denormalized student details for the owner's roster
	StudentName  string
	StudentEmail string

	// Slot claimed by this booking; nil for fixed-instant sessions
	// (there the instant is implicit from the session)
	SelectedDate *time.Time
	SelectedTime *string

	Status   BookingStatus
	Attended bool

	// Post-session feedback, attachable only once the booking is completed
	Feedback *string
	Rating   *int

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds a seat
// Only confirmed bookings count against capacity
func (b *DemoBooking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking is in a terminal state
func (b *DemoBooking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking may transition to cancelled
func (b *DemoBooking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanAcceptOutcome returns true if the booking may transition to completed/no_show
func (b *DemoBooking) CanAcceptOutcome() bool {
	return b.Status == StatusConfirmed
}

// CanAcceptFeedback returns true if feedback/rating may be attached
func (b *DemoBooking) CanAcceptFeedback() bool {
	return b.Status == StatusCompleted
}

// SessionBookingsFilter filter for reading a session's bookings
type SessionBookingsFilter struct {
	SessionID       int64
	SelectedDate    *time.Time     // Restrict to one calendar date (optional)
	SelectedTime    *string        // Restrict to one time-slot label (optional)
	Status          *BookingStatus // Restrict to one status (optional)
	IncludeInactive bool           // Include cancelled/completed/no_show rows
}

// TerminalStatuses statuses a booking can never leave
var TerminalStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
