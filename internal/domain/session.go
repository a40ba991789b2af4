package domain

import (
	"time"

	"github.com/m04kA/CIM-DemoBookingService/pkg/types"
)

// SessionMode represents how a demo session is delivered
type SessionMode string

const (
	ModeOnline  SessionMode = "online"
	ModeOffline SessionMode = "offline"
	ModeHybrid  SessionMode = "hybrid"
)

// SessionStatus represents the lifecycle status of a demo session
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionLive      SessionStatus = "live"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// SessionKind discriminates the two temporal shapes of a session
type SessionKind string

const (
	// KindFixedInstant - a single dateTime + duration, capacity applies to that one instant
	KindFixedInstant SessionKind = "fixed_instant"
	// KindMultiSlot - a set of dates x a set of time-slot labels, each pair independently bookable
	KindMultiSlot SessionKind = "multi_slot"
)

// DemoSession represents a published, bookable demo offering of a coaching profile
type DemoSession struct {
	ID        int64
	ProfileID int64 // Owning coaching profile (operators are resolved via ProfileService)
	CourseID  int64

	Title       string
	Description *string
	Mode        SessionMode
	Instructor  string
	Subjects    []string

	MaxParticipants int // Capacity per bookable instant

	Kind SessionKind

	// Fixed-instant shape
	DateTime        *time.Time
	DurationMinutes int

	// Multi-slot shape
	AvailableDates []time.Time // Calendar dates (midnight, no time component)
	TimeSlots      []string    // Free-text time-range labels, e.g. "10:00-11:00"
	DemoDays       int         // Upper bound on how many days the offering spans (0 = unbounded)

	Status SessionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the session is in a terminal state
func (s *DemoSession) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionCancelled
}

// CanBeEdited returns true if the session fields may still be mutated
func (s *DemoSession) CanBeEdited() bool {
	return !s.IsTerminal()
}

// IsMultiSlot returns true for the multi-date/multi-slot temporal shape
func (s *DemoSession) IsMultiSlot() bool {
	return s.Kind == KindMultiSlot
}

// CanTransitionTo validates an owner-driven status transition
// Allowed: scheduled -> live, scheduled -> cancelled, live -> completed
func (s *DemoSession) CanTransitionTo(next SessionStatus) bool {
	switch s.Status {
	case SessionScheduled:
		return next == SessionLive || next == SessionCancelled
	case SessionLive:
		return next == SessionCompleted
	default:
		return false
	}
}

// HasDate returns true if date is one of the session's available dates
func (s *DemoSession) HasDate(date time.Time) bool {
	for _, d := range s.AvailableDates {
		if sameDay(d, date) {
			return true
		}
	}
	return false
}

// HasTimeSlot returns true if label is one of the session's declared time slots
func (s *DemoSession) HasTimeSlot(label string) bool {
	for _, slot := range s.TimeSlots {
		if slot == label {
			return true
		}
	}
	return false
}

// SlotStart resolves the wall-clock start of the bookable instant identified by
// (selectedDate, selectedTime). For fixed-instant sessions the instant is the
// session's own dateTime. Returns ok=false if the slot cannot be resolved to a
// point in time (unparsable free-text label); callers then fall back to SlotPassed.
func (s *DemoSession) SlotStart(selectedDate *time.Time, selectedTime *string) (time.Time, bool) {
	if s.Kind == KindFixedInstant {
		if s.DateTime == nil {
			return time.Time{}, false
		}
		return *s.DateTime, true
	}

	if selectedDate == nil || selectedTime == nil {
		return time.Time{}, false
	}

	rng, err := types.ParseTimeRange(*selectedTime)
	if err != nil {
		return time.Time{}, false
	}

	start, err := rng.Start.OnDate(*selectedDate)
	if err != nil {
		return time.Time{}, false
	}

	return start, true
}

// SlotPassed reports whether the bookable instant identified by
// (selectedDate, selectedTime) lies in the past. When the slot label cannot be
// parsed, the slot counts as passed once its calendar date is over.
func (s *DemoSession) SlotPassed(selectedDate *time.Time, selectedTime *string, now time.Time) bool {
	if start, ok := s.SlotStart(selectedDate, selectedTime); ok {
		return !start.After(now)
	}

	if s.Kind == KindMultiSlot && selectedDate != nil {
		endOfDay := time.Date(
			selectedDate.Year(), selectedDate.Month(), selectedDate.Day(),
			0, 0, 0, 0, selectedDate.Location(),
		).AddDate(0, 0, 1)
		return !endOfDay.After(now)
	}

	return false
}

// SessionFilter filter for listing demo sessions
type SessionFilter struct {
	Mode       *SessionMode
	CourseID   *int64
	Status     *SessionStatus
	ProfileIDs []int64 // Restrict to these owners (resolved from a city filter); nil = no restriction
	Search     *string // Case-insensitive substring over title and instructor
}

// sameDay returns true if both timestamps fall on the same calendar date
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
