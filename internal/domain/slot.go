package domain

import "time"

// SlotAvailability represents remaining availability of one bookable instant
type SlotAvailability struct {
	Date           time.Time // Zero for fixed-instant sessions
	TimeSlot       string    // Slot label; empty for fixed-instant sessions
	AvailableSeats int
	TotalSeats     int
}

// IsFull returns true if the slot has no available seats
func (s *SlotAvailability) IsFull() bool {
	return s.AvailableSeats <= 0
}
