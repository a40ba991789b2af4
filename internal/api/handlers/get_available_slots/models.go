package get_available_slots

import (
	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/CIM-DemoBookingService/internal/usecase/get_available_slots"
)

// SlotResponse один слот с остатком мест
type SlotResponse struct {
	Date           *string `json:"date,omitempty"` // "2006-01-02"; отсутствует для fixed-instant
	TimeSlot       string  `json:"timeSlot,omitempty"`
	AvailableSeats int     `json:"availableSeats"`
	TotalSeats     int     `json:"totalSeats"`
}

// AvailableSlotsResponse HTTP ответ со слотами сессии
type AvailableSlotsResponse struct {
	SessionID          int64          `json:"sessionId"`
	Kind               string         `json:"kind"`
	Slots              []SlotResponse `json:"slots"`
	AvailableTimeSlots []string       `json:"availableTimeSlots,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		item := SlotResponse{
			TimeSlot:       s.TimeSlot,
			AvailableSeats: s.AvailableSeats,
			TotalSeats:     s.TotalSeats,
		}
		if !s.Date.IsZero() {
			formatted := s.Date.Format(domain.DateFormat)
			item.Date = &formatted
		}
		slots = append(slots, item)
	}

	return &AvailableSlotsResponse{
		SessionID:          resp.SessionID,
		Kind:               string(resp.Kind),
		Slots:              slots,
		AvailableTimeSlots: resp.AvailableTimeSlots,
	}
}
