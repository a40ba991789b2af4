package update_session

import (
	"fmt"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions/models"
)

// UpdateSessionRequest HTTP request model; отсутствующие поля не меняются
type UpdateSessionRequest struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Mode            *string  `json:"mode,omitempty"`
	Instructor      *string  `json:"instructor,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	MaxParticipants *int     `json:"maxParticipants,omitempty"`
	DateTime        *string  `json:"dateTime,omitempty"` // RFC3339
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	AvailableDates  []string `json:"availableDates,omitempty"` // "2006-01-02"
	TimeSlots       []string `json:"timeSlots,omitempty"`
	DemoDays        *int     `json:"demoDays,omitempty"`
	Status          *string  `json:"status,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом дат)
func (r *UpdateSessionRequest) ToServiceRequest(userID int64) (*models.UpdateSessionRequest, error) {
	req := &models.UpdateSessionRequest{
		UserID:          userID,
		Title:           r.Title,
		Description:     r.Description,
		Mode:            r.Mode,
		Instructor:      r.Instructor,
		Subjects:        r.Subjects,
		MaxParticipants: r.MaxParticipants,
		DurationMinutes: r.DurationMinutes,
		TimeSlots:       r.TimeSlots,
		DemoDays:        r.DemoDays,
		Status:          r.Status,
	}

	if r.DateTime != nil {
		parsed, err := time.Parse(time.RFC3339, *r.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parse dateTime: %w", err)
		}
		req.DateTime = &parsed
	}

	if r.AvailableDates != nil {
		dates := make([]time.Time, len(r.AvailableDates))
		for i, raw := range r.AvailableDates {
			parsed, err := time.Parse(domain.DateFormat, raw)
			if err != nil {
				return nil, fmt.Errorf("parse availableDates[%d]: %w", i, err)
			}
			dates[i] = parsed
		}
		req.AvailableDates = dates
	}

	return req, nil
}
