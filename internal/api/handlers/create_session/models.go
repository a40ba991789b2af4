package create_session

import (
	"fmt"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions/models"
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	ProfileID   int64    `json:"profileId"`
	CourseID    int64    `json:"courseId"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Mode        string   `json:"mode"`
	Instructor  string   `json:"instructor"`
	Subjects    []string `json:"subjects,omitempty"`

	MaxParticipants int `json:"maxParticipants"`

	// Fixed-instant форма
	DateTime        *string `json:"dateTime,omitempty"` // RFC3339
	DurationMinutes int     `json:"durationMinutes,omitempty"`

	// Multi-slot форма
	AvailableDates []string `json:"availableDates,omitempty"` // "2006-01-02"
	TimeSlots      []string `json:"timeSlots,omitempty"`
	DemoDays       int      `json:"demoDays,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом дат)
func (r *CreateSessionRequest) ToServiceRequest(userID int64) (*models.CreateSessionRequest, error) {
	req := &models.CreateSessionRequest{
		UserID:          userID,
		ProfileID:       r.ProfileID,
		CourseID:        r.CourseID,
		Title:           r.Title,
		Description:     r.Description,
		Mode:            r.Mode,
		Instructor:      r.Instructor,
		Subjects:        r.Subjects,
		MaxParticipants: r.MaxParticipants,
		DurationMinutes: r.DurationMinutes,
		TimeSlots:       r.TimeSlots,
		DemoDays:        r.DemoDays,
	}

	if r.DateTime != nil {
		parsed, err := time.Parse(time.RFC3339, *r.DateTime)
		if err != nil {
			return nil, fmt.Errorf("parse dateTime: %w", err)
		}
		req.DateTime = &parsed
	}

	if len(r.AvailableDates) > 0 {
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
