package list_sessions

import (
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	listBookableSessions "github.com/m04kA/CIM-DemoBookingService/internal/usecase/list_bookable_sessions"
)

// SessionSummaryResponse одна сессия каталога в HTTP ответе
type SessionSummaryResponse struct {
	ID              int64    `json:"id"`
	ProfileID       int64    `json:"profileId"`
	CourseID        int64    `json:"courseId"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	Mode            string   `json:"mode"`
	Instructor      string   `json:"instructor"`
	Subjects        []string `json:"subjects,omitempty"`
	MaxParticipants int      `json:"maxParticipants"`
	Kind            string   `json:"kind"`
	DateTime        *string  `json:"dateTime,omitempty"` // RFC3339
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	AvailableDates  []string `json:"availableDates,omitempty"` // "2006-01-02"
	TimeSlots       []string `json:"timeSlots,omitempty"`

	OrganizationName *string `json:"organizationName,omitempty"`
	City             *string `json:"city,omitempty"`
}

// ListSessionsResponse HTTP ответ каталога
type ListSessionsResponse struct {
	Sessions []SessionSummaryResponse `json:"sessions"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listBookableSessions.Response) *ListSessionsResponse {
	out := make([]SessionSummaryResponse, 0, len(resp.Sessions))
	for _, s := range resp.Sessions {
		item := SessionSummaryResponse{
			ID:               s.ID,
			ProfileID:        s.ProfileID,
			CourseID:         s.CourseID,
			Title:            s.Title,
			Description:      s.Description,
			Mode:             string(s.Mode),
			Instructor:       s.Instructor,
			Subjects:         s.Subjects,
			MaxParticipants:  s.MaxParticipants,
			Kind:             string(s.Kind),
			DurationMinutes:  s.DurationMinutes,
			TimeSlots:        s.TimeSlots,
			OrganizationName: s.OrganizationName,
			City:             s.City,
		}

		if s.DateTime != nil {
			formatted := s.DateTime.Format(time.RFC3339)
			item.DateTime = &formatted
		}

		if len(s.AvailableDates) > 0 {
			dates := make([]string, len(s.AvailableDates))
			for i, d := range s.AvailableDates {
				dates[i] = d.Format(domain.DateFormat)
			}
			item.AvailableDates = dates
		}

		out = append(out, item)
	}

	return &ListSessionsResponse{Sessions: out}
}
