package models

import (
	"errors"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

var (
	// ErrInvalidMode возвращается при некорректном режиме проведения
	ErrInvalidMode = errors.New("invalid session mode")

	// ErrInvalidStatus возвращается при некорректном статусе сессии
	ErrInvalidStatus = errors.New("invalid session status")
)

// Request модели

// CreateSessionRequest запрос на создание демо-сессии
type CreateSessionRequest struct {
	UserID    int64 // Вызывающий пользователь (оператор профиля)
	ProfileID int64
	CourseID  int64

	Title       string
	Description *string
	Mode        string
	Instructor  string
	Subjects    []string

	MaxParticipants int

	// Fixed-instant форма
	DateTime        *time.Time
	DurationMinutes int

	// Multi-slot форма
	AvailableDates []time.Time
	TimeSlots      []string
	DemoDays       int
}

// UpdateSessionRequest частичное обновление демо-сессии
// nil-поле означает "не менять"
type UpdateSessionRequest struct {
	UserID int64

	Title           *string
	Description     *string
	Mode            *string
	Instructor      *string
	Subjects        []string
	MaxParticipants *int
	DateTime        *time.Time
	DurationMinutes *int
	AvailableDates  []time.Time
	TimeSlots       []string
	DemoDays        *int

	// Переход статуса (scheduled -> live, live -> completed);
	// отмена выполняется отдельной операцией Cancel
	Status *string
}

// CancelSessionRequest запрос на отмену демо-сессии
type CancelSessionRequest struct {
	UserID int64
	Reason string
}

// Response модели

// SessionResponse ответ с данными демо-сессии
type SessionResponse struct {
	ID              int64       `json:"id"`
	ProfileID       int64       `json:"profileId"`
	CourseID        int64       `json:"courseId"`
	Title           string      `json:"title"`
	Description     *string     `json:"description,omitempty"`
	Mode            string      `json:"mode"`
	Instructor      string      `json:"instructor"`
	Subjects        []string    `json:"subjects"`
	MaxParticipants int         `json:"maxParticipants"`
	Kind            string      `json:"kind"`
	DateTime        *time.Time  `json:"dateTime,omitempty"`
	DurationMinutes int         `json:"durationMinutes,omitempty"`
	AvailableDates  []string    `json:"availableDates,omitempty"` // "2006-01-02"
	TimeSlots       []string    `json:"timeSlots,omitempty"`
	DemoDays        int         `json:"demoDays,omitempty"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CancelSessionResponse результат отмены сессии
type CancelSessionResponse struct {
	ID                int64 `json:"id"`
	CancelledBookings int64 `json:"cancelledBookings"`
}

// Методы конвертации

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.DemoSession) *SessionResponse {
	if s == nil {
		return nil
	}

	dates := make([]string, len(s.AvailableDates))
	for i, d := range s.AvailableDates {
		dates[i] = d.Format(domain.DateFormat)
	}

	return &SessionResponse{
		ID:              s.ID,
		ProfileID:       s.ProfileID,
		CourseID:        s.CourseID,
		Title:           s.Title,
		Description:     s.Description,
		Mode:            string(s.Mode),
		Instructor:      s.Instructor,
		Subjects:        s.Subjects,
		MaxParticipants: s.MaxParticipants,
		Kind:            string(s.Kind),
		DateTime:        s.DateTime,
		DurationMinutes: s.DurationMinutes,
		AvailableDates:  dates,
		TimeSlots:       s.TimeSlots,
		DemoDays:        s.DemoDays,
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ToDomainMode конвертирует строку в domain.SessionMode с валидацией
func ToDomainMode(mode string) (domain.SessionMode, error) {
	m := domain.SessionMode(mode)
	switch m {
	case domain.ModeOnline, domain.ModeOffline, domain.ModeHybrid:
		return m, nil
	default:
		return "", ErrInvalidMode
	}
}

// ToDomainSessionStatus конвертирует строку в domain.SessionStatus с валидацией
func ToDomainSessionStatus(status string) (domain.SessionStatus, error) {
	s := domain.SessionStatus(status)
	switch s {
	case domain.SessionScheduled, domain.SessionLive, domain.SessionCompleted, domain.SessionCancelled:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
