package list_bookable_sessions

import (
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

// Request модель запроса публичного каталога демо-сессий
type Request struct {
	Mode     *string // online | offline | hybrid
	CourseID *int64
	City     *string // Фильтр по городу владеющего профиля (через ProfileService)
	Search   *string // Поиск по названию, преподавателю и названию организации
}

// SessionSummary одна бронируемая сессия в каталоге
type SessionSummary struct {
	ID              int64
	ProfileID       int64
	CourseID        int64
	Title           string
	Description     *string
	Mode            domain.SessionMode
	Instructor      string
	Subjects        []string
	MaxParticipants int
	Kind            domain.SessionKind
	DateTime        *time.Time
	DurationMinutes int
	AvailableDates  []time.Time
	TimeSlots       []string

	// Данные профиля; nil при graceful degradation ProfileService
	OrganizationName *string
	City             *string
}

// Response модель ответа каталога
type Response struct {
	Sessions []SessionSummary
}
