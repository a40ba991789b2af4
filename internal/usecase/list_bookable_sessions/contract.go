package list_bookable_sessions

import (
	"context"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
)

// SessionRepository интерфейс репозитория демо-сессий
type SessionRepository interface {
	List(ctx context.Context, filter domain.SessionFilter) ([]*domain.DemoSession, error)
}

// AvailabilityChecker проверяет, открыта ли сессия для бронирования
// Реализуется use case'ом get_available_slots - остаток мест всегда
// выводится из строк бронирований, без отдельных счётчиков
type AvailabilityChecker interface {
	IsBookable(ctx context.Context, session *domain.DemoSession) (bool, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetProfilesByCity(ctx context.Context, city string) ([]profileservice.Profile, error)
	GetProfileWithGracefulDegradation(ctx context.Context, profileID int64) (*profileservice.Profile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
