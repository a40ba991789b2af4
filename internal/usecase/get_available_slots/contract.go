package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

// SessionRepository интерфейс репозитория демо-сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.DemoSession, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetBySessionWithFilter(ctx context.Context, filter domain.SessionBookingsFilter) ([]*domain.DemoBooking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
