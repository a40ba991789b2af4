package bookings

import (
	"context"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.DemoBooking, error)
	GetBySessionWithFilter(ctx context.Context, filter domain.SessionBookingsFilter) ([]*domain.DemoBooking, error)
	GetByStudentID(ctx context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.DemoBooking, error)
	Cancel(ctx context.Context, id int64, reason string) error
	SetOutcome(ctx context.Context, id int64, outcome domain.BookingStatus, attended bool) error
	AttachFeedback(ctx context.Context, id int64, feedback *string, rating *int) error
}

// SessionRepository интерфейс репозитория демо-сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.DemoSession, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetProfile(ctx context.Context, profileID int64) (*profileservice.Profile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
