package sessions

import (
	"context"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
)

// SessionRepository интерфейс репозитория демо-сессий
type SessionRepository interface {
	Create(ctx context.Context, s *domain.DemoSession) (*domain.DemoSession, error)
	GetByID(ctx context.Context, id int64) (*domain.DemoSession, error)
	Update(ctx context.Context, s *domain.DemoSession) error
	UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	MaxConfirmedPerSlot(ctx context.Context, sessionID int64) (int, error)
	CountActiveFuture(ctx context.Context, sessionID int64, today string) (int, error)
	CancelBySession(ctx context.Context, sessionID int64, reason string) (int64, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetProfile(ctx context.Context, profileID int64) (*profileservice.Profile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
