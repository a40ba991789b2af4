package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
)

// UseCase use case получения доступных слотов демо-сессии
type UseCase struct {
	sessionRepo  SessionRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Доступность всегда вычисляется заново из строк бронирований
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: session=%d", req.SessionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем сессию
	session, err := uc.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("GetAvailableSlots: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		if errors.Is(err, sessionRepo.ErrStorageUnavailable) {
			uc.logger.Error("GetAvailableSlots: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: failed to get session: %v", ErrUnavailable, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to get session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}

	// 3. Fixed-instant сессия: единственный неявный слот
	if !session.IsMultiSlot() {
		bookings, err := uc.activeBookings(ctx, session.ID, nil)
		if err != nil {
			return nil, err
		}

		slot := domain.SlotAvailability{
			AvailableSeats: remainingSeats(session, bookings, nil, nil),
			TotalSeats:     session.MaxParticipants,
		}
		if session.DateTime != nil {
			slot.Date = *session.DateTime
		}

		return &Response{
			SessionID: session.ID,
			Kind:      session.Kind,
			Slots:     []domain.SlotAvailability{slot},
		}, nil
	}

	// 4. Multi-slot сессия: дата обязательна и должна входить в расписание
	if req.Date == nil {
		uc.logger.Warn("GetAvailableSlots: date is required for multi-slot session id=%d", req.SessionID)
		return nil, ErrDateRequired
	}
	if !session.HasDate(*req.Date) {
		uc.logger.Warn("GetAvailableSlots: date %s is not available for session id=%d",
			req.Date.Format(domain.DateFormat), req.SessionID)
		return nil, ErrDateNotAvailable
	}

	// 5. Получаем активные бронирования на эту дату и считаем остатки
	bookings, err := uc.activeBookings(ctx, session.ID, req.Date)
	if err != nil {
		return nil, err
	}

	slots := slotAvailabilities(session, bookings, *req.Date)
	available := availableTimeSlotsForDate(session, bookings, *req.Date)

	uc.logger.Info("GetAvailableSlots: session=%d date=%s slots=%d available=%d",
		session.ID, req.Date.Format(domain.DateFormat), len(slots), len(available))

	return &Response{
		SessionID:          session.ID,
		Kind:               session.Kind,
		Slots:              slots,
		AvailableTimeSlots: available,
	}, nil
}

// IsBookable проверяет, открыта ли сессия для бронирования в данный момент
// Используется каталогом при фильтрации публичного списка сессий
func (uc *UseCase) IsBookable(ctx context.Context, session *domain.DemoSession) (bool, error) {
	if session.Status != domain.SessionScheduled {
		return false, nil
	}

	bookings, err := uc.activeBookings(ctx, session.ID, nil)
	if err != nil {
		return false, err
	}

	return isBookable(session, bookings, uc.timeProvider.Now()), nil
}

// activeBookings загружает confirmed-бронирования сессии, опционально по одной дате
func (uc *UseCase) activeBookings(ctx context.Context, sessionID int64, date *time.Time) ([]*domain.DemoBooking, error) {
	filter := domain.SessionBookingsFilter{
		SessionID:       sessionID,
		SelectedDate:    date,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetBySessionWithFilter(ctx, filter)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStorageUnavailable) {
			uc.logger.Error("GetAvailableSlots: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrUnavailable, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to get bookings for session id=%d: %v", sessionID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return bookings, nil
}
