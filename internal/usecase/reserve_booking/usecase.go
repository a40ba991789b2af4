package reserve_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/booking"
	sessionRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
)

// UseCase use case бронирования места в демо-сессии
//
// Проверка вместимости и вставка выполняются в одной сериализуемой транзакции:
// строка сессии и confirmed-бронирования слота читаются с блокировкой (FOR UPDATE),
// поэтому два конкурентных reserve на последнее место не могут оба пройти
// admission check. Дубликаты дополнительно отсекает частичный уникальный индекс БД.
type UseCase struct {
	sessionRepo  SessionRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveBooking: student=%d, session=%d", req.StudentID, req.SessionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.DemoBooking

	// 3. Admission check и вставка в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем сессию с блокировкой строки
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("ReserveBooking: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			if errors.Is(err, sessionRepo.ErrStorageUnavailable) {
				return fmt.Errorf("%w: get session: %v", ErrUnavailable, err)
			}
			uc.logger.Error("ReserveBooking: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
		}

		// 3.2. Сессия должна быть в бронируемом статусе
		if session.Status != domain.SessionScheduled {
			uc.logger.Warn("ReserveBooking: session id=%d is not bookable, status=%s", session.ID, session.Status)
			return ErrNotBookable
		}

		// 3.3. Слот должен входить в расписание сессии
		if err := validateSlotForSession(session, req); err != nil {
			uc.logger.Warn("ReserveBooking: slot validation failed for session id=%d: %v", session.ID, err)
			return err
		}

		// 3.4. Слот не должен быть в прошлом
		if session.SlotPassed(req.SelectedDate, req.SelectedTime, now) {
			uc.logger.Warn("ReserveBooking: slot is in the past for session id=%d", session.ID)
			return ErrNotBookable
		}

		// 3.5. Читаем confirmed-бронирования слота с блокировкой (FOR UPDATE)
		// Для fixed-instant сессий фильтр по слоту пуст, сериализацию даёт
		// блокировка строки сессии из шага 3.1
		filter := domain.SessionBookingsFilter{
			SessionID:       session.ID,
			SelectedDate:    req.SelectedDate,
			SelectedTime:    req.SelectedTime,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetBySessionWithFilter(txCtx, filter)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStorageUnavailable) {
				return fmt.Errorf("%w: get bookings: %v", ErrUnavailable, err)
			}
			uc.logger.Error("ReserveBooking: failed to get bookings for session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 3.6. Повторное бронирование того же слота тем же студентом запрещено
		for _, b := range bookings {
			if b.StudentID == req.StudentID && b.IsActive() {
				uc.logger.Warn("ReserveBooking: student=%d already booked session=%d slot", req.StudentID, session.ID)
				return ErrDuplicateBooking
			}
		}

		// 3.7. Финальная проверка вместимости непосредственно перед вставкой
		taken := 0
		for _, b := range bookings {
			if b.IsActive() {
				taken++
			}
		}
		if taken >= session.MaxParticipants {
			uc.logger.Warn("ReserveBooking: session=%d slot is full, %d/%d seats taken",
				session.ID, taken, session.MaxParticipants)
			return ErrCapacityExceeded
		}

		uc.logger.Info("ReserveBooking: session=%d slot has seats, %d/%d taken",
			session.ID, taken, session.MaxParticipants)

		// 3.8. Создаем бронирование
		booking := &domain.DemoBooking{
			SessionID:    session.ID,
			StudentID:    req.StudentID,
			StudentName:  req.StudentName,
			StudentEmail: req.StudentEmail,
			SelectedDate: req.SelectedDate,
			SelectedTime: req.SelectedTime,
			Status:       domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Уникальный индекс - последняя линия обороны от дубликатов
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				uc.logger.Warn("ReserveBooking: duplicate booking rejected by unique index, student=%d session=%d",
					req.StudentID, session.ID)
				return ErrDuplicateBooking
			}
			if errors.Is(err, bookingRepo.ErrStorageUnavailable) {
				return fmt.Errorf("%w: create booking: %v", ErrUnavailable, err)
			}
			uc.logger.Error("ReserveBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReserveBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:           result.ID,
		SessionID:    result.SessionID,
		StudentID:    result.StudentID,
		StudentName:  result.StudentName,
		StudentEmail: result.StudentEmail,
		SelectedDate: result.SelectedDate,
		SelectedTime: result.SelectedTime,
		Status:       string(result.Status),
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}, nil
}
