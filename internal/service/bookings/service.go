package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/bookings/models"
)

// Service сервис управления жизненным циклом бронирований
// Резервирование мест выполняется отдельным use case (reserve_booking)
type Service struct {
	bookingRepo   BookingRepository
	sessionRepo   SessionRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый сервис бронирований
func NewService(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		sessionRepo:   sessionRepo,
		profileClient: profileClient,
		txManager:     txManager,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// GetByID возвращает бронирование по идентификатору
// Доступно студенту-владельцу бронирования и операторам профиля сессии
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	found, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if found.StudentID != userID {
		if err := s.checkSessionOwner(ctx, found.SessionID, userID, "GetByID"); err != nil {
			return nil, err
		}
	}

	return models.FromDomainBooking(found), nil
}

// GetStudentBookings возвращает историю бронирований студента
// Студент видит только собственные бронирования
func (s *Service) GetStudentBookings(ctx context.Context, studentID, userID int64, status *string) (*models.BookingListResponse, error) {
	if studentID != userID {
		return nil, fmt.Errorf("%w: GetStudentBookings - user id=%d requested bookings of student id=%d",
			ErrAccessDenied, userID, studentID)
	}

	var statusFilter *domain.BookingStatus
	if status != nil {
		parsed, err := parseBookingStatus(*status)
		if err != nil {
			return nil, err
		}
		statusFilter = &parsed
	}

	bookings, err := s.bookingRepo.GetByStudentID(ctx, studentID, statusFilter)
	if err != nil {
		if errors.Is(err, booking.ErrStorageUnavailable) {
			s.logger.Error("GetStudentBookings: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: GetStudentBookings - list bookings: %v", ErrUnavailable, err)
		}
		s.logger.Error("GetStudentBookings: failed to list bookings for student id=%d: %v", studentID, err)
		return nil, fmt.Errorf("%w: GetStudentBookings - list bookings: %v", ErrInternal, err)
	}

	return models.FromDomainBookings(bookings), nil
}

// GetSessionBookings возвращает список бронирований сессии для владельца
func (s *Service) GetSessionBookings(ctx context.Context, req *models.SessionBookingsRequest) (*models.BookingListResponse, error) {
	if err := s.checkSessionOwner(ctx, req.SessionID, req.UserID, "GetSessionBookings"); err != nil {
		return nil, err
	}

	filter := domain.SessionBookingsFilter{
		SessionID:       req.SessionID,
		SelectedDate:    req.SelectedDate,
		SelectedTime:    req.SelectedTime,
		IncludeInactive: req.IncludeInactive,
	}

	if req.Status != nil {
		parsed, err := parseBookingStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &parsed
		filter.IncludeInactive = true
	}

	bookings, err := s.bookingRepo.GetBySessionWithFilter(ctx, filter)
	if err != nil {
		if errors.Is(err, booking.ErrStorageUnavailable) {
			s.logger.Error("GetSessionBookings: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: GetSessionBookings - list bookings: %v", ErrUnavailable, err)
		}
		s.logger.Error("GetSessionBookings: failed to list bookings for session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: GetSessionBookings - list bookings: %v", ErrInternal, err)
	}

	return models.FromDomainBookings(bookings), nil
}

// Cancel отменяет бронирование и освобождает место
// Доступно студенту-владельцу и операторам профиля сессии,
// только для confirmed-бронирований на еще не прошедшие слоты
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d, user=%d", id, req.UserID)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: Cancel - reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронирование
		current, err := s.getBooking(txCtx, id, "Cancel")
		if err != nil {
			return err
		}

		// 2. Загружаем сессию (нужна для проверки прав и времени слота)
		parent, err := s.getSession(txCtx, current.SessionID, "Cancel")
		if err != nil {
			return err
		}

		// 3. Проверка прав: студент-владелец или оператор профиля
		if current.StudentID != req.UserID {
			if err := s.checkProfileOperator(txCtx, parent.ProfileID, req.UserID, "Cancel"); err != nil {
				return err
			}
		}

		// 4. Отменить можно только confirmed-бронирование
		if !current.CanBeCancelled() {
			return fmt.Errorf("%w: Cancel - booking id=%d is %s", ErrCannotCancel, id, current.Status)
		}

		// 5. Сессия должна оставаться scheduled: после перевода в live/completed
		// состав участников зафиксирован
		if parent.Status != domain.SessionScheduled {
			return fmt.Errorf("%w: Cancel - session id=%d is %s", ErrCannotCancel, parent.ID, parent.Status)
		}

		// 6. Прошедший слот отменить нельзя: место уже не освободить
		now := s.timeProvider.Now()
		if parent.SlotPassed(current.SelectedDate, current.SelectedTime, now) {
			return fmt.Errorf("%w: Cancel - slot of booking id=%d has already passed", ErrCannotCancel, id)
		}

		// 7. Отменяем
		if err := s.bookingRepo.Cancel(txCtx, id, req.Reason); err != nil {
			if errors.Is(err, booking.ErrBookingNotFound) {
				return fmt.Errorf("%w: Cancel - booking id=%d", ErrBookingNotFound, id)
			}
			return fmt.Errorf("%w: Cancel - cancel booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("Cancel: booking id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%d cancelled", id)

	return s.reload(ctx, id, "Cancel")
}

// MarkOutcome проставляет исход бронирования после прошедшего слота
// Доступно только операторам профиля сессии; допустимые исходы
// completed и no_show, attended выводится из исхода
func (s *Service) MarkOutcome(ctx context.Context, id int64, req *models.MarkOutcomeRequest) (*models.BookingResponse, error) {
	s.logger.Info("MarkOutcome: booking id=%d, outcome=%s, user=%d", id, req.Outcome, req.UserID)

	outcome, err := parseOutcome(req.Outcome)
	if err != nil {
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Загружаем бронирование и сессию
		current, err := s.getBooking(txCtx, id, "MarkOutcome")
		if err != nil {
			return err
		}

		parent, err := s.getSession(txCtx, current.SessionID, "MarkOutcome")
		if err != nil {
			return err
		}

		// 2. Проверка прав: только оператор профиля
		if err := s.checkProfileOperator(txCtx, parent.ProfileID, req.UserID, "MarkOutcome"); err != nil {
			return err
		}

		// 3. Исход проставляется только confirmed-бронированию
		if !current.CanAcceptOutcome() {
			return fmt.Errorf("%w: MarkOutcome - booking id=%d is %s", ErrInvalidTransition, id, current.Status)
		}

		// 4. Исход проставляется только после прошедшего слота
		now := s.timeProvider.Now()
		if !parent.SlotPassed(current.SelectedDate, current.SelectedTime, now) {
			return fmt.Errorf("%w: MarkOutcome - booking id=%d", ErrSlotNotPassed, id)
		}

		// 5. Сохраняем исход; attended = completed
		attended := outcome == domain.StatusCompleted
		if err := s.bookingRepo.SetOutcome(txCtx, id, outcome, attended); err != nil {
			if errors.Is(err, booking.ErrBookingNotFound) {
				return fmt.Errorf("%w: MarkOutcome - booking id=%d is no longer confirmed", ErrInvalidTransition, id)
			}
			return fmt.Errorf("%w: MarkOutcome - set outcome: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("MarkOutcome: booking id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("MarkOutcome: booking id=%d marked %s", id, outcome)

	return s.reload(ctx, id, "MarkOutcome")
}

// SubmitFeedback прикрепляет отзыв и оценку студента к завершенному бронированию
func (s *Service) SubmitFeedback(ctx context.Context, id int64, req *models.SubmitFeedbackRequest) (*models.BookingResponse, error) {
	s.logger.Info("SubmitFeedback: booking id=%d, user=%d", id, req.UserID)

	// 1. Валидация отзыва
	if req.Feedback == nil && req.Rating == nil {
		return nil, fmt.Errorf("%w: SubmitFeedback - feedback or rating is required", ErrInvalidInput)
	}
	if req.Feedback != nil {
		trimmed := strings.TrimSpace(*req.Feedback)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: SubmitFeedback - feedback must not be blank", ErrInvalidInput)
		}
		if len(trimmed) > domain.MaxFeedbackLength {
			return nil, fmt.Errorf("%w: SubmitFeedback - feedback exceeds %d characters", ErrInvalidInput, domain.MaxFeedbackLength)
		}
		req.Feedback = &trimmed
	}
	if req.Rating != nil && (*req.Rating < domain.MinRating || *req.Rating > domain.MaxRating) {
		return nil, fmt.Errorf("%w: SubmitFeedback - rating must be between %d and %d",
			ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}

	// 2. Загружаем бронирование
	current, err := s.getBooking(ctx, id, "SubmitFeedback")
	if err != nil {
		return nil, err
	}

	// 3. Проверка прав: только сам студент
	if current.StudentID != req.UserID {
		return nil, fmt.Errorf("%w: SubmitFeedback - user id=%d is not the booker of booking id=%d",
			ErrAccessDenied, req.UserID, id)
	}

	// 4. Отзыв только на завершенное бронирование
	if !current.CanAcceptFeedback() {
		return nil, fmt.Errorf("%w: SubmitFeedback - booking id=%d is %s", ErrFeedbackNotAllowed, id, current.Status)
	}

	// 5. Сохраняем
	if err := s.bookingRepo.AttachFeedback(ctx, id, req.Feedback, req.Rating); err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: SubmitFeedback - booking id=%d", ErrBookingNotFound, id)
		}
		s.logger.Error("SubmitFeedback: failed to attach feedback to booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SubmitFeedback - attach feedback: %v", ErrInternal, err)
	}

	s.logger.Info("SubmitFeedback: booking id=%d feedback attached", id)

	return s.reload(ctx, id, "SubmitFeedback")
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.DemoBooking, error) {
	found, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s - booking id=%d", ErrBookingNotFound, op, id)
		}
		if errors.Is(err, booking.ErrStorageUnavailable) {
			s.logger.Error("%s: storage unavailable: %v", op, err)
			return nil, fmt.Errorf("%w: %s - get booking: %v", ErrUnavailable, op, err)
		}
		s.logger.Error("%s: failed to get booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get booking: %v", ErrInternal, op, err)
	}
	return found, nil
}

func (s *Service) getSession(ctx context.Context, id int64, op string) (*domain.DemoSession, error) {
	found, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s - session id=%d", ErrSessionNotFound, op, id)
		}
		if errors.Is(err, session.ErrStorageUnavailable) {
			s.logger.Error("%s: storage unavailable: %v", op, err)
			return nil, fmt.Errorf("%w: %s - get session: %v", ErrUnavailable, op, err)
		}
		s.logger.Error("%s: failed to get session id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get session: %v", ErrInternal, op, err)
	}
	return found, nil
}

// checkSessionOwner проверяет, что пользователь управляет профилем сессии
func (s *Service) checkSessionOwner(ctx context.Context, sessionID, userID int64, op string) error {
	parent, err := s.getSession(ctx, sessionID, op)
	if err != nil {
		return err
	}
	return s.checkProfileOperator(ctx, parent.ProfileID, userID, op)
}

// checkProfileOperator проверяет, что пользователь является оператором профиля
func (s *Service) checkProfileOperator(ctx context.Context, profileID, userID int64, op string) error {
	profile, err := s.profileClient.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, profileservice.ErrProfileNotFound) {
			return fmt.Errorf("%w: %s - user id=%d, profile id=%d not found", ErrAccessDenied, op, userID, profileID)
		}
		s.logger.Error("%s: profile service error: %v", op, err)
		return fmt.Errorf("%w: %s - get profile: %v", ErrInternal, op, err)
	}

	if !profile.IsOperator(userID) {
		return fmt.Errorf("%w: %s - user id=%d does not manage profile id=%d", ErrAccessDenied, op, userID, profileID)
	}

	return nil
}

// reload перечитывает бронирование после мутации для ответа
func (s *Service) reload(ctx context.Context, id int64, op string) (*models.BookingResponse, error) {
	found, err := s.getBooking(ctx, id, op)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(found), nil
}

// parseBookingStatus валидирует строковый статус бронирования
func parseBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow:
		return domain.BookingStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, s)
	}
}

// parseOutcome валидирует исход бронирования
func parseOutcome(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusCompleted, domain.StatusNoShow:
		return domain.BookingStatus(s), nil
	default:
		return "", fmt.Errorf("%w: outcome must be completed or no_show, got %q", ErrInvalidInput, s)
	}
}
