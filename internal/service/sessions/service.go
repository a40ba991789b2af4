package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions/models"
)

// Service сервис управления демо-сессиями
type Service struct {
	sessionRepo   SessionRepository
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый сервис демо-сессий
func NewService(
	sessionRepo SessionRepository,
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo:   sessionRepo,
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		txManager:     txManager,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// Create создает новую демо-сессию
// Доступно только операторам владеющего профиля
func (s *Service) Create(ctx context.Context, req *models.CreateSessionRequest) (*models.SessionResponse, error) {
	s.logger.Info("Create: creating session for profile=%d, course=%d, user=%d", req.ProfileID, req.CourseID, req.UserID)

	// 1. Проверка прав: пользователь должен управлять профилем
	if err := s.checkOwnerAccess(ctx, req.UserID, req.ProfileID); err != nil {
		return nil, err
	}

	// 2. Структурная валидация запроса
	newSession, err := s.buildSession(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Создание сессии
	created, err := s.sessionRepo.Create(ctx, newSession)
	if err != nil {
		if errors.Is(err, session.ErrStorageUnavailable) {
			s.logger.Error("Create: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: Create - create session: %v", ErrUnavailable, err)
		}
		s.logger.Error("Create: failed to create session: %v", err)
		return nil, fmt.Errorf("%w: Create - create session: %v", ErrInternal, err)
	}

	s.logger.Info("Create: session created id=%d", created.ID)

	return models.FromDomainSession(created), nil
}

// GetByID возвращает демо-сессию по идентификатору
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SessionResponse, error) {
	found, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: GetByID - session id=%d", ErrSessionNotFound, id)
		}
		if errors.Is(err, session.ErrStorageUnavailable) {
			s.logger.Error("GetByID: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: GetByID - get session: %v", ErrUnavailable, err)
		}
		s.logger.Error("GetByID: failed to get session id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - get session: %v", ErrInternal, err)
	}

	return models.FromDomainSession(found), nil
}

// Update частично обновляет демо-сессию
// Уменьшение вместимости блокируется, если на каком-либо слоте уже подтверждено
// больше бронирований, чем новый потолок. Проверка и запись выполняются в одной
// serializable-транзакции, конкурируя с резервированием мест
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSessionRequest) (*models.SessionResponse, error) {
	s.logger.Info("Update: updating session id=%d, user=%d", id, req.UserID)

	var updated *domain.DemoSession

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем сессию с блокировкой строки
		current, err := s.sessionRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("%w: Update - session id=%d", ErrSessionNotFound, id)
			}
			if errors.Is(err, session.ErrStorageUnavailable) {
				return fmt.Errorf("%w: Update - get session: %v", ErrUnavailable, err)
			}
			return fmt.Errorf("%w: Update - get session: %v", ErrInternal, err)
		}

		// 2. Проверка прав владельца
		if err := s.checkOwnerAccess(txCtx, req.UserID, current.ProfileID); err != nil {
			return err
		}

		// 3. Завершенные и отмененные сессии неизменяемы
		if !current.CanBeEdited() {
			return fmt.Errorf("%w: Update - session id=%d is %s", ErrNotEditable, id, current.Status)
		}

		// 4. Применяем патч поверх текущего состояния
		if err := s.applyPatch(current, req); err != nil {
			return err
		}

		// 5. При уменьшении вместимости сверяемся с максимумом подтвержденных
		// бронирований на слот: потолок не может опуститься ниже него
		if req.MaxParticipants != nil {
			maxBooked, err := s.bookingRepo.MaxConfirmedPerSlot(txCtx, id)
			if err != nil {
				return fmt.Errorf("%w: Update - count confirmed bookings: %v", ErrInternal, err)
			}
			if current.MaxParticipants < maxBooked {
				return fmt.Errorf("%w: Update - requested %d, confirmed %d",
					ErrCapacityConflict, current.MaxParticipants, maxBooked)
			}
		}

		// 6. Сохраняем
		if err := s.sessionRepo.Update(txCtx, current); err != nil {
			if errors.Is(err, session.ErrStorageUnavailable) {
				return fmt.Errorf("%w: Update - save session: %v", ErrUnavailable, err)
			}
			return fmt.Errorf("%w: Update - save session: %v", ErrInternal, err)
		}

		updated = current
		return nil
	})
	if err != nil {
		s.logger.Warn("Update: session id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("Update: session id=%d updated", id)

	return models.FromDomainSession(updated), nil
}

// Cancel отменяет демо-сессию и каскадно отменяет все активные бронирования
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelSessionRequest) (*models.CancelSessionResponse, error) {
	s.logger.Info("Cancel: cancelling session id=%d, user=%d", id, req.UserID)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: Cancel - reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelledBookings int64

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем сессию с блокировкой строки
		current, err := s.sessionRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("%w: Cancel - session id=%d", ErrSessionNotFound, id)
			}
			if errors.Is(err, session.ErrStorageUnavailable) {
				return fmt.Errorf("%w: Cancel - get session: %v", ErrUnavailable, err)
			}
			return fmt.Errorf("%w: Cancel - get session: %v", ErrInternal, err)
		}

		// 2. Проверка прав владельца
		if err := s.checkOwnerAccess(txCtx, req.UserID, current.ProfileID); err != nil {
			return err
		}

		// 3. Отменить можно только scheduled-сессию
		if !current.CanTransitionTo(domain.SessionCancelled) {
			return fmt.Errorf("%w: Cancel - session id=%d is %s", ErrInvalidTransition, id, current.Status)
		}

		// 4. Переводим сессию в cancelled
		if err := s.sessionRepo.UpdateStatus(txCtx, id, domain.SessionCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}

		// 5. Каскадная отмена всех подтвержденных бронирований
		reason := req.Reason
		if reason == "" {
			reason = "session cancelled by organizer"
		}
		count, err := s.bookingRepo.CancelBySession(txCtx, id, reason)
		if err != nil {
			return fmt.Errorf("%w: Cancel - cascade cancel bookings: %v", ErrInternal, err)
		}
		cancelledBookings = count

		return nil
	})
	if err != nil {
		s.logger.Warn("Cancel: session id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("Cancel: session id=%d cancelled, bookings cancelled=%d", id, cancelledBookings)

	return &models.CancelSessionResponse{ID: id, CancelledBookings: cancelledBookings}, nil
}

// Delete удаляет демо-сессию
// Удаление блокируется, пока у сессии есть подтвержденные бронирования на
// будущие слоты; такие сессии сначала нужно отменить
func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Delete: deleting session id=%d, user=%d", id, userID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Загружаем сессию
		current, err := s.sessionRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("%w: Delete - session id=%d", ErrSessionNotFound, id)
			}
			if errors.Is(err, session.ErrStorageUnavailable) {
				return fmt.Errorf("%w: Delete - get session: %v", ErrUnavailable, err)
			}
			return fmt.Errorf("%w: Delete - get session: %v", ErrInternal, err)
		}

		// 2. Проверка прав владельца
		if err := s.checkOwnerAccess(txCtx, userID, current.ProfileID); err != nil {
			return err
		}

		// 3. Блокируем удаление при наличии подтвержденных будущих бронирований
		today := s.timeProvider.Now().Format(domain.DateFormat)
		active, err := s.bookingRepo.CountActiveFuture(txCtx, id, today)
		if err != nil {
			return fmt.Errorf("%w: Delete - count active bookings: %v", ErrInternal, err)
		}
		if active > 0 {
			return fmt.Errorf("%w: Delete - session id=%d has %d active bookings", ErrHasActiveBookings, id, active)
		}

		// 4. Удаляем
		if err := s.sessionRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				return fmt.Errorf("%w: Delete - session id=%d", ErrSessionNotFound, id)
			}
			return fmt.Errorf("%w: Delete - delete session: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("Delete: session id=%d: %v", id, err)
		return err
	}

	s.logger.Info("Delete: session id=%d deleted", id)

	return nil
}

// checkOwnerAccess проверяет, что пользователь является оператором профиля
func (s *Service) checkOwnerAccess(ctx context.Context, userID, profileID int64) error {
	profile, err := s.profileClient.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, profileservice.ErrProfileNotFound) {
			return fmt.Errorf("%w: profile id=%d", ErrProfileNotFound, profileID)
		}
		s.logger.Error("checkOwnerAccess: profile service error: %v", err)
		return fmt.Errorf("%w: checkOwnerAccess - get profile: %v", ErrInternal, err)
	}

	if !profile.IsOperator(userID) {
		return fmt.Errorf("%w: user id=%d does not manage profile id=%d", ErrAccessDenied, userID, profileID)
	}

	return nil
}

// buildSession валидирует CreateSessionRequest и собирает domain-модель
func (s *Service) buildSession(req *models.CreateSessionRequest) (*domain.DemoSession, error) {
	if req.ProfileID <= 0 || req.CourseID <= 0 {
		return nil, fmt.Errorf("%w: profileId and courseId must be positive", ErrInvalidInput)
	}

	mode, err := models.ToDomainMode(req.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	newSession := &domain.DemoSession{
		ProfileID:       req.ProfileID,
		CourseID:        req.CourseID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Mode:            mode,
		Instructor:      strings.TrimSpace(req.Instructor),
		Subjects:        req.Subjects,
		MaxParticipants: req.MaxParticipants,
		DateTime:        req.DateTime,
		DurationMinutes: req.DurationMinutes,
		AvailableDates:  normalizeDates(req.AvailableDates),
		TimeSlots:       req.TimeSlots,
		DemoDays:        req.DemoDays,
		Status:          domain.SessionScheduled,
	}

	// Темпоральная форма выводится из наличия dateTime
	if req.DateTime != nil {
		newSession.Kind = domain.KindFixedInstant
	} else {
		newSession.Kind = domain.KindMultiSlot
	}

	if err := validateShape(newSession); err != nil {
		return nil, err
	}

	return newSession, nil
}

// applyPatch накладывает ненулевые поля патча на сессию и перевалидирует форму
func (s *Service) applyPatch(current *domain.DemoSession, req *models.UpdateSessionRequest) error {
	if req.Title != nil {
		current.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Mode != nil {
		mode, err := models.ToDomainMode(*req.Mode)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		current.Mode = mode
	}
	if req.Instructor != nil {
		current.Instructor = strings.TrimSpace(*req.Instructor)
	}
	if req.Subjects != nil {
		current.Subjects = req.Subjects
	}
	if req.MaxParticipants != nil {
		current.MaxParticipants = *req.MaxParticipants
	}
	if req.DateTime != nil {
		if current.Kind != domain.KindFixedInstant {
			return fmt.Errorf("%w: dateTime is not applicable to a multi-slot session", ErrInvalidInput)
		}
		current.DateTime = req.DateTime
	}
	if req.DurationMinutes != nil {
		if current.Kind != domain.KindFixedInstant {
			return fmt.Errorf("%w: durationMinutes is not applicable to a multi-slot session", ErrInvalidInput)
		}
		current.DurationMinutes = *req.DurationMinutes
	}
	if req.AvailableDates != nil {
		if current.Kind != domain.KindMultiSlot {
			return fmt.Errorf("%w: availableDates is not applicable to a fixed-instant session", ErrInvalidInput)
		}
		current.AvailableDates = normalizeDates(req.AvailableDates)
	}
	if req.TimeSlots != nil {
		if current.Kind != domain.KindMultiSlot {
			return fmt.Errorf("%w: timeSlots is not applicable to a fixed-instant session", ErrInvalidInput)
		}
		current.TimeSlots = req.TimeSlots
	}
	if req.DemoDays != nil {
		if current.Kind != domain.KindMultiSlot {
			return fmt.Errorf("%w: demoDays is not applicable to a fixed-instant session", ErrInvalidInput)
		}
		current.DemoDays = *req.DemoDays
	}

	if req.Status != nil {
		next, err := models.ToDomainSessionStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if next != current.Status {
			if next == domain.SessionCancelled {
				return fmt.Errorf("%w: use the cancel operation to cancel a session", ErrInvalidInput)
			}
			if !current.CanTransitionTo(next) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
			}
			current.Status = next
		}
	}

	return validateShape(current)
}

// validateShape проверяет структурные инварианты демо-сессии
func validateShape(s *domain.DemoSession) error {
	if s.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(s.Title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}
	if s.Description != nil && len(*s.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	if s.Instructor == "" {
		return fmt.Errorf("%w: instructor is required", ErrInvalidInput)
	}
	if len(s.Instructor) > domain.MaxInstructorLength {
		return fmt.Errorf("%w: instructor exceeds %d characters", ErrInvalidInput, domain.MaxInstructorLength)
	}
	if len(s.Subjects) > domain.MaxSubjects {
		return fmt.Errorf("%w: at most %d subjects allowed", ErrInvalidInput, domain.MaxSubjects)
	}
	if s.MaxParticipants < domain.MinParticipants || s.MaxParticipants > domain.MaxParticipants {
		return fmt.Errorf("%w: maxParticipants must be between %d and %d",
			ErrInvalidInput, domain.MinParticipants, domain.MaxParticipants)
	}

	switch s.Kind {
	case domain.KindFixedInstant:
		if s.DateTime == nil {
			return fmt.Errorf("%w: dateTime is required for a fixed-instant session", ErrInvalidInput)
		}
		if s.DurationMinutes <= 0 {
			return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
		}
		if len(s.AvailableDates) > 0 || len(s.TimeSlots) > 0 || s.DemoDays != 0 {
			return fmt.Errorf("%w: multi-slot fields are not applicable to a fixed-instant session", ErrInvalidInput)
		}
	case domain.KindMultiSlot:
		if len(s.AvailableDates) == 0 {
			return fmt.Errorf("%w: availableDates is required for a multi-slot session", ErrInvalidInput)
		}
		if len(s.TimeSlots) == 0 {
			return fmt.Errorf("%w: timeSlots is required for a multi-slot session", ErrInvalidInput)
		}
		if len(s.TimeSlots) > domain.MaxTimeSlots {
			return fmt.Errorf("%w: at most %d time slots allowed", ErrInvalidInput, domain.MaxTimeSlots)
		}
		if hasDuplicateDates(s.AvailableDates) {
			return fmt.Errorf("%w: availableDates contains duplicates", ErrInvalidInput)
		}
		if hasDuplicateLabels(s.TimeSlots) {
			return fmt.Errorf("%w: timeSlots contains duplicates", ErrInvalidInput)
		}
		if s.DemoDays < 0 {
			return fmt.Errorf("%w: demoDays must not be negative", ErrInvalidInput)
		}
		if s.DemoDays > 0 && len(s.AvailableDates) > s.DemoDays {
			return fmt.Errorf("%w: availableDates exceeds demoDays bound of %d", ErrInvalidInput, s.DemoDays)
		}
	default:
		return fmt.Errorf("%w: unknown session kind %q", ErrInvalidInput, s.Kind)
	}

	return nil
}

// normalizeDates усекает даты до полуночи UTC
func normalizeDates(dates []time.Time) []time.Time {
	if dates == nil {
		return nil
	}
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return out
}

func hasDuplicateDates(dates []time.Time) bool {
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		key := d.Format(domain.DateFormat)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

func hasDuplicateLabels(labels []string) bool {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return true
		}
		seen[l] = struct{}{}
	}
	return false
}
