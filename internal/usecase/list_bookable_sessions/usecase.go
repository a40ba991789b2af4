package list_bookable_sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	sessionRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
	getAvailableSlots "github.com/m04kA/CIM-DemoBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/CIM-DemoBookingService/pkg/ptr"
)

// UseCase use case публичного каталога бронируемых демо-сессий
type UseCase struct {
	sessionRepo   SessionRepository
	availability  AvailabilityChecker
	profileClient ProfileServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	availability AvailabilityChecker,
	profileClient ProfileServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:   sessionRepo,
		availability:  availability,
		profileClient: profileClient,
		logger:        logger,
	}
}

// Execute выполняет use case каталога
// Поиск по названию организации выполняется в памяти после обогащения
// данными профилей, поэтому Search не передается в репозиторий
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListBookableSessions: mode=%v, course=%v, city=%v, search=%v",
		req.Mode, req.CourseID, req.City, req.Search)

	// 1. Валидация и конвертация фильтров
	filter := domain.SessionFilter{
		Status:   ptr.Ptr(domain.SessionScheduled),
		CourseID: req.CourseID,
	}

	if req.Mode != nil {
		mode, err := parseMode(*req.Mode)
		if err != nil {
			uc.logger.Warn("ListBookableSessions: invalid mode %q", *req.Mode)
			return nil, err
		}
		filter.Mode = &mode
	}

	// 2. Фильтр по городу резолвится через ProfileService в список владельцев
	if req.City != nil && *req.City != "" {
		profiles, err := uc.profileClient.GetProfilesByCity(ctx, *req.City)
		if err != nil {
			uc.logger.Error("ListBookableSessions: failed to resolve city %q: %v", *req.City, err)
			return nil, fmt.Errorf("%w: failed to resolve city filter: %v", ErrInternal, err)
		}

		if len(profiles) == 0 {
			return &Response{Sessions: []SessionSummary{}}, nil
		}

		profileIDs := make([]int64, len(profiles))
		for i, p := range profiles {
			profileIDs[i] = p.ID
		}
		filter.ProfileIDs = profileIDs
	}

	// 3. Загружаем scheduled-сессии по фильтру
	sessions, err := uc.sessionRepo.List(ctx, filter)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrStorageUnavailable) {
			uc.logger.Error("ListBookableSessions: storage unavailable: %v", err)
			return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrUnavailable, err)
		}
		uc.logger.Error("ListBookableSessions: repository error: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	// 4. Оставляем только реально бронируемые (есть будущий слот со свободными местами)
	summaries := make([]SessionSummary, 0, len(sessions))
	profileCache := make(map[int64]*profileservice.Profile)

	for _, session := range sessions {
		bookable, err := uc.availability.IsBookable(ctx, session)
		if err != nil {
			if errors.Is(err, getAvailableSlots.ErrUnavailable) {
				uc.logger.Error("ListBookableSessions: storage unavailable: %v", err)
				return nil, fmt.Errorf("%w: availability check failed: %v", ErrUnavailable, err)
			}
			uc.logger.Error("ListBookableSessions: availability check failed for session id=%d: %v", session.ID, err)
			return nil, fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
		}
		if !bookable {
			continue
		}

		summary := toSummary(session)

		// 5. Обогащаем данными профиля с graceful degradation:
		// при недоступности ProfileService каталог отдается без названия организации
		profile, ok := profileCache[session.ProfileID]
		if !ok {
			profile, err = uc.profileClient.GetProfileWithGracefulDegradation(ctx, session.ProfileID)
			if err != nil {
				if !errors.Is(err, profileservice.ErrServiceDegraded) && !errors.Is(err, profileservice.ErrProfileNotFound) {
					return nil, fmt.Errorf("%w: failed to get profile: %v", ErrInternal, err)
				}
				profile = nil
			}
			profileCache[session.ProfileID] = profile
		}

		if profile != nil {
			summary.OrganizationName = &profile.OrganizationName
			summary.City = &profile.City
		}

		// 6. Текстовый поиск по названию, преподавателю и организации
		if req.Search != nil && !matchesSearch(&summary, *req.Search) {
			continue
		}

		summaries = append(summaries, summary)
	}

	uc.logger.Info("ListBookableSessions: returning %d sessions", len(summaries))

	return &Response{Sessions: summaries}, nil
}

// parseMode валидирует и конвертирует строковый режим проведения
func parseMode(s string) (domain.SessionMode, error) {
	switch domain.SessionMode(s) {
	case domain.ModeOnline, domain.ModeOffline, domain.ModeHybrid:
		return domain.SessionMode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
	}
}

// matchesSearch проверяет вхождение подстроки без учета регистра
func matchesSearch(s *SessionSummary, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}

	if strings.Contains(strings.ToLower(s.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Instructor), needle) {
		return true
	}
	if s.OrganizationName != nil && strings.Contains(strings.ToLower(*s.OrganizationName), needle) {
		return true
	}

	return false
}

// toSummary конвертирует domain-модель в элемент каталога
func toSummary(s *domain.DemoSession) SessionSummary {
	return SessionSummary{
		ID:              s.ID,
		ProfileID:       s.ProfileID,
		CourseID:        s.CourseID,
		Title:           s.Title,
		Description:     s.Description,
		Mode:            s.Mode,
		Instructor:      s.Instructor,
		Subjects:        s.Subjects,
		MaxParticipants: s.MaxParticipants,
		Kind:            s.Kind,
		DateTime:        s.DateTime,
		DurationMinutes: s.DurationMinutes,
		AvailableDates:  s.AvailableDates,
		TimeSlots:       s.TimeSlots,
	}
}
