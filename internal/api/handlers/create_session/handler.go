package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/CIM-DemoBookingService/internal/api/handlers"
	"github.com/m04kA/CIM-DemoBookingService/internal/api/middleware"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректный формат даты, ожидается YYYY-MM-DD или RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgProfileNotFound    = "профиль не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель сервиса (с парсингом дат)
	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("POST /sessions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("POST /sessions - Invalid input: profile_id=%d, error=%v", req.ProfileID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, sessions.ErrProfileNotFound):
			h.logger.Warn("POST /sessions - Profile not found: profile_id=%d", req.ProfileID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, sessions.ErrAccessDenied):
			h.logger.Warn("POST /sessions - Access denied: profile_id=%d, user_id=%d", req.ProfileID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, sessions.ErrUnavailable):
			h.logger.Error("POST /sessions - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /sessions - Failed to create session: profile_id=%d, error=%v", req.ProfileID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created successfully: session_id=%d, profile_id=%d, user_id=%d",
		result.ID, req.ProfileID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
