package delete_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CIM-DemoBookingService/internal/api/handlers"
	"github.com/m04kA/CIM-DemoBookingService/internal/api/middleware"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions"
)

const (
	msgInvalidSessionID  = "некорректный ID сессии"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "сессия не найдена"
	msgForbidden         = "доступ запрещен"
	msgHasActiveBookings = "у сессии есть активные бронирования, сначала отмените сессию"
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

// Handle DELETE /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, err := strconv.ParseInt(vars["sessionId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /sessions/{id} - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /sessions/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), sessionID, userID); err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("DELETE /sessions/{id} - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, sessions.ErrAccessDenied), errors.Is(err, sessions.ErrProfileNotFound):
			h.logger.Warn("DELETE /sessions/{id} - Access denied: session_id=%d, user_id=%d", sessionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, sessions.ErrHasActiveBookings):
			h.logger.Warn("DELETE /sessions/{id} - Has active bookings: session_id=%d", sessionID)
			handlers.RespondConflict(w, msgHasActiveBookings)

		case errors.Is(err, sessions.ErrUnavailable):
			h.logger.Error("DELETE /sessions/{id} - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("DELETE /sessions/{id} - Failed to delete session: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /sessions/{id} - Session deleted: session_id=%d, user_id=%d", sessionID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
