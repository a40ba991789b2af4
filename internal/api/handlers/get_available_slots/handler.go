package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CIM-DemoBookingService/internal/api/handlers"
	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/CIM-DemoBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotFound         = "сессия не найдена"
	msgDateRequired     = "для сессии с расписанием необходимо указать дату"
	msgDateNotAvailable = "дата не входит в расписание сессии"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/available-slots
// Query params: date (обязательна для multi-slot сессий)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, err := strconv.ParseInt(vars["sessionId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/available-slots - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	req := &getAvailableSlots.Request{SessionID: sessionID}

	if rawDate := r.URL.Query().Get("date"); rawDate != "" {
		date, err := time.Parse(domain.DateFormat, rawDate)
		if err != nil {
			h.logger.Warn("GET /sessions/{id}/available-slots - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id}/available-slots - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, getAvailableSlots.ErrDateRequired):
			h.logger.Warn("GET /sessions/{id}/available-slots - Date required: session_id=%d", sessionID)
			handlers.RespondBadRequest(w, msgDateRequired)

		case errors.Is(err, getAvailableSlots.ErrDateNotAvailable):
			h.logger.Warn("GET /sessions/{id}/available-slots - Date not available: session_id=%d", sessionID)
			handlers.RespondBadRequest(w, msgDateNotAvailable)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /sessions/{id}/available-slots - Invalid input: session_id=%d, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrUnavailable):
			h.logger.Error("GET /sessions/{id}/available-slots - Storage unavailable: session_id=%d, error=%v", sessionID, err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /sessions/{id}/available-slots - Failed to get slots: session_id=%d, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sessions/{id}/available-slots - Slots retrieved: session_id=%d, count=%d",
		sessionID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
