package list_sessions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/CIM-DemoBookingService/internal/api/handlers"
	listBookableSessions "github.com/m04kA/CIM-DemoBookingService/internal/usecase/list_bookable_sessions"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase ListBookableSessionsUseCase
	logger  Logger
}

func NewHandler(useCase ListBookableSessionsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions
// Query params: mode, courseId, city, q (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &listBookableSessions.Request{}

	if mode := query.Get("mode"); mode != "" {
		req.Mode = &mode
	}

	if rawCourseID := query.Get("courseId"); rawCourseID != "" {
		courseID, err := strconv.ParseInt(rawCourseID, 10, 64)
		if err != nil {
			h.logger.Warn("GET /sessions - Invalid courseId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.CourseID = &courseID
	}

	if city := query.Get("city"); city != "" {
		req.City = &city
	}

	if search := query.Get("q"); search != "" {
		req.Search = &search
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, listBookableSessions.ErrInvalidInput):
			h.logger.Warn("GET /sessions - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, listBookableSessions.ErrUnavailable):
			h.logger.Error("GET /sessions - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("GET /sessions - Failed to list sessions: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /sessions - Sessions listed successfully: count=%d", len(result.Sessions))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
