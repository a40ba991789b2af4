package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CIM-DemoBookingService/internal/api/handlers"
	"github.com/m04kA/CIM-DemoBookingService/internal/api/middleware"
	reserveBooking "github.com/m04kA/CIM-DemoBookingService/internal/usecase/reserve_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSessionNotFound    = "сессия не найдена"
	msgNotBookable        = "сессия недоступна для бронирования"
	msgInvalidSlot        = "выбранный слот не входит в расписание сессии"
	msgCapacityExceeded   = "на выбранном слоте не осталось мест"
	msgDuplicateBooking   = "у вас уже есть бронирование на этот слот"
)

type Handler struct {
	useCase ReserveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReserveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	studentID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest(studentID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveBooking.ErrSessionNotFound):
			h.logger.Warn("POST /bookings - Session not found: session_id=%d", req.SessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, reserveBooking.ErrNotBookable):
			h.logger.Warn("POST /bookings - Session not bookable: session_id=%d, student_id=%d",
				req.SessionID, studentID)
			handlers.RespondConflict(w, msgNotBookable)

		case errors.Is(err, reserveBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: session_id=%d, student_id=%d", req.SessionID, studentID)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, reserveBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: session_id=%d, student_id=%d",
				req.SessionID, studentID)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, reserveBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: session_id=%d, student_id=%d",
				req.SessionID, studentID)
			handlers.RespondConflict(w, msgDuplicateBooking)

		case errors.Is(err, reserveBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: session_id=%d, error=%v", req.SessionID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, reserveBooking.ErrUnavailable):
			h.logger.Error("POST /bookings - Storage unavailable: %v", err)
			handlers.RespondUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to reserve booking: session_id=%d, student_id=%d, error=%v",
				req.SessionID, studentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, session_id=%d, student_id=%d",
		result.ID, req.SessionID, studentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
