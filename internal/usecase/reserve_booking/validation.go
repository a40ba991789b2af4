package reserve_booking

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}
	if req.SessionID <= 0 {
		return fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.StudentName) == "" {
		return fmt.Errorf("%w: studentName is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.StudentEmail); err != nil {
		return fmt.Errorf("%w: studentEmail is invalid", ErrInvalidInput)
	}
	return nil
}

// validateSlotForSession проверяет, что запрошенный слот согласован
// с темпоральной формой сессии и входит в её расписание
func validateSlotForSession(session *domain.DemoSession, req *Request) error {
	if !session.IsMultiSlot() {
		// Fixed-instant: слот неявный, явные дата/время недопустимы
		if req.SelectedDate != nil || req.SelectedTime != nil {
			return fmt.Errorf("%w: fixed-instant sessions take no date/time", ErrInvalidSlot)
		}
		return nil
	}

	if req.SelectedDate == nil || req.SelectedTime == nil {
		return fmt.Errorf("%w: date and time are required for multi-slot sessions", ErrInvalidSlot)
	}
	if !session.HasDate(*req.SelectedDate) {
		return fmt.Errorf("%w: date %s", ErrInvalidSlot, req.SelectedDate.Format(domain.DateFormat))
	}
	if !session.HasTimeSlot(*req.SelectedTime) {
		return fmt.Errorf("%w: time slot %q", ErrInvalidSlot, *req.SelectedTime)
	}

	return nil
}
