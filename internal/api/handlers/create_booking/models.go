package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	reserveBooking "github.com/m04kA/CIM-DemoBookingService/internal/usecase/reserve_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SessionID    int64   `json:"sessionId"`
	SelectedDate *string `json:"selectedDate,omitempty"` // "2006-01-02"; обязательна для multi-slot
	SelectedTime *string `json:"selectedTime,omitempty"` // Метка слота, например "10:00-11:00"
	StudentName  string  `json:"studentName"`
	StudentEmail string  `json:"studentEmail"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64   `json:"id"`
	SessionID    int64   `json:"sessionId"`
	StudentID    int64   `json:"studentId"`
	StudentName  string  `json:"studentName"`
	StudentEmail string  `json:"studentEmail"`
	SelectedDate *string `json:"selectedDate,omitempty"`
	SelectedTime *string `json:"selectedTime,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты)
func (r *CreateBookingRequest) ToUseCaseRequest(studentID int64) (*reserveBooking.Request, error) {
	req := &reserveBooking.Request{
		StudentID:    studentID,
		SessionID:    r.SessionID,
		SelectedTime: r.SelectedTime,
		StudentName:  r.StudentName,
		StudentEmail: r.StudentEmail,
	}

	if r.SelectedDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *r.SelectedDate)
		if err != nil {
			return nil, fmt.Errorf("parse selectedDate: %w", err)
		}
		req.SelectedDate = &parsed
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:           resp.ID,
		SessionID:    resp.SessionID,
		StudentID:    resp.StudentID,
		StudentName:  resp.StudentName,
		StudentEmail: resp.StudentEmail,
		SelectedTime: resp.SelectedTime,
		Status:       resp.Status,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.SelectedDate != nil {
		formatted := resp.SelectedDate.Format(domain.DateFormat)
		out.SelectedDate = &formatted
	}

	return out
}
