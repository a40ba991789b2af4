package models

import (
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID int64
	Reason string
}

// MarkOutcomeRequest запрос на проставление исхода бронирования
// после прошедшего слота
type MarkOutcomeRequest struct {
	UserID  int64
	Outcome string // completed | no_show
}

// SubmitFeedbackRequest запрос на прикрепление отзыва студента
type SubmitFeedbackRequest struct {
	UserID   int64
	Feedback *string
	Rating   *int
}

// SessionBookingsRequest запрос списка бронирований сессии для владельца
type SessionBookingsRequest struct {
	UserID          int64
	SessionID       int64
	SelectedDate    *time.Time
	SelectedTime    *string
	Status          *string
	IncludeInactive bool
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64 `json:"id"`
	SessionID int64 `json:"sessionId"`
	StudentID int64 `json:"studentId"`

	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`

	SelectedDate *string `json:"selectedDate,omitempty"` // "2006-01-02"
	SelectedTime *string `json:"selectedTime,omitempty"`

	Status   string `json:"status"`
	Attended bool   `json:"attended"`

	Feedback *string `json:"feedback,omitempty"`
	Rating   *int    `json:"rating,omitempty"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.DemoBooking) *BookingResponse {
	if b == nil {
		return nil
	}

	var date *string
	if b.SelectedDate != nil {
		formatted := b.SelectedDate.Format(domain.DateFormat)
		date = &formatted
	}

	return &BookingResponse{
		ID:                 b.ID,
		SessionID:          b.SessionID,
		StudentID:          b.StudentID,
		StudentName:        b.StudentName,
		StudentEmail:       b.StudentEmail,
		SelectedDate:       date,
		SelectedTime:       b.SelectedTime,
		Status:             string(b.Status),
		Attended:           b.Attended,
		Feedback:           b.Feedback,
		Rating:             b.Rating,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookings конвертирует список domain моделей в DTO
func FromDomainBookings(bookings []*domain.DemoBooking) *BookingListResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: out}
}
