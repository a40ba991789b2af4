package get_session_bookings

import (
	"context"

	"github.com/m04kA/CIM-DemoBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetSessionBookings(ctx context.Context, req *models.SessionBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
