package mark_outcome

import (
	"context"

	"github.com/m04kA/CIM-DemoBookingService/internal/service/bookings/models"
)

type BookingService interface {
	MarkOutcome(ctx context.Context, id int64, req *models.MarkOutcomeRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
