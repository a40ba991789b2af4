package update_session

import (
	"context"

	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions/models"
)

type SessionService interface {
	Update(ctx context.Context, id int64, req *models.UpdateSessionRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
