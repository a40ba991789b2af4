package list_sessions

import (
	"context"

	listBookableSessions "github.com/m04kA/CIM-DemoBookingService/internal/usecase/list_bookable_sessions"
)

type ListBookableSessionsUseCase interface {
	Execute(ctx context.Context, req *listBookableSessions.Request) (*listBookableSessions.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
