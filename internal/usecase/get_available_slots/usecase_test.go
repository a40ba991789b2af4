package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	bookingStore "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/booking"
	sessionStore "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/session"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*domain.DemoSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoSession), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetBySessionWithFilter(ctx context.Context, filter domain.SessionBookingsFilter) ([]*domain.DemoBooking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DemoBooking), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestExecute_MultiSlot_AvailableTimeSlots(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	session := multiSlotSession(1, []time.Time{date}, []string{"10:00-11:00", "14:00-15:00"})

	sessionRepo := new(MockSessionRepository)
	bookingRepo := new(MockBookingRepository)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)
	bookingRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).
		Return([]*domain.DemoBooking{confirmedBooking(1, date, "10:00-11:00")}, nil)

	uc := NewUseCase(sessionRepo, bookingRepo, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 1, Date: &date})

	assert.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
	// Занятый слот выпадает из списка меток, остаток порядка сохраняется
	assert.Equal(t, []string{"14:00-15:00"}, resp.AvailableTimeSlots)
}

func TestExecute_SessionStorageUnavailable(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, sessionStore.ErrStorageUnavailable)

	uc := NewUseCase(sessionRepo, new(MockBookingRepository), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 1})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExecute_BookingStorageUnavailable(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	session := multiSlotSession(3, []time.Time{date}, []string{"10:00-11:00"})

	sessionRepo := new(MockSessionRepository)
	bookingRepo := new(MockBookingRepository)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)
	bookingRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).
		Return(nil, bookingStore.ErrStorageUnavailable)

	uc := NewUseCase(sessionRepo, bookingRepo, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 1, Date: &date})

	assert.ErrorIs(t, err, ErrUnavailable)
}
