package reserve_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/CIM-DemoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/CIM-DemoBookingService/pkg/ptr"
)

// Mock repositories

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

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.DemoBooking) (*domain.DemoBooking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoBooking), args.Error(1)
}

func (m *MockBookingRepository) GetBySessionWithFilter(ctx context.Context, filter domain.SessionBookingsFilter) ([]*domain.DemoBooking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DemoBooking), args.Error(1)
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedTimeProvider возвращает заранее заданный момент времени
type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(sessionRepo *MockSessionRepository, bkRepo *MockBookingRepository) *UseCase {
	uc := NewUseCase(sessionRepo, bkRepo, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func testMultiSlotSession() *domain.DemoSession {
	return &domain.DemoSession{
		ID:              1,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Демо-урок по физике",
		Mode:            domain.ModeOnline,
		Instructor:      "И. Сидорова",
		MaxParticipants: 2,
		Kind:            domain.KindMultiSlot,
		AvailableDates:  []time.Time{time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		TimeSlots:       []string{"10:00-11:00", "14:00-15:00"},
		Status:          domain.SessionScheduled,
	}
}

func validRequest() *Request {
	return &Request{
		StudentID:    7,
		SessionID:    1,
		SelectedDate: ptr.Ptr(time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)),
		SelectedTime: ptr.Ptr("10:00-11:00"),
		StudentName:  "Мария Иванова",
		StudentEmail: "maria@example.com",
	}
}

func TestExecute_Success(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)
	bkRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).Return([]*domain.DemoBooking{}, nil)

	created := &domain.DemoBooking{
		ID:           42,
		SessionID:    1,
		StudentID:    7,
		StudentName:  "Мария Иванова",
		StudentEmail: "maria@example.com",
		SelectedDate: ptr.Ptr(time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)),
		SelectedTime: ptr.Ptr("10:00-11:00"),
		Status:       domain.StatusConfirmed,
	}
	bkRepo.On("Create", mock.Anything, mock.Anything).Return(created, nil)

	uc := newTestUseCase(sessionRepo, bkRepo)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	bkRepo.AssertExpectations(t)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	date := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	taken := []*domain.DemoBooking{
		{StudentID: 1, SelectedDate: &date, SelectedTime: ptr.Ptr("10:00-11:00"), Status: domain.StatusConfirmed},
		{StudentID: 2, SelectedDate: &date, SelectedTime: ptr.Ptr("10:00-11:00"), Status: domain.StatusConfirmed},
	}
	bkRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).Return(taken, nil)

	uc := newTestUseCase(sessionRepo, bkRepo)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	bkRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_CancelledBookingFreesSeat(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	session.MaxParticipants = 1
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	date := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	bookings := []*domain.DemoBooking{
		{StudentID: 1, SelectedDate: &date, SelectedTime: ptr.Ptr("10:00-11:00"), Status: domain.StatusCancelled},
	}
	bkRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).Return(bookings, nil)
	bkRepo.On("Create", mock.Anything, mock.Anything).Return(&domain.DemoBooking{
		ID:     43,
		Status: domain.StatusConfirmed,
	}, nil)

	uc := newTestUseCase(sessionRepo, bkRepo)

	resp, err := uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(43), resp.ID)
}

func TestExecute_DuplicateBooking(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	date := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	bookings := []*domain.DemoBooking{
		{StudentID: 7, SelectedDate: &date, SelectedTime: ptr.Ptr("10:00-11:00"), Status: domain.StatusConfirmed},
	}
	bkRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).Return(bookings, nil)

	uc := newTestUseCase(sessionRepo, bkRepo)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_DuplicateRejectedByUniqueIndex(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)
	bkRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).Return([]*domain.DemoBooking{}, nil)
	bkRepo.On("Create", mock.Anything, mock.Anything).Return(nil, bookingRepo.ErrDuplicateBooking)

	uc := newTestUseCase(sessionRepo, bkRepo)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_SessionNotBookable(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	session.Status = domain.SessionCancelled
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	uc := newTestUseCase(sessionRepo, bkRepo)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrNotBookable)
}

func TestExecute_SlotInThePast(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	session.AvailableDates = []time.Time{time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	req := validRequest()
	req.SelectedDate = ptr.Ptr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	uc := newTestUseCase(sessionRepo, bkRepo)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrNotBookable)
}

func TestExecute_SlotNotInSchedule(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := testMultiSlotSession()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	req := validRequest()
	req.SelectedTime = ptr.Ptr("23:00-23:30")

	uc := newTestUseCase(sessionRepo, bkRepo)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_FixedInstantRejectsExplicitSlot(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := &domain.DemoSession{
		ID:              1,
		MaxParticipants: 10,
		Kind:            domain.KindFixedInstant,
		DateTime:        ptr.Ptr(testNow.Add(48 * time.Hour)),
		DurationMinutes: 45,
		Status:          domain.SessionScheduled,
	}
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)

	uc := newTestUseCase(sessionRepo, bkRepo)

	// Явные дата и слот недопустимы для fixed-instant сессии
	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_FixedInstantSuccess(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)

	session := &domain.DemoSession{
		ID:              1,
		MaxParticipants: 10,
		Kind:            domain.KindFixedInstant,
		DateTime:        ptr.Ptr(testNow.Add(48 * time.Hour)),
		DurationMinutes: 45,
		Status:          domain.SessionScheduled,
	}
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(session, nil)
	bkRepo.On("GetBySessionWithFilter", mock.Anything, mock.Anything).Return([]*domain.DemoBooking{}, nil)
	bkRepo.On("Create", mock.Anything, mock.Anything).Return(&domain.DemoBooking{
		ID:        50,
		SessionID: 1,
		StudentID: 7,
		Status:    domain.StatusConfirmed,
	}, nil)

	req := validRequest()
	req.SelectedDate = nil
	req.SelectedTime = nil

	uc := newTestUseCase(sessionRepo, bkRepo)

	resp, err := uc.Execute(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, int64(50), resp.ID)
	assert.Nil(t, resp.SelectedDate)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(new(MockSessionRepository), new(MockBookingRepository))

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero student id", func(r *Request) { r.StudentID = 0 }},
		{"zero session id", func(r *Request) { r.SessionID = 0 }},
		{"blank name", func(r *Request) { r.StudentName = "   " }},
		{"bad email", func(r *Request) { r.StudentEmail = "not-an-email" }},
		{"email without domain", func(r *Request) { r.StudentEmail = "maria@" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
