package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/sessions/models"
	"github.com/m04kA/CIM-DemoBookingService/pkg/ptr"
)

// Mock repositories

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *domain.DemoSession) (*domain.DemoSession, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoSession), args.Error(1)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*domain.DemoSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoSession), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *domain.DemoSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) MaxConfirmedPerSlot(ctx context.Context, sessionID int64) (int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) CountActiveFuture(ctx context.Context, sessionID int64, today string) (int, error) {
	args := m.Called(ctx, sessionID, today)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) CancelBySession(ctx context.Context, sessionID int64, reason string) (int64, error) {
	args := m.Called(ctx, sessionID, reason)
	return args.Get(0).(int64), args.Error(1)
}

type MockProfileClient struct {
	mock.Mock
}

func (m *MockProfileClient) GetProfile(ctx context.Context, profileID int64) (*profileservice.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profileservice.Profile), args.Error(1)
}

// fakeTxManager выполняет функцию без настоящей транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

func newTestService(sessionRepo *MockSessionRepository, bkRepo *MockBookingRepository, profiles *MockProfileClient) *Service {
	return NewService(sessionRepo, bkRepo, profiles, &fakeTxManager{}, &fixedTimeProvider{now: testNow}, nopLogger{})
}

func operatorProfile() *profileservice.Profile {
	return &profileservice.Profile{
		ID:               10,
		OrganizationName: "Вектор",
		City:             "Казань",
		OperatorIDs:      []int64{5},
	}
}

func storedMultiSlotSession() *domain.DemoSession {
	return &domain.DemoSession{
		ID:              1,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Пробное занятие по химии",
		Mode:            domain.ModeOffline,
		Instructor:      "О. Смирнова",
		MaxParticipants: 10,
		Kind:            domain.KindMultiSlot,
		AvailableDates:  []time.Time{time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		TimeSlots:       []string{"10:00-11:00"},
		Status:          domain.SessionScheduled,
	}
}

func TestCreate_Success(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)
	profiles := new(MockProfileClient)

	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	sessionRepo.On("Create", mock.Anything, mock.Anything).Return(storedMultiSlotSession(), nil)

	svc := newTestService(sessionRepo, bkRepo, profiles)

	resp, err := svc.Create(context.Background(), &models.CreateSessionRequest{
		UserID:          5,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Пробное занятие по химии",
		Mode:            "offline",
		Instructor:      "О. Смирнова",
		MaxParticipants: 10,
		AvailableDates:  []time.Time{time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		TimeSlots:       []string{"10:00-11:00"},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.KindMultiSlot), resp.Kind)
	sessionRepo.AssertExpectations(t)
}

func TestCreate_AccessDenied(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)

	svc := newTestService(sessionRepo, new(MockBookingRepository), profiles)

	// Пользователь 99 не оператор профиля 10
	_, err := svc.Create(context.Background(), &models.CreateSessionRequest{
		UserID:          99,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Демо",
		Mode:            "online",
		Instructor:      "X",
		MaxParticipants: 5,
		AvailableDates:  []time.Time{time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		TimeSlots:       []string{"10:00"},
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_MixedShapeRejected(t *testing.T) {
	profiles := new(MockProfileClient)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)

	svc := newTestService(new(MockSessionRepository), new(MockBookingRepository), profiles)

	// dateTime вместе с availableDates недопустимы
	_, err := svc.Create(context.Background(), &models.CreateSessionRequest{
		UserID:          5,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Демо",
		Mode:            "online",
		Instructor:      "X",
		MaxParticipants: 5,
		DateTime:        ptr.Ptr(testNow.Add(24 * time.Hour)),
		DurationMinutes: 60,
		AvailableDates:  []time.Time{time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		TimeSlots:       []string{"10:00"},
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_DemoDaysBoundExceeded(t *testing.T) {
	profiles := new(MockProfileClient)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)

	svc := newTestService(new(MockSessionRepository), new(MockBookingRepository), profiles)

	_, err := svc.Create(context.Background(), &models.CreateSessionRequest{
		UserID:          5,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Демо",
		Mode:            "online",
		Instructor:      "X",
		MaxParticipants: 5,
		AvailableDates: []time.Time{
			time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		},
		TimeSlots: []string{"10:00"},
		DemoDays:  2,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_CapacityConflict(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	// На самом загруженном слоте уже 6 подтвержденных бронирований
	bkRepo.On("MaxConfirmedPerSlot", mock.Anything, int64(1)).Return(6, nil)

	svc := newTestService(sessionRepo, bkRepo, profiles)

	_, err := svc.Update(context.Background(), 1, &models.UpdateSessionRequest{
		UserID:          5,
		MaxParticipants: ptr.Ptr(4),
	})

	assert.ErrorIs(t, err, ErrCapacityConflict)
	sessionRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_CapacityReductionAllowed(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	bkRepo.On("MaxConfirmedPerSlot", mock.Anything, int64(1)).Return(3, nil)
	sessionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(sessionRepo, bkRepo, profiles)

	resp, err := svc.Update(context.Background(), 1, &models.UpdateSessionRequest{
		UserID:          5,
		MaxParticipants: ptr.Ptr(4),
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, resp.MaxParticipants)
}

func TestUpdate_NotEditable(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	completed := storedMultiSlotSession()
	completed.Status = domain.SessionCompleted
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(completed, nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)

	svc := newTestService(sessionRepo, new(MockBookingRepository), profiles)

	_, err := svc.Update(context.Background(), 1, &models.UpdateSessionRequest{
		UserID: 5,
		Title:  ptr.Ptr("Новое название"),
	})

	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdate_StatusTransition(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	sessionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(sessionRepo, new(MockBookingRepository), profiles)

	resp, err := svc.Update(context.Background(), 1, &models.UpdateSessionRequest{
		UserID: 5,
		Status: ptr.Ptr("live"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "live", resp.Status)
}

func TestUpdate_InvalidStatusTransition(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)

	svc := newTestService(sessionRepo, new(MockBookingRepository), profiles)

	// scheduled -> completed без промежуточного live недопустим
	_, err := svc.Update(context.Background(), 1, &models.UpdateSessionRequest{
		UserID: 5,
		Status: ptr.Ptr("completed"),
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancel_CascadesToBookings(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	sessionRepo.On("UpdateStatus", mock.Anything, int64(1), domain.SessionCancelled).Return(nil)
	bkRepo.On("CancelBySession", mock.Anything, int64(1), "болезнь преподавателя").Return(int64(3), nil)

	svc := newTestService(sessionRepo, bkRepo, profiles)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelSessionRequest{
		UserID: 5,
		Reason: "болезнь преподавателя",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.CancelledBookings)
	sessionRepo.AssertExpectations(t)
	bkRepo.AssertExpectations(t)
}

func TestCancel_AlreadyTerminal(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	cancelled := storedMultiSlotSession()
	cancelled.Status = domain.SessionCancelled
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(cancelled, nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)

	svc := newTestService(sessionRepo, new(MockBookingRepository), profiles)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelSessionRequest{UserID: 5})

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDelete_BlockedByActiveBookings(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	bkRepo.On("CountActiveFuture", mock.Anything, int64(1), "2026-10-01").Return(2, nil)

	svc := newTestService(sessionRepo, bkRepo, profiles)

	err := svc.Delete(context.Background(), 1, 5)

	assert.ErrorIs(t, err, ErrHasActiveBookings)
	sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	bkRepo := new(MockBookingRepository)
	profiles := new(MockProfileClient)

	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(storedMultiSlotSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(operatorProfile(), nil)
	bkRepo.On("CountActiveFuture", mock.Anything, int64(1), "2026-10-01").Return(0, nil)
	sessionRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

	svc := newTestService(sessionRepo, bkRepo, profiles)

	err := svc.Delete(context.Background(), 1, 5)

	assert.NoError(t, err)
	sessionRepo.AssertExpectations(t)
}
