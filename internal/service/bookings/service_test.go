package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/internal/integrations/profileservice"
	"github.com/m04kA/CIM-DemoBookingService/internal/service/bookings/models"
	"github.com/m04kA/CIM-DemoBookingService/pkg/ptr"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.DemoBooking, error) {
	args := m.Called(ctx, id)
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

func (m *MockBookingRepository) GetByStudentID(ctx context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.DemoBooking, error) {
	args := m.Called(ctx, studentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DemoBooking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockBookingRepository) SetOutcome(ctx context.Context, id int64, outcome domain.BookingStatus, attended bool) error {
	args := m.Called(ctx, id, outcome, attended)
	return args.Error(0)
}

func (m *MockBookingRepository) AttachFeedback(ctx context.Context, id int64, feedback *string, rating *int) error {
	args := m.Called(ctx, id, feedback, rating)
	return args.Error(0)
}

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

func newTestService(bkRepo *MockBookingRepository, sessionRepo *MockSessionRepository, profiles *MockProfileClient) *Service {
	return NewService(bkRepo, sessionRepo, profiles, &fakeTxManager{}, &fixedTimeProvider{now: testNow}, nopLogger{})
}

func futureSlotBooking() *domain.DemoBooking {
	return &domain.DemoBooking{
		ID:           42,
		SessionID:    1,
		StudentID:    7,
		StudentName:  "Мария Иванова",
		StudentEmail: "maria@example.com",
		SelectedDate: ptr.Ptr(time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)),
		SelectedTime: ptr.Ptr("10:00-11:00"),
		Status:       domain.StatusConfirmed,
	}
}

func pastSlotBooking() *domain.DemoBooking {
	b := futureSlotBooking()
	b.SelectedDate = ptr.Ptr(time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC))
	return b
}

func parentSession() *domain.DemoSession {
	return &domain.DemoSession{
		ID:              1,
		ProfileID:       10,
		MaxParticipants: 10,
		Kind:            domain.KindMultiSlot,
		AvailableDates: []time.Time{
			time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
		},
		TimeSlots: []string{"10:00-11:00"},
		Status:    domain.SessionScheduled,
	}
}

func ownerProfile() *profileservice.Profile {
	return &profileservice.Profile{
		ID:          10,
		OperatorIDs: []int64{5},
	}
}

func TestGetByID_BookerAccess(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)

	svc := newTestService(bkRepo, new(MockSessionRepository), new(MockProfileClient))

	resp, err := svc.GetByID(context.Background(), 42, 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
}

func TestGetByID_OwnerAccess(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)

	svc := newTestService(bkRepo, sessionRepo, profiles)

	resp, err := svc.GetByID(context.Background(), 42, 5)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)

	svc := newTestService(bkRepo, sessionRepo, profiles)

	_, err := svc.GetByID(context.Background(), 42, 99)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetStudentBookings_OnlyOwn(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockSessionRepository), new(MockProfileClient))

	_, err := svc.GetStudentBookings(context.Background(), 7, 8, nil)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetStudentBookings_Success(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	bkRepo.On("GetByStudentID", mock.Anything, int64(7), (*domain.BookingStatus)(nil)).
		Return([]*domain.DemoBooking{futureSlotBooking()}, nil)

	svc := newTestService(bkRepo, new(MockSessionRepository), new(MockProfileClient))

	resp, err := svc.GetStudentBookings(context.Background(), 7, 7, nil)

	assert.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestCancel_Success(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)

	booking := futureSlotBooking()
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil).Once()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	bkRepo.On("Cancel", mock.Anything, int64(42), "планы изменились").Return(nil)

	cancelled := futureSlotBooking()
	cancelled.Status = domain.StatusCancelled
	cancelled.CancellationReason = ptr.Ptr("планы изменились")
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(cancelled, nil).Once()

	svc := newTestService(bkRepo, sessionRepo, new(MockProfileClient))

	resp, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 7,
		Reason: "планы изменились",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	bkRepo.AssertExpectations(t)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)

	booking := futureSlotBooking()
	booking.Status = domain.StatusCancelled
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)

	svc := newTestService(bkRepo, sessionRepo, new(MockProfileClient))

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
	bkRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_SessionNotScheduled(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)

	// Сессия уже переведена в completed: состав участников зафиксирован,
	// хотя бронирование всё ещё confirmed и слот в будущем
	parent := parentSession()
	parent.Status = domain.SessionCompleted
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parent, nil)

	svc := newTestService(bkRepo, sessionRepo, new(MockProfileClient))

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
	bkRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_SlotPassed(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(pastSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)

	svc := newTestService(bkRepo, sessionRepo, new(MockProfileClient))

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_StrangerDenied(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)

	svc := newTestService(bkRepo, sessionRepo, profiles)

	_, err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: 99})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMarkOutcome_BeforeSlotPassed(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)

	svc := newTestService(bkRepo, sessionRepo, profiles)

	_, err := svc.MarkOutcome(context.Background(), 42, &models.MarkOutcomeRequest{
		UserID:  5,
		Outcome: "completed",
	})

	assert.ErrorIs(t, err, ErrSlotNotPassed)
	bkRepo.AssertNotCalled(t, "SetOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkOutcome_Completed(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(pastSlotBooking(), nil).Once()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)
	bkRepo.On("SetOutcome", mock.Anything, int64(42), domain.StatusCompleted, true).Return(nil)

	completed := pastSlotBooking()
	completed.Status = domain.StatusCompleted
	completed.Attended = true
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(completed, nil).Once()

	svc := newTestService(bkRepo, sessionRepo, profiles)

	resp, err := svc.MarkOutcome(context.Background(), 42, &models.MarkOutcomeRequest{
		UserID:  5,
		Outcome: "completed",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.True(t, resp.Attended)
	bkRepo.AssertExpectations(t)
}

func TestMarkOutcome_NoShow(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(pastSlotBooking(), nil).Once()
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)
	bkRepo.On("SetOutcome", mock.Anything, int64(42), domain.StatusNoShow, false).Return(nil)

	noShow := pastSlotBooking()
	noShow.Status = domain.StatusNoShow
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(noShow, nil).Once()

	svc := newTestService(bkRepo, sessionRepo, profiles)

	resp, err := svc.MarkOutcome(context.Background(), 42, &models.MarkOutcomeRequest{
		UserID:  5,
		Outcome: "no_show",
	})

	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), resp.Status)
	assert.False(t, resp.Attended)
}

func TestMarkOutcome_BookerDenied(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	sessionRepo := new(MockSessionRepository)
	profiles := new(MockProfileClient)

	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(pastSlotBooking(), nil)
	sessionRepo.On("GetByID", mock.Anything, int64(1)).Return(parentSession(), nil)
	profiles.On("GetProfile", mock.Anything, int64(10)).Return(ownerProfile(), nil)

	svc := newTestService(bkRepo, sessionRepo, profiles)

	// Студент не может проставить себе посещение
	_, err := svc.MarkOutcome(context.Background(), 42, &models.MarkOutcomeRequest{
		UserID:  7,
		Outcome: "completed",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMarkOutcome_InvalidOutcome(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockSessionRepository), new(MockProfileClient))

	_, err := svc.MarkOutcome(context.Background(), 42, &models.MarkOutcomeRequest{
		UserID:  5,
		Outcome: "cancelled",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitFeedback_Success(t *testing.T) {
	bkRepo := new(MockBookingRepository)

	completed := pastSlotBooking()
	completed.Status = domain.StatusCompleted
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(completed, nil).Once()
	bkRepo.On("AttachFeedback", mock.Anything, int64(42), ptr.Ptr("Отличное занятие"), ptr.Ptr(5)).Return(nil)

	withFeedback := pastSlotBooking()
	withFeedback.Status = domain.StatusCompleted
	withFeedback.Feedback = ptr.Ptr("Отличное занятие")
	withFeedback.Rating = ptr.Ptr(5)
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(withFeedback, nil).Once()

	svc := newTestService(bkRepo, new(MockSessionRepository), new(MockProfileClient))

	resp, err := svc.SubmitFeedback(context.Background(), 42, &models.SubmitFeedbackRequest{
		UserID:   7,
		Feedback: ptr.Ptr("Отличное занятие"),
		Rating:   ptr.Ptr(5),
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, *resp.Rating)
	bkRepo.AssertExpectations(t)
}

func TestSubmitFeedback_NotCompleted(t *testing.T) {
	bkRepo := new(MockBookingRepository)
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(futureSlotBooking(), nil)

	svc := newTestService(bkRepo, new(MockSessionRepository), new(MockProfileClient))

	_, err := svc.SubmitFeedback(context.Background(), 42, &models.SubmitFeedbackRequest{
		UserID: 7,
		Rating: ptr.Ptr(4),
	})

	assert.ErrorIs(t, err, ErrFeedbackNotAllowed)
}

func TestSubmitFeedback_RatingOutOfRange(t *testing.T) {
	svc := newTestService(new(MockBookingRepository), new(MockSessionRepository), new(MockProfileClient))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitFeedback(context.Background(), 42, &models.SubmitFeedbackRequest{
			UserID: 7,
			Rating: ptr.Ptr(rating),
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestSubmitFeedback_NotBooker(t *testing.T) {
	bkRepo := new(MockBookingRepository)

	completed := pastSlotBooking()
	completed.Status = domain.StatusCompleted
	bkRepo.On("GetByID", mock.Anything, int64(42)).Return(completed, nil)

	svc := newTestService(bkRepo, new(MockSessionRepository), new(MockProfileClient))

	_, err := svc.SubmitFeedback(context.Background(), 42, &models.SubmitFeedbackRequest{
		UserID: 99,
		Rating: ptr.Ptr(4),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}
