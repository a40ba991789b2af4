package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/pkg/ptr"
)

func multiSlotSession(maxParticipants int, dates []time.Time, slots []string) *domain.DemoSession {
	return &domain.DemoSession{
		ID:              1,
		ProfileID:       10,
		CourseID:        100,
		Title:           "Интенсив по математике",
		Mode:            domain.ModeOnline,
		Instructor:      "А. Петров",
		MaxParticipants: maxParticipants,
		Kind:            domain.KindMultiSlot,
		AvailableDates:  dates,
		TimeSlots:       slots,
		Status:          domain.SessionScheduled,
	}
}

func confirmedBooking(studentID int64, date time.Time, label string) *domain.DemoBooking {
	return &domain.DemoBooking{
		SessionID:    1,
		StudentID:    studentID,
		SelectedDate: &date,
		SelectedTime: &label,
		Status:       domain.StatusConfirmed,
	}
}

func TestCountConfirmedForSlot(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	otherDate := time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC)
	label := "10:00-11:00"
	otherLabel := "14:00-15:00"

	bookings := []*domain.DemoBooking{
		confirmedBooking(1, date, label),
		confirmedBooking(2, date, label),
		confirmedBooking(3, date, otherLabel),
		confirmedBooking(4, otherDate, label),
	}

	// Отмененные не считаются
	cancelled := confirmedBooking(5, date, label)
	cancelled.Status = domain.StatusCancelled
	bookings = append(bookings, cancelled)

	assert.Equal(t, 2, countConfirmedForSlot(bookings, &date, &label))
	assert.Equal(t, 1, countConfirmedForSlot(bookings, &date, &otherLabel))
	assert.Equal(t, 1, countConfirmedForSlot(bookings, &otherDate, &label))
}

func TestCountConfirmedForSlot_FixedInstant(t *testing.T) {
	// Для fixed-instant сессий слот неявный: учитываются строки без даты и метки
	bookings := []*domain.DemoBooking{
		{StudentID: 1, Status: domain.StatusConfirmed},
		{StudentID: 2, Status: domain.StatusConfirmed},
		{StudentID: 3, Status: domain.StatusNoShow},
	}

	assert.Equal(t, 2, countConfirmedForSlot(bookings, nil, nil))
}

func TestRemainingSeats_ClampedAtZero(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	label := "10:00-11:00"
	session := multiSlotSession(2, []time.Time{date}, []string{label})

	// Вместимость уменьшили после трех подтвержденных бронирований
	bookings := []*domain.DemoBooking{
		confirmedBooking(1, date, label),
		confirmedBooking(2, date, label),
		confirmedBooking(3, date, label),
	}

	assert.Equal(t, 0, remainingSeats(session, bookings, &date, &label))
}

func TestRemainingSeats_EmptySlot(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	label := "10:00-11:00"
	session := multiSlotSession(5, []time.Time{date}, []string{label})

	assert.Equal(t, 5, remainingSeats(session, nil, &date, &label))
}

func TestAvailableTimeSlotsForDate_PreservesDeclaredOrder(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	labels := []string{"16:00-17:00", "10:00-11:00", "14:00-15:00"}
	session := multiSlotSession(1, []time.Time{date}, labels)

	// Средний слот занят полностью
	bookings := []*domain.DemoBooking{
		confirmedBooking(1, date, "10:00-11:00"),
	}

	got := availableTimeSlotsForDate(session, bookings, date)

	assert.Equal(t, []string{"16:00-17:00", "14:00-15:00"}, got)
}

func TestSlotAvailabilities(t *testing.T) {
	date := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	session := multiSlotSession(3, []time.Time{date}, []string{"10:00-11:00", "14:00-15:00"})

	bookings := []*domain.DemoBooking{
		confirmedBooking(1, date, "10:00-11:00"),
		confirmedBooking(2, date, "10:00-11:00"),
	}

	got := slotAvailabilities(session, bookings, date)

	assert.Len(t, got, 2)
	assert.Equal(t, "10:00-11:00", got[0].TimeSlot)
	assert.Equal(t, 1, got[0].AvailableSeats)
	assert.Equal(t, 3, got[0].TotalSeats)
	assert.Equal(t, "14:00-15:00", got[1].TimeSlot)
	assert.Equal(t, 3, got[1].AvailableSeats)
}

func TestIsBookable_FixedInstant(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	session := &domain.DemoSession{
		ID:              1,
		MaxParticipants: 1,
		Kind:            domain.KindFixedInstant,
		DateTime:        ptr.Ptr(now.Add(24 * time.Hour)),
		DurationMinutes: 60,
		Status:          domain.SessionScheduled,
	}

	assert.True(t, isBookable(session, nil, now))

	// Все места заняты
	full := []*domain.DemoBooking{{StudentID: 1, Status: domain.StatusConfirmed}}
	assert.False(t, isBookable(session, full, now))

	// Момент проведения уже прошел
	session.DateTime = ptr.Ptr(now.Add(-time.Hour))
	assert.False(t, isBookable(session, nil, now))
}

func TestIsBookable_MultiSlot(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	pastDate := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	futureDate := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	label := "10:00-11:00"

	session := multiSlotSession(1, []time.Time{pastDate, futureDate}, []string{label})

	// Будущая дата со свободным местом
	assert.True(t, isBookable(session, nil, now))

	// Будущий слот занят, прошедший не считается
	bookings := []*domain.DemoBooking{confirmedBooking(1, futureDate, label)}
	assert.False(t, isBookable(session, bookings, now))

	// Не scheduled-сессии не бронируются
	session.Status = domain.SessionCancelled
	assert.False(t, isBookable(session, nil, now))
}
