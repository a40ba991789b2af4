package get_available_slots

import (
	"time"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
)

// Чистые функции расчёта доступности. Не мутируют состояние: остаток мест
// всегда выводится заново из строк бронирований (никаких денормализованных
// счётчиков, которые могли бы разъехаться с фактом).

// countConfirmedForSlot подсчитывает confirmed-бронирования на конкретный слот
// Для fixed-instant сессий date и label равны nil, и учитываются все строки без слота
func countConfirmedForSlot(bookings []*domain.DemoBooking, date *time.Time, label *string) int {
	count := 0

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if !slotMatches(b, date, label) {
			continue
		}
		count++
	}

	return count
}

// slotMatches проверяет, что бронирование претендует на указанный слот
func slotMatches(b *domain.DemoBooking, date *time.Time, label *string) bool {
	if date == nil && label == nil {
		return b.SelectedDate == nil && b.SelectedTime == nil
	}

	if date != nil {
		if b.SelectedDate == nil || !sameDay(*b.SelectedDate, *date) {
			return false
		}
	}
	if label != nil {
		if b.SelectedTime == nil || *b.SelectedTime != *label {
			return false
		}
	}

	return true
}

// remainingSeats возвращает остаток мест на слоте
// Никогда не возвращает отрицательное значение, даже если бронирований
// оказалось больше вместимости (логические гонки, уменьшение capacity)
func remainingSeats(session *domain.DemoSession, bookings []*domain.DemoBooking, date *time.Time, label *string) int {
	taken := countConfirmedForSlot(bookings, date, label)

	remaining := session.MaxParticipants - taken
	if remaining < 0 {
		return 0
	}

	return remaining
}

// availableTimeSlotsForDate возвращает метки слотов сессии, на которых
// остались места в указанную дату
// Порядок меток сохраняется как объявлен в сессии (не сортируется)
func availableTimeSlotsForDate(session *domain.DemoSession, bookings []*domain.DemoBooking, date time.Time) []string {
	labels := make([]string, 0, len(session.TimeSlots))

	for _, slot := range slotAvailabilities(session, bookings, date) {
		if slot.IsFull() {
			continue
		}
		labels = append(labels, slot.TimeSlot)
	}

	return labels
}

// slotAvailabilities строит снимок доступности всех слотов сессии в указанную дату
func slotAvailabilities(session *domain.DemoSession, bookings []*domain.DemoBooking, date time.Time) []domain.SlotAvailability {
	result := make([]domain.SlotAvailability, len(session.TimeSlots))

	for i, label := range session.TimeSlots {
		label := label
		result[i] = domain.SlotAvailability{
			Date:           date,
			TimeSlot:       label,
			AvailableSeats: remainingSeats(session, bookings, &date, &label),
			TotalSeats:     session.MaxParticipants,
		}
	}

	return result
}

// isBookable проверяет, можно ли в принципе бронировать сессию:
// статус scheduled, слот не в прошлом и хотя бы где-то остались места
func isBookable(session *domain.DemoSession, bookings []*domain.DemoBooking, now time.Time) bool {
	if session.Status != domain.SessionScheduled {
		return false
	}

	if session.Kind == domain.KindFixedInstant {
		if session.DateTime == nil || !session.DateTime.After(now) {
			return false
		}
		return remainingSeats(session, bookings, nil, nil) > 0
	}

	for _, date := range session.AvailableDates {
		date := date
		for _, label := range session.TimeSlots {
			label := label
			if session.SlotPassed(&date, &label, now) {
				continue
			}
			if remainingSeats(session, bookings, &date, &label) > 0 {
				return true
			}
		}
	}

	return false
}

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
