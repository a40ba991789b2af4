package reserve_booking

import "errors"

var (
	// ErrSessionNotFound возвращается, когда демо-сессия не найдена
	ErrSessionNotFound = errors.New("reserve_booking: session not found")

	// ErrNotBookable возвращается, когда сессия не в бронируемом состоянии
	// (отменена, завершена, слот в прошлом)
	ErrNotBookable = errors.New("reserve_booking: session is not bookable")

	// ErrInvalidSlot возвращается, когда запрошенный слот не входит в расписание сессии
	ErrInvalidSlot = errors.New("reserve_booking: slot is not in the session schedule")

	// ErrCapacityExceeded возвращается, когда на слоте не осталось мест
	ErrCapacityExceeded = errors.New("reserve_booking: slot capacity exceeded")

	// ErrDuplicateBooking возвращается, когда студент уже держит
	// confirmed-бронирование на этот слот
	ErrDuplicateBooking = errors.New("reserve_booking: duplicate booking for this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_booking: invalid input data")

	// ErrUnavailable возвращается при транзиентной недоступности хранилища
	ErrUnavailable = errors.New("reserve_booking: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_booking: internal error")
)
