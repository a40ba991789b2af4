package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSessionNotFound возвращается, когда демо-сессия бронирования не найдена
	ErrSessionNotFound = errors.New("session not found")

	// ErrAccessDenied возвращается, когда пользователь не имеет доступа к бронированию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrCannotCancel возвращается при попытке отменить бронирование
	// в терминальном статусе или на уже прошедший слот
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса бронирования
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrSlotNotPassed возвращается при попытке проставить исход
	// до того, как слот бронирования прошел
	ErrSlotNotPassed = errors.New("slot has not passed yet")

	// ErrFeedbackNotAllowed возвращается при попытке оставить отзыв
	// на незавершенное бронирование
	ErrFeedbackNotAllowed = errors.New("feedback allowed only on completed bookings")

	// ErrUnavailable возвращается при транзиентной недоступности хранилища
	ErrUnavailable = errors.New("service: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
