package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда демо-сессия не найдена
	ErrSessionNotFound = errors.New("session not found")

	// ErrProfileNotFound возвращается, когда профиль владельца не найден
	ErrProfileNotFound = errors.New("profile not found")

	// ErrAccessDenied возвращается, когда пользователь не управляет профилем сессии
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrNotEditable возвращается при попытке изменить завершённую или отменённую сессию
	ErrNotEditable = errors.New("session can no longer be edited")

	// ErrCapacityConflict возвращается, когда уменьшение вместимости опустило бы
	// потолок ниже уже подтверждённых бронирований на каком-либо слоте
	ErrCapacityConflict = errors.New("capacity below confirmed bookings")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса сессии
	ErrInvalidTransition = errors.New("invalid session status transition")

	// ErrHasActiveBookings возвращается при попытке удалить сессию
	// с подтверждёнными будущими бронированиями
	ErrHasActiveBookings = errors.New("session has active future bookings")

	// ErrUnavailable возвращается при транзиентной недоступности хранилища
	ErrUnavailable = errors.New("service: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
