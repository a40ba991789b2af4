package list_bookable_sessions

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах фильтрации
	ErrInvalidInput = errors.New("list_bookable_sessions: invalid input data")

	// ErrUnavailable возвращается при недоступности хранилища
	ErrUnavailable = errors.New("list_bookable_sessions: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("list_bookable_sessions: internal error")
)
