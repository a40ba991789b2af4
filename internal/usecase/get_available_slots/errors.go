package get_available_slots

import "errors"

var (
	// ErrSessionNotFound возвращается, когда демо-сессия не найдена
	ErrSessionNotFound = errors.New("get_available_slots: session not found")

	// ErrDateRequired возвращается, когда для multi-slot сессии не указана дата
	ErrDateRequired = errors.New("get_available_slots: date is required for multi-slot sessions")

	// ErrDateNotAvailable возвращается, когда дата не входит в расписание сессии
	ErrDateNotAvailable = errors.New("get_available_slots: date is not available for this session")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrUnavailable возвращается при недоступности хранилища
	ErrUnavailable = errors.New("get_available_slots: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
