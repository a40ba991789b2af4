package profileservice

import "errors"

var (
	// ErrProfileNotFound возвращается, когда профиль не найден
	ErrProfileNotFound = errors.New("profileservice: profile not found")

	// ErrInvalidResponse возвращается при некорректном ответе ProfileService
	ErrInvalidResponse = errors.New("profileservice: invalid response")

	// ErrServiceDegraded возвращается при недоступности ProfileService,
	// когда вызывающая сторона может продолжить без данных профиля
	ErrServiceDegraded = errors.New("profileservice: service degraded")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice: internal error")
)
