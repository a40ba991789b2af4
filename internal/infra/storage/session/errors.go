package session

import (
	"database/sql/driver"
	"errors"
	"net"
)

var (
	// ErrSessionNotFound возвращается, когда демо-сессия не найдена
	ErrSessionNotFound = errors.New("demo session not found")

	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("failed to execute query")

	// ErrScanRow возвращается при ошибке чтения строки результата
	ErrScanRow = errors.New("failed to scan row")

	// ErrStorageUnavailable возвращается при транзиентных ошибках соединения с БД
	// Вызывающая сторона может повторить запрос с backoff
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// isConnError проверяет, что ошибка вызвана недоступностью БД, а не самим запросом
func isConnError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
