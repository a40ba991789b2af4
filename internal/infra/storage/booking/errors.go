package booking

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
)

// pgUniqueViolation код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("demo booking not found")

	// ErrDuplicateBooking возвращается при нарушении уникального индекса
	// (студент уже держит confirmed-бронирование на этот слот)
	ErrDuplicateBooking = errors.New("duplicate booking for this slot")

	// ErrBuildQuery возвращается при ошибке сборки SQL-запроса
	ErrBuildQuery = errors.New("failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL-запроса
	ErrExecQuery = errors.New("failed to execute query")

	// ErrScanRow возвращается при ошибке чтения строки результата
	ErrScanRow = errors.New("failed to scan row")

	// ErrStorageUnavailable возвращается при транзиентных ошибках соединения с БД
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// isUniqueViolation проверяет, что ошибка вызвана нарушением уникального индекса
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

// isConnError проверяет, что ошибка вызвана недоступностью БД, а не самим запросом
func isConnError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
