package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/pkg/dbmetrics"
	"github.com/m04kA/CIM-DemoBookingService/pkg/psqlbuilder"
)

const table = "demo_bookings"

var columns = []string{
	"id",
	"session_id",
	"student_id",
	"student_name",
	"student_email",
	"selected_date",
	"selected_time",
	"status",
	"attended",
	"feedback",
	"rating",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями демо-сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Дубликаты (тот же студент, та же сессия, тот же слот, статус confirmed)
// отсекаются частичным уникальным индексом на уровне БД и превращаются
// в ErrDuplicateBooking - проверка check-then-insert на уровне приложения
// недостаточна при конкурентных вызовах
func (r *Repository) Create(ctx context.Context, b *domain.DemoBooking) (*domain.DemoBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"session_id",
			"student_id",
			"student_name",
			"student_email",
			"selected_date",
			"selected_time",
			"status",
			"attended",
		).
		Values(
			b.SessionID,
			b.StudentID,
			b.StudentName,
			b.StudentEmail,
			b.SelectedDate,
			b.SelectedTime,
			b.Status,
			b.Attended,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		if isConnError(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.DemoBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		if isConnError(err) {
			return nil, fmt.Errorf("%w: GetByID: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetBySessionWithFilter получает бронирования сессии с фильтрацией по слоту и статусу
//
// Внутри транзакции при запросе конкретного слота строки блокируются (FOR UPDATE) -
// это сериализует admission check при создании бронирования относительно
// конкурентных reserve-вызовов на тот же слот
func (r *Repository) GetBySessionWithFilter(ctx context.Context, filter domain.SessionBookingsFilter) ([]*domain.DemoBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"session_id": filter.SessionID})

	// squirrel.Eq с nil-значением корректно генерирует IS NULL,
	// поэтому фильтр по слоту работает и для fixed-instant бронирований
	if filter.SelectedDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"selected_date": *filter.SelectedDate})
	}
	if filter.SelectedTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"selected_time": *filter.SelectedTime})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		terminal := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminal[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminal})
	}

	selectBuilder = selectBuilder.OrderBy("selected_date ASC NULLS FIRST, selected_time ASC NULLS FIRST, created_at ASC")

	if dbmetrics.IsInTransaction(ctx) && (filter.SelectedDate != nil || filter.SelectedTime != nil) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySessionWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return nil, fmt.Errorf("%w: GetBySessionWithFilter: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: GetBySessionWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByStudentID получает историю бронирований студента
// Опционально фильтрует по статусу
func (r *Repository) GetByStudentID(ctx context.Context, studentID int64, status *domain.BookingStatus) ([]*domain.DemoBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStudentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return nil, fmt.Errorf("%w: GetByStudentID: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: GetByStudentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// MaxConfirmedPerSlot возвращает максимальное число confirmed-бронирований
// среди всех слотов сессии
// Используется при уменьшении вместимости: новое значение не может быть ниже
// уже занятых мест ни на одном слоте
func (r *Repository) MaxConfirmedPerSlot(ctx context.Context, sessionID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*) AS cnt").
		From(table).
		Where(squirrel.Eq{"session_id": sessionID, "status": domain.StatusConfirmed}).
		GroupBy("selected_date", "selected_time").
		OrderBy("cnt DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxConfirmedPerSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		if isConnError(err) {
			return 0, fmt.Errorf("%w: MaxConfirmedPerSlot: %v", ErrStorageUnavailable, err)
		}
		return 0, fmt.Errorf("%w: MaxConfirmedPerSlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveFuture возвращает число confirmed-бронирований сессии на будущие слоты
// Для fixed-instant сессий (selected_date IS NULL) учитываются все confirmed-строки,
// принадлежность прошлому определяет сервисный слой по dateTime сессии
func (r *Repository) CountActiveFuture(ctx context.Context, sessionID int64, today string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"session_id": sessionID, "status": domain.StatusConfirmed}).
		Where(squirrel.Or{
			squirrel.Eq{"selected_date": nil},
			squirrel.GtOrEq{"selected_date": today},
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveFuture - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if isConnError(err) {
			return 0, fmt.Errorf("%w: CountActiveFuture: %v", ErrStorageUnavailable, err)
		}
		return 0, fmt.Errorf("%w: CountActiveFuture - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: Cancel: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CancelBySession каскадно отменяет все confirmed-бронирования сессии
// Используется при отмене сессии владельцем, чтобы не осиротить бронирования
// Возвращает число отменённых строк
func (r *Repository) CancelBySession(ctx context.Context, sessionID int64, reason string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"session_id": sessionID, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CancelBySession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return 0, fmt.Errorf("%w: CancelBySession: %v", ErrStorageUnavailable, err)
		}
		return 0, fmt.Errorf("%w: CancelBySession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBySession - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// SetOutcome переводит бронирование в терминальный исход (completed / no_show)
// Обновление условное по текущему статусу, чтобы конкурентные переходы
// не перезаписывали уже терминальное состояние
func (r *Repository) SetOutcome(ctx context.Context, id int64, outcome domain.BookingStatus, attended bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", outcome).
		Set("attended", attended).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOutcome - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: SetOutcome: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: SetOutcome - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetOutcome - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// AttachFeedback сохраняет отзыв и оценку по завершённому бронированию
func (r *Repository) AttachFeedback(ctx context.Context, id int64, feedback *string, rating *int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("feedback", feedback).
		Set("rating", rating).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachFeedback - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: AttachFeedback: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: AttachFeedback - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachFeedback - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking читает одну строку demo_bookings
func scanBooking(row rowScanner) (*domain.DemoBooking, error) {
	var b domain.DemoBooking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.SessionID,
		&b.StudentID,
		&b.StudentName,
		&b.StudentEmail,
		&b.SelectedDate,
		&b.SelectedTime,
		&b.Status,
		&b.Attended,
		&b.Feedback,
		&b.Rating,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.DemoBooking, error) {
	bookings := make([]*domain.DemoBooking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
