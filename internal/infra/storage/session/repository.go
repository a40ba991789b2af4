package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CIM-DemoBookingService/internal/domain"
	"github.com/m04kA/CIM-DemoBookingService/pkg/dbmetrics"
	"github.com/m04kA/CIM-DemoBookingService/pkg/psqlbuilder"
)

const table = "demo_sessions"

var columns = []string{
	"id",
	"profile_id",
	"course_id",
	"title",
	"description",
	"mode",
	"instructor",
	"subjects",
	"max_participants",
	"kind",
	"date_time",
	"duration_minutes",
	"available_dates",
	"time_slots",
	"demo_days",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с демо-сессиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория демо-сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую демо-сессию
func (r *Repository) Create(ctx context.Context, s *domain.DemoSession) (*domain.DemoSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"profile_id",
			"course_id",
			"title",
			"description",
			"mode",
			"instructor",
			"subjects",
			"max_participants",
			"kind",
			"date_time",
			"duration_minutes",
			"available_dates",
			"time_slots",
			"demo_days",
			"status",
		).
		Values(
			s.ProfileID,
			s.CourseID,
			s.Title,
			s.Description,
			s.Mode,
			s.Instructor,
			pq.Array(s.Subjects),
			s.MaxParticipants,
			s.Kind,
			s.DateTime,
			s.DurationMinutes,
			pq.Array(s.AvailableDates),
			pq.Array(s.TimeSlots),
			s.DemoDays,
			s.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isConnError(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает демо-сессию по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы админ-операции
// не конкурировали с проверкой вместимости при бронировании
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.DemoSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		if isConnError(err) {
			return nil, fmt.Errorf("%w: GetByID: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// List получает демо-сессии с фильтрацией
// Поддерживает фильтры по режиму, курсу, статусу, владельцам и текстовому поиску
// по названию и имени преподавателя
func (r *Repository) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.DemoSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table)

	if filter.Mode != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"mode": *filter.Mode})
	}
	if filter.CourseID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"course_id": *filter.CourseID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ProfileIDs != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"profile_id": filter.ProfileIDs})
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"instructor": pattern},
		})
	}

	// Ближайшие по времени сессии первыми; multi-slot сессии без date_time - в конце
	selectBuilder = selectBuilder.OrderBy("date_time ASC NULLS LAST, id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return nil, fmt.Errorf("%w: List: %v", ErrStorageUnavailable, err)
		}
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.DemoSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// Update перезаписывает изменяемые поля демо-сессии
func (r *Repository) Update(ctx context.Context, s *domain.DemoSession) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("title", s.Title).
		Set("description", s.Description).
		Set("mode", s.Mode).
		Set("instructor", s.Instructor).
		Set("subjects", pq.Array(s.Subjects)).
		Set("max_participants", s.MaxParticipants).
		Set("date_time", s.DateTime).
		Set("duration_minutes", s.DurationMinutes).
		Set("available_dates", pq.Array(s.AvailableDates)).
		Set("time_slots", pq.Array(s.TimeSlots)).
		Set("demo_days", s.DemoDays).
		Set("status", s.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: Update: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// UpdateStatus обновляет статус демо-сессии
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: UpdateStatus: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Delete физически удаляет демо-сессию
// Сервисный слой обязан убедиться, что по сессии нет активных бронирований
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: Delete: %v", ErrStorageUnavailable, err)
		}
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSession читает одну строку demo_sessions
func scanSession(row rowScanner) (*domain.DemoSession, error) {
	var s domain.DemoSession
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ProfileID,
		&s.CourseID,
		&s.Title,
		&s.Description,
		&s.Mode,
		&s.Instructor,
		pq.Array(&s.Subjects),
		&s.MaxParticipants,
		&s.Kind,
		&s.DateTime,
		&s.DurationMinutes,
		pq.Array(&s.AvailableDates),
		pq.Array(&s.TimeSlots),
		&s.DemoDays,
		&s.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
