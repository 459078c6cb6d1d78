package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/dbmetrics"
	"github.com/m04kA/TMP-LessonService/pkg/psqlbuilder"
)

var availabilityColumns = []string{
	"id",
	"tutor_id",
	"day_of_week",
	"start_time",
	"end_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с еженедельными окнами доступности
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступностей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает окно доступности
func (r *Repository) Create(ctx context.Context, a *domain.RecurringAvailability) (*domain.RecurringAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tutor_availability").
		Columns("tutor_id", "day_of_week", "start_time", "end_time").
		Values(a.TutorID, a.DayOfWeek, a.StartTime, a.EndTime).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает окно доступности по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RecurringAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From("tutor_availability").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.RecurringAvailability
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.TutorID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan availability: %v", ErrScanRow, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// GetByTutorID получает все окна доступности тутора,
// упорядоченные по дню недели и времени начала
func (r *Repository) GetByTutorID(ctx context.Context, tutorID int64) ([]*domain.RecurringAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From("tutor_availability").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAvailabilities(rows)
}

// GetByTutorAndWeekday получает окна доступности тутора на день недели
func (r *Repository) GetByTutorAndWeekday(ctx context.Context, tutorID int64, dayOfWeek int) ([]*domain.RecurringAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From("tutor_availability").
		Where(squirrel.Eq{"tutor_id": tutorID, "day_of_week": dayOfWeek}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorAndWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAvailabilities(rows)
}

// Delete удаляет окно доступности
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("tutor_availability").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

func (r *Repository) scanAvailabilities(rows *sql.Rows) ([]*domain.RecurringAvailability, error) {
	result := make([]*domain.RecurringAvailability, 0)

	for rows.Next() {
		var a domain.RecurringAvailability
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(&a.ID, &a.TutorID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAvailabilities - scan row: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time

		result = append(result, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAvailabilities - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
