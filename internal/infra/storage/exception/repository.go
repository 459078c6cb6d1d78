package exception

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/dbmetrics"
	"github.com/m04kA/TMP-LessonService/pkg/psqlbuilder"
)

var exceptionColumns = []string{
	"id",
	"tutor_id",
	"start_at",
	"end_at",
	"reason",
	"created_at",
}

// Repository репозиторий для работы с разовыми недоступностями тутора
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория недоступностей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает недоступность.
// Вызывается внутри транзакции каскадной отмены (см. service/calendar).
func (r *Repository) Create(ctx context.Context, e *domain.UnavailabilityException) (*domain.UnavailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("tutor_unavailability").
		Columns("tutor_id", "start_at", "end_at", "reason").
		Values(e.TutorID, e.StartAt, e.EndAt, e.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	e.CreatedAt = createdAt.Time

	return e, nil
}

// GetByID получает недоступность по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.UnavailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("tutor_unavailability").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.UnavailabilityException
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.TutorID, &e.StartAt, &e.EndAt, &e.Reason, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan unavailability: %v", ErrScanRow, err)
	}

	e.CreatedAt = createdAt.Time

	return &e, nil
}

// GetByTutorID получает все недоступности тутора в хронологическом порядке
func (r *Repository) GetByTutorID(ctx context.Context, tutorID int64) ([]*domain.UnavailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("tutor_unavailability").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanExceptions(rows)
}

// GetByTutorIntersecting получает недоступности тутора, пересекающие [from, to).
// Полуоткрытые интервалы: start_at < to AND end_at > from.
func (r *Repository) GetByTutorIntersecting(ctx context.Context, tutorID int64, from, to time.Time) ([]*domain.UnavailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("tutor_unavailability").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorIntersecting - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorIntersecting - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanExceptions(rows)
}

// Delete удаляет недоступность.
// Отменённые каскадом бронирования при этом не восстанавливаются.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("tutor_unavailability").
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
		return ErrExceptionNotFound
	}

	return nil
}

func (r *Repository) scanExceptions(rows *sql.Rows) ([]*domain.UnavailabilityException, error) {
	result := make([]*domain.UnavailabilityException, 0)

	for rows.Next() {
		var e domain.UnavailabilityException
		var createdAt sql.NullTime

		err := rows.Scan(&e.ID, &e.TutorID, &e.StartAt, &e.EndAt, &e.Reason, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - scan row: %v", ErrScanRow, err)
		}

		e.CreatedAt = createdAt.Time

		result = append(result, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanExceptions - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
