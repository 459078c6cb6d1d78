package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/dbmetrics"
	"github.com/m04kA/TMP-LessonService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL exclusion_violation
const pgExclusionViolation = "23P01"

var bookingColumns = []string{
	"id",
	"tutor_id",
	"student_id",
	"subject_id",
	"mode",
	"location",
	"address",
	"start_at",
	"end_at",
	"status",
	"tutor_name",
	"subject_name",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
// Нарушение exclusion constraint по пересечению интервалов
// возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tutor_id",
			"student_id",
			"subject_id",
			"mode",
			"location",
			"address",
			"start_at",
			"end_at",
			"status",
			"tutor_name",
			"subject_name",
		).
		Values(
			booking.TutorID,
			booking.StudentID,
			booking.SubjectID,
			booking.Mode,
			booking.Location,
			booking.Address,
			booking.StartAt,
			booking.EndAt,
			booking.Status,
			booking.TutorName,
			booking.SubjectName,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgExclusionViolation {
			return nil, fmt.Errorf("%w: %v", ErrSlotConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByIDs получает бронирования по списку ID.
// forUpdate=true блокирует строки (использовать только внутри транзакции).
// Отсутствующие ID не являются ошибкой: вызывающая сторона сверяет длину результата.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64, forUpdate bool) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("start_at ASC")

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByStudentID получает бронирования студента в хронологическом порядке
func (r *Repository) GetByStudentID(ctx context.Context, studentID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStudentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStudentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByTutorWithFilter получает бронирования тутора с фильтрацией.
//
// Фильтр пересечения (IntersectFrom/IntersectTo) использует полуоткрытые
// интервалы: start_at < to AND end_at > from — граничащие интервалы
// пересечением не считаются.
//
// ForUpdate=true добавляет блокировку строк и применяется только внутри
// транзакции (проверка конфликта при создании бронирования, каскадная отмена).
func (r *Repository) GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tutor_id": filter.TutorID}).
		OrderBy("start_at ASC")

	if filter.IntersectFrom != nil && filter.IntersectTo != nil {
		selectBuilder = selectBuilder.
			Where(squirrel.Lt{"start_at": *filter.IntersectTo}).
			Where(squirrel.Gt{"end_at": *filter.IntersectFrom})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTutorWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Cancel отменяет одно бронирование (CONFIRMED -> CANCELLED)
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	return r.cancelByIDs(ctx, []int64{id}, reason, 1)
}

// CancelByIDs отменяет несколько бронирований одним запросом.
// Проверяет, что обновлено ровно len(ids) строк: несоответствие означает,
// что часть бронирований исчезла или уже отменена, и транзакцию нужно откатить.
func (r *Repository) CancelByIDs(ctx context.Context, ids []int64, reason *string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.cancelByIDs(ctx, ids, reason, int64(len(ids)))
}

func (r *Repository) cancelByIDs(ctx context.Context, ids []int64, reason *string, expected int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: cancelByIDs - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: cancelByIDs - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: cancelByIDs - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected != expected {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var location sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TutorID,
		&booking.StudentID,
		&booking.SubjectID,
		&booking.Mode,
		&location,
		&booking.Address,
		&booking.StartAt,
		&booking.EndAt,
		&booking.Status,
		&booking.TutorName,
		&booking.SubjectName,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if location.Valid {
		loc := domain.Location(location.String)
		booking.Location = &loc
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
