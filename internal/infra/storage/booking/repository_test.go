package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/ptr"
)

func newRepoMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func bookingRows(bookings ...*domain.Booking) *sqlmock.Rows {
	rows := sqlmock.NewRows(bookingColumns)
	for _, b := range bookings {
		rows.AddRow(
			b.ID, b.TutorID, b.StudentID, b.SubjectID,
			string(b.Mode), nil, b.Address,
			b.StartAt, b.EndAt, string(b.Status),
			b.TutorName, b.SubjectName,
			b.CancellationReason, b.CancelledAt,
			b.CreatedAt, b.UpdatedAt,
		)
	}
	return rows
}

func sampleBooking() *domain.Booking {
	start := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:          1,
		TutorID:     10,
		StudentID:   20,
		SubjectID:   30,
		Mode:        domain.ModeOnline,
		Address:     ptr.Ptr("https://meet.example.com/abc"),
		StartAt:     start,
		EndAt:       start.Add(30 * time.Minute),
		Status:      domain.StatusConfirmed,
		TutorName:   "Анна Ковальская",
		SubjectName: "Математика",
		CreatedAt:   start.Add(-time.Hour),
		UpdatedAt:   start.Add(-time.Hour),
	}
}

func TestCreate(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	b := sampleBooking()
	b.ID = 0
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO bookings (tutor_id,student_id,subject_id,mode,location,address,start_at,end_at,status,tutor_name,subject_name) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id, created_at, updated_at")).
		WithArgs(b.TutorID, b.StudentID, b.SubjectID, string(b.Mode), nil, *b.Address,
			b.StartAt, b.EndAt, string(b.Status), b.TutorName, b.SubjectName).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	created, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ExclusionViolation(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	b := sampleBooking()
	b.ID = 0

	// Два CONFIRMED бронирования с пересекающимся интервалом нарушают
	// exclusion constraint в базе
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})

	_, err := repo.Create(context.Background(), b)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM bookings").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByTutorWithFilter_IntersectAndStatus(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	b := sampleBooking()
	from := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	to := from.Add(30 * time.Minute)

	// Полуоткрытый интервал: start_at < to AND end_at > from
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, tutor_id, student_id, subject_id, mode, location, address, start_at, end_at, status, "+
			"tutor_name, subject_name, cancellation_reason, cancelled_at, created_at, updated_at "+
			"FROM bookings WHERE tutor_id = $1 AND start_at < $2 AND end_at > $3 AND status = $4 ORDER BY start_at ASC")).
		WithArgs(int64(10), to, from, string(domain.StatusConfirmed)).
		WillReturnRows(bookingRows(b))

	result, err := repo.GetByTutorWithFilter(context.Background(), domain.TutorBookingsFilter{
		TutorID:       10,
		IntersectFrom: &from,
		IntersectTo:   &to,
		Status:        ptr.Ptr(domain.StatusConfirmed),
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, b.ID, result[0].ID)
	assert.Equal(t, domain.ModeOnline, result[0].Mode)
	assert.Nil(t, result[0].Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByTutorWithFilter_ForUpdateOutsideTransaction(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	// Без активной транзакции FOR UPDATE не добавляется
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM bookings WHERE tutor_id = $1 ORDER BY start_at ASC")).
		WithArgs(int64(10)).
		WillReturnRows(bookingRows())

	result, err := repo.GetByTutorWithFilter(context.Background(), domain.TutorBookingsFilter{
		TutorID:   10,
		ForUpdate: true,
	})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	reason := "болезнь"
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW() "+
			"WHERE id IN ($3) AND status = $4")).
		WithArgs(string(domain.StatusCancelled), reason, int64(1), string(domain.StatusConfirmed)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 1, &reason)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	// UPDATE фильтрует по status = CONFIRMED: нулевое число строк означает,
	// что бронирование отсутствует или уже отменено
	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelByIDs_PartialUpdateFails(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CancelByIDs(context.Background(), []int64{1, 2}, nil)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelByIDs_EmptyList(t *testing.T) {
	repo, mock, cleanup := newRepoMock(t)
	defer cleanup()

	require.NoError(t, repo.CancelByIDs(context.Background(), nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
