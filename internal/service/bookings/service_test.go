package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	bookingRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/booking"
	"github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
	"github.com/m04kA/TMP-LessonService/internal/service/bookings/models"
	"github.com/m04kA/TMP-LessonService/pkg/ptr"
)

type fakeBookingRepo struct {
	byID       map[int64]*domain.Booking
	cancelled  []int64
	cancelErr  error
	getByIDErr error
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	byID := make(map[int64]*domain.Booking, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
	}
	return &fakeBookingRepo{byID: byID}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	b, ok := f.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByIDs(_ context.Context, ids []int64, _ bool) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0, len(ids))
	for _, id := range ids {
		if b, ok := f.byID[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByStudentID(_ context.Context, studentID int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.byID {
		if b.StudentID == studentID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByTutorWithFilter(_ context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.byID {
		if b.TutorID == filter.TutorID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, _ *string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeBookingRepo) CancelByIDs(_ context.Context, ids []int64, _ *string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, ids...)
	return nil
}

type fakeProfileClient struct {
	tutor      *profileservice.Tutor
	tutorErr   error
	student    *profileservice.Student
	studentErr error
}

func (f *fakeProfileClient) GetTutorByUser(_ context.Context, _ int64) (*profileservice.Tutor, error) {
	return f.tutor, f.tutorErr
}

func (f *fakeProfileClient) GetStudentByUser(_ context.Context, _ int64) (*profileservice.Student, error) {
	return f.student, f.studentErr
}

type fakeNotifyClient struct {
	events []*notifyservice.BookingsCancelledEvent
}

func (f *fakeNotifyClient) NotifyBookingsCancelled(_ context.Context, event *notifyservice.BookingsCancelledEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var lessonStart = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

func confirmedBooking(id, tutorID, studentID int64) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		TutorID:   tutorID,
		StudentID: studentID,
		SubjectID: 3,
		Mode:      domain.ModeOnline,
		StartAt:   lessonStart,
		EndAt:     lessonStart.Add(30 * time.Minute),
		Status:    domain.StatusConfirmed,
	}
}

func newTestService(repo *fakeBookingRepo, profile *fakeProfileClient, notify *fakeNotifyClient) *Service {
	return NewService(repo, profile, notify, fakeTxManager{}, nopLogger{})
}

func studentProfile() *fakeProfileClient {
	return &fakeProfileClient{
		student: &profileservice.Student{ID: 20, UserID: 1, Name: "Пётр Новак"},
		tutor:   &profileservice.Tutor{ID: 10, UserID: 2, Name: "Анна Ковальская"},
	}
}

func TestGetMyBookings_Student(t *testing.T) {
	repo := newFakeBookingRepo(
		confirmedBooking(1, 10, 20),
		confirmedBooking(2, 10, 99),
	)
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	resp, err := svc.GetMyBookings(context.Background(), &models.GetMyBookingsRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
}

func TestGetMyBookings_Tutor(t *testing.T) {
	repo := newFakeBookingRepo(
		confirmedBooking(1, 10, 20),
		confirmedBooking(2, 10, 21),
	)
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	resp, err := svc.GetMyBookings(context.Background(), &models.GetMyBookingsRequest{
		UserID: 2,
		Role:   domain.RoleTutor,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestGetMyBookings_NoProfile(t *testing.T) {
	profile := studentProfile()
	profile.student = nil
	profile.studentErr = profileservice.ErrStudentNotFound

	svc := newTestService(newFakeBookingRepo(), profile, &fakeNotifyClient{})

	_, err := svc.GetMyBookings(context.Background(), &models.GetMyBookingsRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCancel_StudentOwnBooking(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1, 10, 20))
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, studentProfile(), notify)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.cancelled)

	// Отмена студентом не рассылает уведомления
	assert.Empty(t, notify.events)
}

func TestCancel_TutorNotifiesStudent(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1, 10, 20))
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, studentProfile(), notify)

	reason := "болезнь"
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: 2,
		Role:   domain.RoleTutor,
		Reason: &reason,
	})
	require.NoError(t, err)

	require.Len(t, notify.events, 1)
	require.Len(t, notify.events[0].Bookings, 1)
	assert.Equal(t, int64(20), notify.events[0].Bookings[0].StudentID)
}

func TestCancel_ForeignBookingForbidden(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1, 10, 99))
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	booking := confirmedBooking(1, 10, 20)
	booking.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(booking)
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), studentProfile(), &fakeNotifyClient{})

	err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(confirmedBooking(1, 10, 20)), studentProfile(), &fakeNotifyClient{})

	long := make([]byte, domain.MaxReasonLength+1)
	for i := range long {
		long[i] = 'a'
	}

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: 1,
		Role:   domain.RoleStudent,
		Reason: ptr.Ptr(string(long)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelMany_AtomicSuccess(t *testing.T) {
	repo := newFakeBookingRepo(
		confirmedBooking(1, 10, 20),
		confirmedBooking(2, 10, 21),
	)
	notify := &fakeNotifyClient{}
	svc := newTestService(repo, studentProfile(), notify)

	err := svc.CancelMany(context.Background(), &models.CancelManyBookingsRequest{
		UserID:     2,
		Role:       domain.RoleTutor,
		BookingIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, repo.cancelled)

	require.Len(t, notify.events, 1)
	assert.Len(t, notify.events[0].Bookings, 2)
}

func TestCancelMany_MissingBookingFailsWholeBatch(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(1, 10, 20))
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	err := svc.CancelMany(context.Background(), &models.CancelManyBookingsRequest{
		UserID:     2,
		Role:       domain.RoleTutor,
		BookingIDs: []int64{1, 42},
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, repo.cancelled)
}

func TestCancelMany_ForeignBookingFailsWholeBatch(t *testing.T) {
	repo := newFakeBookingRepo(
		confirmedBooking(1, 10, 20),
		confirmedBooking(2, 77, 20), // чужой тутор
	)
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	err := svc.CancelMany(context.Background(), &models.CancelManyBookingsRequest{
		UserID:     2,
		Role:       domain.RoleTutor,
		BookingIDs: []int64{1, 2},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestCancelMany_CancelledBookingFailsWholeBatch(t *testing.T) {
	cancelled := confirmedBooking(2, 10, 21)
	cancelled.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(confirmedBooking(1, 10, 20), cancelled)
	svc := newTestService(repo, studentProfile(), &fakeNotifyClient{})

	err := svc.CancelMany(context.Background(), &models.CancelManyBookingsRequest{
		UserID:     2,
		Role:       domain.RoleTutor,
		BookingIDs: []int64{1, 2},
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, repo.cancelled)
}

func TestCancelMany_InvalidInput(t *testing.T) {
	svc := newTestService(newFakeBookingRepo(), studentProfile(), &fakeNotifyClient{})

	err := svc.CancelMany(context.Background(), &models.CancelManyBookingsRequest{
		UserID:     2,
		Role:       domain.RoleTutor,
		BookingIDs: nil,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.CancelMany(context.Background(), &models.CancelManyBookingsRequest{
		UserID:     2,
		Role:       domain.RoleTutor,
		BookingIDs: []int64{0},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
