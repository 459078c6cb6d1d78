package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	availabilityRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/availability"
	exceptionRepo "github.com/m04kA/TMP-LessonService/internal/infra/storage/exception"
	"github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
	"github.com/m04kA/TMP-LessonService/pkg/types"
)

type fakeAvailabilityRepo struct {
	byID    map[int64]*domain.RecurringAvailability
	nextID  int64
	deleted []int64
}

func newFakeAvailabilityRepo(windows ...*domain.RecurringAvailability) *fakeAvailabilityRepo {
	byID := make(map[int64]*domain.RecurringAvailability, len(windows))
	var maxID int64
	for _, w := range windows {
		byID[w.ID] = w
		if w.ID > maxID {
			maxID = w.ID
		}
	}
	return &fakeAvailabilityRepo{byID: byID, nextID: maxID + 1}
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, a *domain.RecurringAvailability) (*domain.RecurringAvailability, error) {
	created := *a
	created.ID = f.nextID
	f.nextID++
	f.byID[created.ID] = &created
	return &created, nil
}

func (f *fakeAvailabilityRepo) GetByID(_ context.Context, id int64) (*domain.RecurringAvailability, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	return w, nil
}

func (f *fakeAvailabilityRepo) GetByTutorID(_ context.Context, tutorID int64) ([]*domain.RecurringAvailability, error) {
	result := make([]*domain.RecurringAvailability, 0)
	for _, w := range f.byID {
		if w.TutorID == tutorID {
			result = append(result, w)
		}
	}
	return result, nil
}

func (f *fakeAvailabilityRepo) GetByTutorAndWeekday(_ context.Context, tutorID int64, dayOfWeek int) ([]*domain.RecurringAvailability, error) {
	result := make([]*domain.RecurringAvailability, 0)
	for _, w := range f.byID {
		if w.TutorID == tutorID && w.DayOfWeek == dayOfWeek {
			result = append(result, w)
		}
	}
	return result, nil
}

func (f *fakeAvailabilityRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeExceptionRepo struct {
	byID   map[int64]*domain.UnavailabilityException
	nextID int64
}

func newFakeExceptionRepo(exceptions ...*domain.UnavailabilityException) *fakeExceptionRepo {
	byID := make(map[int64]*domain.UnavailabilityException, len(exceptions))
	var maxID int64
	for _, e := range exceptions {
		byID[e.ID] = e
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	return &fakeExceptionRepo{byID: byID, nextID: maxID + 1}
}

func (f *fakeExceptionRepo) Create(_ context.Context, e *domain.UnavailabilityException) (*domain.UnavailabilityException, error) {
	created := *e
	created.ID = f.nextID
	f.nextID++
	f.byID[created.ID] = &created
	return &created, nil
}

func (f *fakeExceptionRepo) GetByID(_ context.Context, id int64) (*domain.UnavailabilityException, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, exceptionRepo.ErrExceptionNotFound
	}
	return e, nil
}

func (f *fakeExceptionRepo) GetByTutorID(_ context.Context, tutorID int64) ([]*domain.UnavailabilityException, error) {
	result := make([]*domain.UnavailabilityException, 0)
	for _, e := range f.byID {
		if e.TutorID == tutorID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeExceptionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return exceptionRepo.ErrExceptionNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeBookingRepo struct {
	bookings  []*domain.Booking
	cancelled []int64
}

func (f *fakeBookingRepo) GetByTutorWithFilter(_ context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.TutorID != filter.TutorID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.IntersectFrom != nil && filter.IntersectTo != nil &&
			!b.Intersects(*filter.IntersectFrom, *filter.IntersectTo) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) CancelByIDs(_ context.Context, ids []int64, _ *string) error {
	f.cancelled = append(f.cancelled, ids...)
	return nil
}

type fakeProfileClient struct {
	tutor    *profileservice.Tutor
	tutorErr error
}

func (f *fakeProfileClient) GetTutorByUser(_ context.Context, _ int64) (*profileservice.Tutor, error) {
	return f.tutor, f.tutorErr
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

func tutorProfile() *fakeProfileClient {
	return &fakeProfileClient{
		tutor: &profileservice.Tutor{ID: 10, UserID: 2, Name: "Анна Ковальская"},
	}
}

func mondayWindow(id int64, start, end string) *domain.RecurringAvailability {
	return &domain.RecurringAvailability{
		ID:        id,
		TutorID:   10,
		DayOfWeek: 1,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func newTestService(
	availability *fakeAvailabilityRepo,
	exceptions *fakeExceptionRepo,
	bookings *fakeBookingRepo,
	profile *fakeProfileClient,
	notify *fakeNotifyClient,
) *Service {
	return NewService(availability, exceptions, bookings, profile, notify, fakeTxManager{}, nopLogger{})
}

func TestAddAvailability_Success(t *testing.T) {
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		&fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	resp, err := svc.AddAvailability(context.Background(), &models.AddAvailabilityRequest{
		UserID:    2,
		DayOfWeek: 1,
		StartTime: "16:00",
		EndTime:   "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.TutorID)
	assert.Equal(t, "16:00", resp.StartTime)
	assert.Equal(t, "18:00", resp.EndTime)
}

func TestAddAvailability_OverlapRejected(t *testing.T) {
	svc := newTestService(newFakeAvailabilityRepo(mondayWindow(1, "16:00", "18:00")),
		newFakeExceptionRepo(), &fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	_, err := svc.AddAvailability(context.Background(), &models.AddAvailabilityRequest{
		UserID:    2,
		DayOfWeek: 1,
		StartTime: "17:00",
		EndTime:   "19:00",
	})
	assert.ErrorIs(t, err, ErrWindowOverlap)
}

func TestAddAvailability_AdjacentWindowAllowed(t *testing.T) {
	svc := newTestService(newFakeAvailabilityRepo(mondayWindow(1, "16:00", "18:00")),
		newFakeExceptionRepo(), &fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	// Граничащее окно пересечением не считается
	_, err := svc.AddAvailability(context.Background(), &models.AddAvailabilityRequest{
		UserID:    2,
		DayOfWeek: 1,
		StartTime: "18:00",
		EndTime:   "20:00",
	})
	assert.NoError(t, err)
}

func TestAddAvailability_Validation(t *testing.T) {
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		&fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	tests := []struct {
		name    string
		req     *models.AddAvailabilityRequest
		wantErr error
	}{
		{
			name:    "invalid day of week",
			req:     &models.AddAvailabilityRequest{UserID: 2, DayOfWeek: 7, StartTime: "10:00", EndTime: "11:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad start time",
			req:     &models.AddAvailabilityRequest{UserID: 2, DayOfWeek: 1, StartTime: "9:00", EndTime: "11:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "start not before end",
			req:     &models.AddAvailabilityRequest{UserID: 2, DayOfWeek: 1, StartTime: "11:00", EndTime: "11:00"},
			wantErr: ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAvailability(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteAvailability_OwnershipEnforced(t *testing.T) {
	foreign := mondayWindow(1, "16:00", "18:00")
	foreign.TutorID = 77
	repo := newFakeAvailabilityRepo(foreign)

	svc := newTestService(repo, newFakeExceptionRepo(), &fakeBookingRepo{},
		tutorProfile(), &fakeNotifyClient{})

	err := svc.DeleteAvailability(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.deleted)
}

func TestDeleteAvailability_NotFound(t *testing.T) {
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		&fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	err := svc.DeleteAvailability(context.Background(), 2, 42)
	assert.ErrorIs(t, err, ErrWindowNotFound)
}

func TestAddUnavailability_CascadesCancellation(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	bookings := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{
				ID: 1, TutorID: 10, StudentID: 20,
				StartAt: start.Add(2 * time.Hour), EndAt: start.Add(2*time.Hour + 30*time.Minute),
				Status: domain.StatusConfirmed,
			},
			{
				// За пределами интервала, не отменяется
				ID: 2, TutorID: 10, StudentID: 21,
				StartAt: start.Add(48 * time.Hour), EndAt: start.Add(48*time.Hour + 30*time.Minute),
				Status: domain.StatusConfirmed,
			},
		},
	}
	notify := &fakeNotifyClient{}
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		bookings, tutorProfile(), notify)

	reason := "отпуск"
	resp, err := svc.AddUnavailability(context.Background(), &models.AddUnavailabilityRequest{
		UserID:  2,
		StartAt: start,
		EndAt:   start.Add(24 * time.Hour),
		Reason:  &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CancelledBookings)
	assert.Equal(t, []int64{1}, bookings.cancelled)

	require.Len(t, notify.events, 1)
	require.Len(t, notify.events[0].Bookings, 1)
	assert.Equal(t, int64(20), notify.events[0].Bookings[0].StudentID)
}

func TestAddUnavailability_NoIntersectingBookings(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	bookings := &fakeBookingRepo{}
	notify := &fakeNotifyClient{}
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		bookings, tutorProfile(), notify)

	resp, err := svc.AddUnavailability(context.Background(), &models.AddUnavailabilityRequest{
		UserID:  2,
		StartAt: start,
		EndAt:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.CancelledBookings)
	assert.Empty(t, bookings.cancelled)
	assert.Empty(t, notify.events)
}

func TestAddUnavailability_InvalidInterval(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		&fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	_, err := svc.AddUnavailability(context.Background(), &models.AddUnavailabilityRequest{
		UserID:  2,
		StartAt: start,
		EndAt:   start,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDeleteUnavailability_OwnershipEnforced(t *testing.T) {
	foreign := &domain.UnavailabilityException{
		ID:      1,
		TutorID: 77,
		StartAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
	}
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(foreign),
		&fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	err := svc.DeleteUnavailability(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestListUnavailability(t *testing.T) {
	e := &domain.UnavailabilityException{
		ID:      1,
		TutorID: 10,
		StartAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
	}
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(e),
		&fakeBookingRepo{}, tutorProfile(), &fakeNotifyClient{})

	resp, err := svc.ListUnavailability(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, resp.Unavailabilities, 1)
	assert.Equal(t, int64(1), resp.Unavailabilities[0].ID)
}

func TestProfileNotFound(t *testing.T) {
	profile := &fakeProfileClient{tutorErr: profileservice.ErrTutorNotFound}
	svc := newTestService(newFakeAvailabilityRepo(), newFakeExceptionRepo(),
		&fakeBookingRepo{}, profile, &fakeNotifyClient{})

	_, err := svc.ListAvailability(context.Background(), 2)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
