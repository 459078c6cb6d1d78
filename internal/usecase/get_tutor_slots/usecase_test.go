package get_tutor_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetByTutorWithFilter(_ context.Context, _ domain.TutorBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeAvailabilityRepo struct {
	windows []*domain.RecurringAvailability
	err     error
}

func (f *fakeAvailabilityRepo) GetByTutorID(_ context.Context, _ int64) ([]*domain.RecurringAvailability, error) {
	return f.windows, f.err
}

type fakeExceptionRepo struct {
	exceptions []*domain.UnavailabilityException
	err        error
}

func (f *fakeExceptionRepo) GetByTutorIntersecting(_ context.Context, _ int64, _, _ time.Time) ([]*domain.UnavailabilityException, error) {
	return f.exceptions, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExecute_HappyPath(t *testing.T) {
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{windows: []*domain.RecurringAvailability{window(1, "16:00", "18:00")}},
		&fakeExceptionRepo{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TutorID: 10,
		From:    monday,
		To:      monday.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.TutorID)
	assert.Len(t, resp.Slots, 4)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeBookingRepo{}, &fakeAvailabilityRepo{}, &fakeExceptionRepo{}, nopLogger{})

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "non-positive tutor id",
			req:     &Request{TutorID: 0, From: monday, To: monday.AddDate(0, 0, 1)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero range bounds",
			req:     &Request{TutorID: 10},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "from after to",
			req:     &Request{TutorID: 10, From: monday.AddDate(0, 0, 2), To: monday},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "range too large",
			req:     &Request{TutorID: 10, From: monday, To: monday.AddDate(0, 0, domain.MaxSlotsRangeDays+1)},
			wantErr: ErrRangeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{err: errors.New("connection refused")},
		&fakeExceptionRepo{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{
		TutorID: 10,
		From:    monday,
		To:      monday.AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, ErrInternal)
}
