package get_tutor_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/types"
)

// 2026-03-02 — понедельник
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func window(day int, start, end string) *domain.RecurringAvailability {
	return &domain.RecurringAvailability{
		ID:        1,
		TutorID:   10,
		DayOfWeek: day,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func confirmedBooking(start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:      100,
		TutorID: 10,
		StartAt: start,
		EndAt:   end,
		Status:  domain.StatusConfirmed,
	}
}

func slotTimes(slots []domain.Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.StartAt.Format("15:04"))
	}
	return result
}

func TestGenerateSlots_SingleWindow(t *testing.T) {
	// Окно понедельника 16:00-18:00 даёт четыре 30-минутных слота
	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		nil, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00", "16:30", "17:00", "17:30"}, slotTimes(slots))
}

func TestGenerateSlots_BookingRemovesSlot(t *testing.T) {
	booking := confirmedBooking(
		monday.Add(16*time.Hour+30*time.Minute),
		monday.Add(17*time.Hour),
	)

	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		[]*domain.Booking{booking},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00", "17:00", "17:30"}, slotTimes(slots))
}

func TestGenerateSlots_CancelledBookingDoesNotBlock(t *testing.T) {
	booking := confirmedBooking(
		monday.Add(16*time.Hour),
		monday.Add(16*time.Hour+30*time.Minute),
	)
	booking.Status = domain.StatusCancelled

	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		[]*domain.Booking{booking},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00", "16:30", "17:00", "17:30"}, slotTimes(slots))
}

func TestGenerateSlots_ExceptionRemovesIntersectingSlots(t *testing.T) {
	exception := &domain.UnavailabilityException{
		TutorID: 10,
		StartAt: monday.Add(16 * time.Hour),
		EndAt:   monday.Add(17 * time.Hour),
	}

	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		nil,
		[]*domain.UnavailabilityException{exception},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"17:00", "17:30"}, slotTimes(slots))
}

func TestGenerateSlots_AdjacentBookingDoesNotBlock(t *testing.T) {
	// Бронирование, граничащее со слотом, не пересекается с ним
	booking := confirmedBooking(
		monday.Add(15*time.Hour+30*time.Minute),
		monday.Add(16*time.Hour),
	)

	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		[]*domain.Booking{booking},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00", "16:30", "17:00", "17:30"}, slotTimes(slots))
}

func TestGenerateSlots_WindowNotMultipleOfSlot(t *testing.T) {
	// Хвост окна короче занятия отбрасывается
	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "17:45")},
		nil, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"16:00", "16:30", "17:00"}, slotTimes(slots))
}

func TestGenerateSlots_SlotMustFitRequestedRange(t *testing.T) {
	// Диапазон начинается в середине окна: слот 16:00 не попадает целиком
	from := monday.Add(16*time.Hour + 30*time.Minute)

	slots, err := generateSlots(
		from, monday.AddDate(0, 0, 1),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		nil, nil,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"16:30", "17:00", "17:30"}, slotTimes(slots))
}

func TestGenerateSlots_MultipleDaysAndWindows(t *testing.T) {
	windows := []*domain.RecurringAvailability{
		window(1, "09:00", "10:00"), // понедельник
		window(2, "16:00", "17:00"), // вторник
	}

	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 2),
		windows,
		nil, nil,
	)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	// Хронологический порядок между днями
	assert.Equal(t, monday.Add(9*time.Hour), slots[0].StartAt)
	assert.Equal(t, monday.Add(9*time.Hour+30*time.Minute), slots[1].StartAt)
	assert.Equal(t, monday.AddDate(0, 0, 1).Add(16*time.Hour), slots[2].StartAt)
	assert.Equal(t, monday.AddDate(0, 0, 1).Add(16*time.Hour+30*time.Minute), slots[3].StartAt)
}

func TestGenerateSlots_NoAvailability(t *testing.T) {
	slots, err := generateSlots(monday, monday.AddDate(0, 0, 7), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_MultiDayException(t *testing.T) {
	// Недоступность на неделю гасит все слоты внутри неё
	exception := &domain.UnavailabilityException{
		TutorID: 10,
		StartAt: monday,
		EndAt:   monday.AddDate(0, 0, 7),
	}

	slots, err := generateSlots(
		monday, monday.AddDate(0, 0, 14),
		[]*domain.RecurringAvailability{window(1, "16:00", "18:00")},
		nil,
		[]*domain.UnavailabilityException{exception},
	)
	require.NoError(t, err)
	// Остаётся только понедельник второй недели
	require.Len(t, slots, 4)
	assert.Equal(t, monday.AddDate(0, 0, 7).Add(16*time.Hour), slots[0].StartAt)
}
