package domain

import (
	"time"

	"github.com/m04kA/TMP-LessonService/pkg/types"
)

// RecurringAvailability еженедельное окно доступности тутора.
// Время хранится как wall-clock "HH:MM" (types.TimeString), день недели
// в формате time.Weekday (0 = воскресенье ... 6 = суббота).
type RecurringAvailability struct {
	ID        int64
	TutorID   int64
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps проверяет пересечение окна с [start, end) в тот же день недели.
// Граничащие окна пересечением не считаются.
func (a *RecurringAvailability) Overlaps(start, end types.TimeString) bool {
	return a.StartTime.IsBefore(end) && a.EndTime.IsAfter(start)
}

// ContainsSlot проверяет, что слот [slotStart, slotEnd) целиком лежит внутри окна
func (a *RecurringAvailability) ContainsSlot(slotStart, slotEnd types.TimeString) bool {
	return !slotStart.IsBefore(a.StartTime) && !slotEnd.IsAfter(a.EndTime)
}
