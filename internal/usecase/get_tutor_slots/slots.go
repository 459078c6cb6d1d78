package get_tutor_slots

import (
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/types"
)

// generateSlots разворачивает еженедельные окна доступности по календарным
// дням диапазона [from, to] и выбрасывает слоты, пересекающиеся с
// подтверждёнными бронированиями или недоступностями.
//
// Чистая функция без побочных эффектов: результат детерминирован и носит
// рекомендательный характер — окончательную проверку занятости выполняет
// транзакция создания бронирования.
func generateSlots(
	from time.Time,
	to time.Time,
	availability []*domain.RecurringAvailability,
	bookings []*domain.Booking,
	exceptions []*domain.UnavailabilityException,
) ([]domain.Slot, error) {
	// Группируем окна по дню недели; репозиторий отдаёт их
	// упорядоченными по (day_of_week, start_time)
	windowsByWeekday := make(map[int][]*domain.RecurringAvailability, len(availability))
	for _, w := range availability {
		windowsByWeekday[w.DayOfWeek] = append(windowsByWeekday[w.DayOfWeek], w)
	}

	slots := make([]domain.Slot, 0)

	firstDay := dateOnly(from)
	lastDay := dateOnly(to)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		windows := windowsByWeekday[int(day.Weekday())]

		for _, window := range windows {
			daySlots, err := walkWindow(day, window, from, to, bookings, exceptions)
			if err != nil {
				return nil, err
			}
			slots = append(slots, daySlots...)
		}
	}

	return slots, nil
}

// walkWindow проходит окно доступности с фиксированным шагом занятия
// и возвращает выжившие слоты
func walkWindow(
	day time.Time,
	window *domain.RecurringAvailability,
	from time.Time,
	to time.Time,
	bookings []*domain.Booking,
	exceptions []*domain.UnavailabilityException,
) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0)

	current := window.StartTime
	for current.IsBefore(window.EndTime) {
		slotEnd, err := current.AddMinutes(domain.LessonDurationMinutes)
		if err != nil {
			return nil, err
		}

		// Слот не должен выходить за конец окна
		if slotEnd.IsAfter(window.EndTime) {
			break
		}

		startAt, err := atClock(day, current)
		if err != nil {
			return nil, err
		}
		endAt := startAt.Add(domain.LessonDurationMinutes * time.Minute)

		if fitsRange(startAt, endAt, from, to) &&
			!intersectsBookings(startAt, endAt, bookings) &&
			!intersectsExceptions(startAt, endAt, exceptions) {
			slots = append(slots, domain.Slot{StartAt: startAt, EndAt: endAt})
		}

		current = slotEnd
	}

	return slots, nil
}

// fitsRange проверяет, что слот целиком лежит в запрошенном диапазоне
func fitsRange(slotStart, slotEnd, from, to time.Time) bool {
	return !slotStart.Before(from) && !slotEnd.After(to)
}

// intersectsBookings проверяет пересечение слота с подтверждёнными бронированиями.
// Полуоткрытые интервалы: граничащие интервалы пересечением не считаются.
func intersectsBookings(slotStart, slotEnd time.Time, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsConfirmed() {
			continue
		}
		if b.Intersects(slotStart, slotEnd) {
			return true
		}
	}
	return false
}

// intersectsExceptions проверяет пересечение слота с недоступностями тутора
func intersectsExceptions(slotStart, slotEnd time.Time, exceptions []*domain.UnavailabilityException) bool {
	for _, e := range exceptions {
		if e.Intersects(slotStart, slotEnd) {
			return true
		}
	}
	return false
}

// dateOnly обнуляет время, оставляя календарную дату в UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// atClock возвращает абсолютный момент времени: календарный день day
// плюс wall-clock время ts
func atClock(day time.Time, ts types.TimeString) (time.Time, error) {
	minutes, err := ts.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
