package domain

import "time"

// UnavailabilityException разовая недоступность тутора
// (отпуск, болезнь), абсолютный интервал [StartAt, EndAt) в UTC.
type UnavailabilityException struct {
	ID        int64
	TutorID   int64
	StartAt   time.Time
	EndAt     time.Time
	Reason    *string
	CreatedAt time.Time
}

// Intersects проверяет пересечение недоступности с полуоткрытым интервалом [start, end)
func (e *UnavailabilityException) Intersects(start, end time.Time) bool {
	return e.StartAt.Before(end) && e.EndAt.After(start)
}
