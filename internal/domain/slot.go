package domain

import "time"

// Slot атомарный свободный слот для бронирования.
// Результат генератора слотов носит рекомендательный характер:
// единственным арбитром занятости остаётся транзакция создания бронирования.
type Slot struct {
	StartAt time.Time
	EndAt   time.Time
}

// Intersects проверяет пересечение слота с полуоткрытым интервалом [start, end)
func (s Slot) Intersects(start, end time.Time) bool {
	return s.StartAt.Before(end) && s.EndAt.After(start)
}
