package get_tutor_slots

import (
	"fmt"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TutorID <= 0 {
		return fmt.Errorf("%w: tutorID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	if req.From.After(req.To) {
		return fmt.Errorf("%w: from must not be after to", ErrInvalidRange)
	}

	// Ограничиваем размер диапазона: разворачивание повторений по дням
	// линейно по числу дней, неограниченный диапазон — лишняя нагрузка
	if req.To.Sub(req.From).Hours() > float64(domain.MaxSlotsRangeDays*24) {
		return fmt.Errorf("%w: range must not exceed %d days", ErrRangeTooLarge, domain.MaxSlotsRangeDays)
	}

	return nil
}
