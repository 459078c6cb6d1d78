package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.TutorID <= 0 {
		return fmt.Errorf("%w: tutorID must be positive", ErrInvalidInput)
	}

	if req.SubjectID <= 0 {
		return fmt.Errorf("%w: subjectID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	// Слоты начинаются на границе минуты
	if req.StartAt.Second() != 0 || req.StartAt.Nanosecond() != 0 {
		return fmt.Errorf("%w: startAt must be aligned to a whole minute", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Mode) == "" {
		return fmt.Errorf("%w: mode is required", ErrInvalidInput)
	}

	return nil
}

// resolveMode нормализует формат занятия и разрешает BOTH в конкретный формат.
// BOTH в бронировании не хранится: если студент передал BOTH, формат выводится
// из addressOption (выбран адрес — очное занятие, не выбран — онлайн).
func resolveMode(rawMode string, addressOption *string) (domain.BookingMode, error) {
	switch domain.TutorCapabilityMode(strings.ToUpper(strings.TrimSpace(rawMode))) {
	case domain.CapabilityOnline:
		return domain.ModeOnline, nil
	case domain.CapabilityOffline:
		return domain.ModeOffline, nil
	case domain.CapabilityBoth:
		if addressOption != nil && *addressOption != "" {
			return domain.ModeOffline, nil
		}
		return domain.ModeOnline, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, rawMode)
	}
}

// validateWithinAvailability проверяет, что слот [startAt, endAt) целиком
// лежит внутри какого-либо окна доступности на соответствующий день недели
func validateWithinAvailability(windows []*domain.RecurringAvailability, startAt time.Time) error {
	slotStart := types.NewTimeString(startAt.UTC())

	slotEnd, err := slotStart.AddMinutes(domain.LessonDurationMinutes)
	if err != nil {
		// Слот пересекает полночь — ни одно окно его не содержит
		return ErrSlotUnavailable
	}

	for _, w := range windows {
		if w.ContainsSlot(slotStart, slotEnd) {
			return nil
		}
	}

	return ErrSlotUnavailable
}
