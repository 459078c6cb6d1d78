package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
)

// resolvedPlace результат разрешения места проведения занятия
type resolvedPlace struct {
	Location *domain.Location // nil для онлайн-занятий
	Address  *string          // ссылка на встречу либо физический адрес
}

// resolvePlace определяет место проведения занятия.
//
// ONLINE: адресом становится ссылка тутора на встречу (может отсутствовать),
// location не задаётся. OFFLINE: обязателен addressOption — адрес берётся
// у выбранной стороны; пустой адрес — ошибка.
//
// Выполняется ДО открытия транзакции: все ошибки разрешения адреса
// отклоняются дёшево, без обращения к БД.
func resolvePlace(
	mode domain.BookingMode,
	addressOption *string,
	tutor *profileservice.Tutor,
	student *profileservice.Student,
) (*resolvedPlace, error) {
	if mode == domain.ModeOnline {
		return &resolvedPlace{Address: tutor.MeetingLink}, nil
	}

	if addressOption == nil || strings.TrimSpace(*addressOption) == "" {
		return nil, ErrAddressOptionRequired
	}

	switch domain.AddressOption(strings.ToLower(strings.TrimSpace(*addressOption))) {
	case domain.AddressOptionStudent:
		if student.Address == nil || strings.TrimSpace(*student.Address) == "" {
			return nil, fmt.Errorf("%w: student has no address", ErrAddressNotDefined)
		}
		loc := domain.LocationAtStudent
		return &resolvedPlace{Location: &loc, Address: student.Address}, nil

	case domain.AddressOptionTutor:
		if tutor.Address == nil || strings.TrimSpace(*tutor.Address) == "" {
			return nil, fmt.Errorf("%w: tutor has no address", ErrAddressNotDefined)
		}
		loc := domain.LocationAtTutor
		return &resolvedPlace{Location: &loc, Address: tutor.Address}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddressOption, *addressOption)
	}
}
