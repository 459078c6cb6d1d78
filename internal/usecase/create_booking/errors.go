package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrTutorNotFound возвращается, когда профиль тутора не найден
	ErrTutorNotFound = errors.New("create_booking: tutor not found")

	// ErrStudentNotFound возвращается, когда у вызывающего нет профиля студента
	ErrStudentNotFound = errors.New("create_booking: student profile not found")

	// ErrSubjectNotOffered возвращается, когда тутор не ведёт запрошенный предмет
	ErrSubjectNotOffered = errors.New("create_booking: tutor does not offer this subject")

	// ErrInvalidMode возвращается при неизвестном формате занятия
	ErrInvalidMode = errors.New("create_booking: invalid lesson mode")

	// ErrModeNotSupported возвращается, когда формат несовместим с возможностями тутора
	ErrModeNotSupported = errors.New("create_booking: mode is not supported by tutor")

	// ErrAddressOptionRequired возвращается, когда для очного занятия не выбран адрес
	ErrAddressOptionRequired = errors.New("create_booking: address option is required for offline lessons")

	// ErrInvalidAddressOption возвращается при неизвестном значении addressOption
	ErrInvalidAddressOption = errors.New("create_booking: invalid address option")

	// ErrAddressNotDefined возвращается, когда у выбранной стороны не заполнен адрес
	ErrAddressNotDefined = errors.New("create_booking: address is not defined")

	// ErrTimeInPast возвращается при попытке забронировать слот в прошлом
	ErrTimeInPast = errors.New("create_booking: start time is in the past")

	// ErrSlotUnavailable возвращается, когда время вне окон доступности
	// или пересекается с недоступностью тутора
	ErrSlotUnavailable = errors.New("create_booking: slot is unavailable")

	// ErrSlotTaken возвращается, когда слот занят другим подтверждённым
	// бронированием (обнаружено внутри транзакции)
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrServerBusy возвращается при конфликте сериализации или таймауте
	// транзакции; операцию можно повторить
	ErrServerBusy = errors.New("create_booking: server busy, retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
