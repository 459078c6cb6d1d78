package get_tutor_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_tutor_slots: invalid input data")

	// ErrInvalidRange возвращается, когда from позже to или даты не парсятся
	ErrInvalidRange = errors.New("get_tutor_slots: invalid date range")

	// ErrRangeTooLarge возвращается, когда запрошенный диапазон превышает лимит
	ErrRangeTooLarge = errors.New("get_tutor_slots: date range is too large")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_tutor_slots: internal error")
)
