package calendar

import "errors"

var (
	// ErrProfileNotFound возвращается, когда у пользователя нет профиля тутора
	ErrProfileNotFound = errors.New("tutor profile not found")

	// ErrWindowNotFound возвращается, когда окно доступности не найдено
	ErrWindowNotFound = errors.New("availability window not found")

	// ErrExceptionNotFound возвращается, когда недоступность не найдена
	ErrExceptionNotFound = errors.New("unavailability not found")

	// ErrWindowOverlap возвращается, когда новое окно пересекается
	// с существующим окном того же дня недели
	ErrWindowOverlap = errors.New("availability window overlaps an existing one")

	// ErrAccessDenied возвращается, когда запись принадлежит другому тутору
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidRange возвращается при некорректном временном диапазоне
	ErrInvalidRange = errors.New("invalid time range")

	// ErrServerBusy возвращается при конфликте транзакций; операцию можно повторить
	ErrServerBusy = errors.New("server busy, retry")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
