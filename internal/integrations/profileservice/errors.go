package profileservice

import "errors"

var (
	// ErrTutorNotFound возвращается, когда профиль тутора не найден
	ErrTutorNotFound = errors.New("tutor profile not found")

	// ErrStudentNotFound возвращается, когда профиль студента не найден
	ErrStudentNotFound = errors.New("student profile not found")

	// ErrSubjectNotOffered возвращается, когда тутор не ведёт запрошенный предмет
	ErrSubjectNotOffered = errors.New("tutor does not offer this subject")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")
)
