package get_tutor_slots

import (
	"context"
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByTutorWithFilter получает бронирования тутора с фильтрацией по статусу и пересечению интервала
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория еженедельных окон доступности
type AvailabilityRepository interface {
	// GetByTutorID получает все окна доступности тутора (повторение разворачивается по календарным дням)
	GetByTutorID(ctx context.Context, tutorID int64) ([]*domain.RecurringAvailability, error)
}

// ExceptionRepository интерфейс репозитория разовых недоступностей
type ExceptionRepository interface {
	// GetByTutorIntersecting получает недоступности тутора, пересекающие [from, to)
	GetByTutorIntersecting(ctx context.Context, tutorID int64, from, to time.Time) ([]*domain.UnavailabilityException, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
