package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория еженедельных окон доступности
type AvailabilityRepository interface {
	GetByTutorAndWeekday(ctx context.Context, tutorID int64, dayOfWeek int) ([]*domain.RecurringAvailability, error)
}

// ExceptionRepository интерфейс репозитория разовых недоступностей
type ExceptionRepository interface {
	GetByTutorIntersecting(ctx context.Context, tutorID int64, from, to time.Time) ([]*domain.UnavailabilityException, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetTutor(ctx context.Context, tutorID int64) (*profileservice.Tutor, error)
	GetStudentByUser(ctx context.Context, userID int64) (*profileservice.Student, error)
	GetTutorSubject(ctx context.Context, tutorID, subjectID int64) (*profileservice.Subject, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
