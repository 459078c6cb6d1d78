package calendar

import (
	"context"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
)

// AvailabilityRepository интерфейс репозитория еженедельных окон доступности
type AvailabilityRepository interface {
	Create(ctx context.Context, a *domain.RecurringAvailability) (*domain.RecurringAvailability, error)
	GetByID(ctx context.Context, id int64) (*domain.RecurringAvailability, error)
	GetByTutorID(ctx context.Context, tutorID int64) ([]*domain.RecurringAvailability, error)
	GetByTutorAndWeekday(ctx context.Context, tutorID int64, dayOfWeek int) ([]*domain.RecurringAvailability, error)
	Delete(ctx context.Context, id int64) error
}

// ExceptionRepository интерфейс репозитория разовых недоступностей
type ExceptionRepository interface {
	Create(ctx context.Context, e *domain.UnavailabilityException) (*domain.UnavailabilityException, error)
	GetByID(ctx context.Context, id int64) (*domain.UnavailabilityException, error)
	GetByTutorID(ctx context.Context, tutorID int64) ([]*domain.UnavailabilityException, error)
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
// (для каскадной отмены при добавлении недоступности)
type BookingRepository interface {
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
	CancelByIDs(ctx context.Context, ids []int64, reason *string) error
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetTutorByUser(ctx context.Context, userID int64) (*profileservice.Tutor, error)
}

// NotifyServiceClient интерфейс клиента NotifyService
type NotifyServiceClient interface {
	NotifyBookingsCancelled(ctx context.Context, event *notifyservice.BookingsCancelledEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
