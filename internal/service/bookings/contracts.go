package bookings

import (
	"context"

	"github.com/m04kA/TMP-LessonService/internal/domain"
	"github.com/m04kA/TMP-LessonService/internal/integrations/notifyservice"
	"github.com/m04kA/TMP-LessonService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDs(ctx context.Context, ids []int64, forUpdate bool) ([]*domain.Booking, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*domain.Booking, error)
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason *string) error
	CancelByIDs(ctx context.Context, ids []int64, reason *string) error
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetTutorByUser(ctx context.Context, userID int64) (*profileservice.Tutor, error)
	GetStudentByUser(ctx context.Context, userID int64) (*profileservice.Student, error)
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
