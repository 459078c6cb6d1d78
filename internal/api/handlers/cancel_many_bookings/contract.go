package cancel_many_bookings

import (
	"context"

	"github.com/m04kA/TMP-LessonService/internal/service/bookings/models"
)

type BookingService interface {
	CancelMany(ctx context.Context, req *models.CancelManyBookingsRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
