package add_availability

import (
	"context"

	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
)

type CalendarService interface {
	AddAvailability(ctx context.Context, req *models.AddAvailabilityRequest) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
