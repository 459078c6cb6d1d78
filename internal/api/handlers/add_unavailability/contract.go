package add_unavailability

import (
	"context"

	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
)

type CalendarService interface {
	AddUnavailability(ctx context.Context, req *models.AddUnavailabilityRequest) (*models.UnavailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
