package get_unavailabilities

import (
	"context"

	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
)

type CalendarService interface {
	ListUnavailability(ctx context.Context, userID int64) (*models.UnavailabilityListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
