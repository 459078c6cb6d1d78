package delete_availability

import "context"

type CalendarService interface {
	DeleteAvailability(ctx context.Context, userID, windowID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
