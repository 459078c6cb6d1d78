package delete_unavailability

import "context"

type CalendarService interface {
	DeleteUnavailability(ctx context.Context, userID, exceptionID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
