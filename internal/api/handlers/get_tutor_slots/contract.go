package get_tutor_slots

import (
	"context"

	getTutorSlots "github.com/m04kA/TMP-LessonService/internal/usecase/get_tutor_slots"
)

type GetTutorSlotsUseCase interface {
	Execute(ctx context.Context, req *getTutorSlots.Request) (*getTutorSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
