package add_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	calendarService "github.com/m04kA/TMP-LessonService/internal/service/calendar"
	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgProfileNotFound    = "профиль тутора не найден"
	msgInvalidWindow      = "некорректное окно доступности"
	msgWindowOverlap      = "окно пересекается с существующим окном доступности"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/calendar/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req AddAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddAvailability(r.Context(), &models.AddAvailabilityRequest{
		UserID:    userID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrProfileNotFound):
			h.logger.Warn("POST /calendar/availability - Profile not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, calendarService.ErrWindowOverlap):
			h.logger.Warn("POST /calendar/availability - Window overlap: user_id=%d", userID)
			handlers.RespondError(w, http.StatusConflict, msgWindowOverlap)

		case errors.Is(err, calendarService.ErrInvalidInput), errors.Is(err, calendarService.ErrInvalidRange):
			h.logger.Warn("POST /calendar/availability - Invalid window: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("POST /calendar/availability - Failed to add window: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendar/availability - Window created: id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
