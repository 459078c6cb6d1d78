package get_availabilities

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	calendarService "github.com/m04kA/TMP-LessonService/internal/service/calendar"
)

const (
	msgProfileNotFound = "профиль тутора не найден"
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

// Handle GET /api/v1/calendar/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	result, err := h.service.ListAvailability(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrProfileNotFound):
			h.logger.Warn("GET /calendar/availability - Profile not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		default:
			h.logger.Error("GET /calendar/availability - Failed to list windows: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar/availability - Returned %d windows for user_id=%d",
		len(result.Availabilities), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
