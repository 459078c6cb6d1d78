package delete_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	calendarService "github.com/m04kA/TMP-LessonService/internal/service/calendar"
)

const (
	msgInvalidWindowID = "некорректный идентификатор окна доступности"
	msgProfileNotFound = "профиль тутора не найден"
	msgWindowNotFound  = "окно доступности не найдено"
	msgAccessDenied    = "нет прав для удаления этого окна"
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

// Handle DELETE /api/v1/calendar/availability/{windowId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	vars := mux.Vars(r)
	windowID, err := strconv.ParseInt(vars["windowId"], 10, 64)
	if err != nil || windowID <= 0 {
		h.logger.Warn("DELETE /calendar/availability/{windowId} - Invalid id: %s", vars["windowId"])
		handlers.RespondBadRequest(w, msgInvalidWindowID)
		return
	}

	if err := h.service.DeleteAvailability(r.Context(), userID, windowID); err != nil {
		switch {
		case errors.Is(err, calendarService.ErrProfileNotFound):
			h.logger.Warn("DELETE /calendar/availability/%d - Profile not found: user_id=%d", windowID, userID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, calendarService.ErrWindowNotFound):
			h.logger.Warn("DELETE /calendar/availability/%d - Window not found", windowID)
			handlers.RespondNotFound(w, msgWindowNotFound)

		case errors.Is(err, calendarService.ErrAccessDenied):
			h.logger.Warn("DELETE /calendar/availability/%d - Access denied: user_id=%d", windowID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /calendar/availability/%d - Failed to delete: user_id=%d, error=%v",
				windowID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /calendar/availability/%d - Window deleted by user_id=%d", windowID, userID)
	w.WriteHeader(http.StatusNoContent)
}
