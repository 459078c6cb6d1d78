package delete_unavailability

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
	msgInvalidExceptionID = "некорректный идентификатор недоступности"
	msgProfileNotFound    = "профиль тутора не найден"
	msgExceptionNotFound  = "недоступность не найдена"
	msgAccessDenied       = "нет прав для удаления этой недоступности"
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

// Handle DELETE /api/v1/calendar/unavailability/{exceptionId}
// Отменённые каскадом бронирования при удалении не восстанавливаются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	vars := mux.Vars(r)
	exceptionID, err := strconv.ParseInt(vars["exceptionId"], 10, 64)
	if err != nil || exceptionID <= 0 {
		h.logger.Warn("DELETE /calendar/unavailability/{exceptionId} - Invalid id: %s", vars["exceptionId"])
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}

	if err := h.service.DeleteUnavailability(r.Context(), userID, exceptionID); err != nil {
		switch {
		case errors.Is(err, calendarService.ErrProfileNotFound):
			h.logger.Warn("DELETE /calendar/unavailability/%d - Profile not found: user_id=%d",
				exceptionID, userID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, calendarService.ErrExceptionNotFound):
			h.logger.Warn("DELETE /calendar/unavailability/%d - Exception not found", exceptionID)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, calendarService.ErrAccessDenied):
			h.logger.Warn("DELETE /calendar/unavailability/%d - Access denied: user_id=%d",
				exceptionID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /calendar/unavailability/%d - Failed to delete: user_id=%d, error=%v",
				exceptionID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /calendar/unavailability/%d - Deleted by user_id=%d", exceptionID, userID)
	w.WriteHeader(http.StatusNoContent)
}
