package add_unavailability

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	calendarService "github.com/m04kA/TMP-LessonService/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInterval    = "некорректный интервал, ожидаются startAt и endAt в формате RFC3339"
	msgProfileNotFound    = "профиль тутора не найден"
	msgServerBusy         = "сервис перегружен, повторите запрос"
)

const retryAfterSeconds = 1

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

// Handle POST /api/v1/calendar/unavailability
// Подтверждённые бронирования, пересекающие интервал, отменяются каскадом.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req AddUnavailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/unavailability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("POST /calendar/unavailability - Failed to parse interval: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	result, err := h.service.AddUnavailability(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrProfileNotFound):
			h.logger.Warn("POST /calendar/unavailability - Profile not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, calendarService.ErrServerBusy):
			h.logger.Warn("POST /calendar/unavailability - Server busy: user_id=%d", userID)
			handlers.RespondServerBusy(w, msgServerBusy, retryAfterSeconds)

		case errors.Is(err, calendarService.ErrInvalidInput), errors.Is(err, calendarService.ErrInvalidRange):
			h.logger.Warn("POST /calendar/unavailability - Invalid interval: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("POST /calendar/unavailability - Failed to add: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /calendar/unavailability - Created id=%d for user_id=%d, cancelled %d bookings",
		result.ID, userID, result.CancelledBookings)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
