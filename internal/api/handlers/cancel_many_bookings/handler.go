package cancel_many_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	bookingsService "github.com/m04kA/TMP-LessonService/internal/service/bookings"
	"github.com/m04kA/TMP-LessonService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "одно из бронирований не найдено"
	msgProfileNotFound    = "профиль пользователя не найден"
	msgAccessDenied       = "нет прав для отмены одного из бронирований"
	msgCannotCancel       = "одно из бронирований не может быть отменено"
	msgServerBusy         = "сервис перегружен, повторите запрос"
)

const retryAfterSeconds = 1

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/cancel-many
// Пакет отменяется атомарно: при любой ошибке ни одно бронирование не отменяется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}
	role, _ := middleware.UserRole(r.Context())

	var req CancelManyBookingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/cancel-many - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.CancelMany(r.Context(), &models.CancelManyBookingsRequest{
		UserID:     userID,
		Role:       role,
		BookingIDs: req.BookingIDs,
		Reason:     req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/cancel-many - Booking not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrProfileNotFound):
			h.logger.Warn("PATCH /bookings/cancel-many - Profile not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, bookingsService.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/cancel-many - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookingsService.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/cancel-many - Cannot cancel: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgCannotCancel)

		case errors.Is(err, bookingsService.ErrServerBusy):
			h.logger.Warn("PATCH /bookings/cancel-many - Server busy: user_id=%d", userID)
			handlers.RespondServerBusy(w, msgServerBusy, retryAfterSeconds)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/cancel-many - Invalid input: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/cancel-many - Failed to cancel: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/cancel-many - Cancelled %d bookings by user_id=%d",
		len(req.BookingIDs), userID)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
