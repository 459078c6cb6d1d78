package get_my_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	bookingsService "github.com/m04kA/TMP-LessonService/internal/service/bookings"
	"github.com/m04kA/TMP-LessonService/internal/service/bookings/models"
)

const (
	msgProfileNotFound = "профиль пользователя не найден"
	msgInvalidRole     = "некорректная роль пользователя"
)

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

// Handle GET /api/v1/bookings/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}
	role, _ := middleware.UserRole(r.Context())

	result, err := h.service.GetMyBookings(r.Context(), &models.GetMyBookingsRequest{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrProfileNotFound):
			h.logger.Warn("GET /bookings/me - Profile not found: user_id=%d, role=%s", userID, role)
			handlers.RespondNotFound(w, msgProfileNotFound)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /bookings/me - Invalid role: user_id=%d, role=%s", userID, role)
			handlers.RespondBadRequest(w, msgInvalidRole)

		default:
			h.logger.Error("GET /bookings/me - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/me - Returned %d bookings for user_id=%d", len(result.Bookings), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
