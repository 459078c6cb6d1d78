package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	"github.com/m04kA/TMP-LessonService/internal/api/middleware"
	createBooking "github.com/m04kA/TMP-LessonService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidStartAt        = "некорректный формат времени начала, ожидается RFC3339"
	msgTutorNotFound         = "тутор не найден"
	msgStudentNotFound       = "профиль студента не найден"
	msgSubjectNotOffered     = "тутор не ведёт выбранный предмет"
	msgInvalidMode           = "некорректный формат занятия"
	msgModeNotSupported      = "тутор не проводит занятия в выбранном формате"
	msgAddressOptionRequired = "для очного занятия необходимо выбрать адрес"
	msgInvalidAddressOption  = "некорректное значение addressOption"
	msgAddressNotDefined     = "адрес выбранной стороны не заполнен"
	msgTimeInPast            = "нельзя забронировать занятие в прошлом"
	msgSlotUnavailable       = "выбранное время недоступно для бронирования"
	msgSlotTaken             = "выбранный слот уже занят"
	msgServerBusy            = "сервис перегружен, повторите запрос"
)

const retryAfterSeconds = 1

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "требуется аутентификация")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user_id=%d, tutor_id=%d", userID, req.TutorID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createBooking.ErrServerBusy):
			h.logger.Warn("POST /bookings - Server busy: user_id=%d, tutor_id=%d", userID, req.TutorID)
			handlers.RespondServerBusy(w, msgServerBusy, retryAfterSeconds)

		case errors.Is(err, createBooking.ErrTutorNotFound):
			h.logger.Warn("POST /bookings - Tutor not found: tutor_id=%d", req.TutorID)
			handlers.RespondNotFound(w, msgTutorNotFound)

		case errors.Is(err, createBooking.ErrStudentNotFound):
			h.logger.Warn("POST /bookings - Student profile not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgStudentNotFound)

		case errors.Is(err, createBooking.ErrSubjectNotOffered):
			h.logger.Warn("POST /bookings - Subject not offered: tutor_id=%d, subject_id=%d",
				req.TutorID, req.SubjectID)
			handlers.RespondBadRequest(w, msgSubjectNotOffered)

		case errors.Is(err, createBooking.ErrInvalidMode):
			h.logger.Warn("POST /bookings - Invalid mode: user_id=%d, mode=%s", userID, req.Mode)
			handlers.RespondBadRequest(w, msgInvalidMode)

		case errors.Is(err, createBooking.ErrModeNotSupported):
			h.logger.Warn("POST /bookings - Mode not supported: tutor_id=%d, mode=%s", req.TutorID, req.Mode)
			handlers.RespondBadRequest(w, msgModeNotSupported)

		case errors.Is(err, createBooking.ErrAddressOptionRequired):
			h.logger.Warn("POST /bookings - Address option required: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgAddressOptionRequired)

		case errors.Is(err, createBooking.ErrInvalidAddressOption):
			h.logger.Warn("POST /bookings - Invalid address option: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidAddressOption)

		case errors.Is(err, createBooking.ErrAddressNotDefined):
			h.logger.Warn("POST /bookings - Address not defined: user_id=%d, tutor_id=%d", userID, req.TutorID)
			handlers.RespondBadRequest(w, msgAddressNotDefined)

		case errors.Is(err, createBooking.ErrTimeInPast):
			h.logger.Warn("POST /bookings - Time in past: user_id=%d, startAt=%s", userID, req.StartAt)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: user_id=%d, tutor_id=%d", userID, req.TutorID)
			handlers.RespondBadRequest(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, tutor_id=%d, error=%v",
				userID, req.TutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, tutor_id=%d",
		result.ID, userID, req.TutorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
