package get_tutor_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMP-LessonService/internal/api/handlers"
	getTutorSlots "github.com/m04kA/TMP-LessonService/internal/usecase/get_tutor_slots"
)

const (
	msgInvalidTutorID = "некорректный идентификатор тутора"
	msgInvalidPeriod  = "некорректный диапазон, ожидаются параметры from и to в формате RFC3339"
	msgRangeTooLarge  = "запрошенный диапазон слишком велик"
)

type Handler struct {
	useCase GetTutorSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetTutorSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tutors/{tutorId}/slots?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tutorID, err := strconv.ParseInt(vars["tutorId"], 10, 64)
	if err != nil || tutorID <= 0 {
		h.logger.Warn("GET /tutors/{tutorId}/slots - Invalid tutor id: %s", vars["tutorId"])
		handlers.RespondBadRequest(w, msgInvalidTutorID)
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /tutors/%d/slots - Invalid from: %v", tutorID, err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /tutors/%d/slots - Invalid to: %v", tutorID, err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getTutorSlots.Request{
		TutorID: tutorID,
		From:    from,
		To:      to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getTutorSlots.ErrRangeTooLarge):
			h.logger.Warn("GET /tutors/%d/slots - Range too large", tutorID)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		case errors.Is(err, getTutorSlots.ErrInvalidRange), errors.Is(err, getTutorSlots.ErrInvalidInput):
			h.logger.Warn("GET /tutors/%d/slots - Invalid range: %v", tutorID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /tutors/%d/slots - Failed to get slots: %v", tutorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tutors/%d/slots - Returned %d slots", tutorID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
