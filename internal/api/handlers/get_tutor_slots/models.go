package get_tutor_slots

import (
	"time"

	getTutorSlots "github.com/m04kA/TMP-LessonService/internal/usecase/get_tutor_slots"
)

// SlotResponse один свободный слот
type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	TutorID int64          `json:"tutorId"`
	From    time.Time      `json:"from"`
	To      time.Time      `json:"to"`
	Slots   []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getTutorSlots.Response) *SlotsResponse {
	result := &SlotsResponse{
		TutorID: resp.TutorID,
		From:    resp.From,
		To:      resp.To,
		Slots:   make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			Start: s.StartAt,
			End:   s.EndAt,
		})
	}

	return result
}
