package add_unavailability

import (
	"time"

	"github.com/m04kA/TMP-LessonService/internal/service/calendar/models"
)

// AddUnavailabilityRequest HTTP request model
type AddUnavailabilityRequest struct {
	StartAt string  `json:"startAt"` // RFC3339
	EndAt   string  `json:"endAt"`   // RFC3339
	Reason  *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddUnavailabilityRequest) ToServiceRequest(userID int64) (*models.AddUnavailabilityRequest, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	return &models.AddUnavailabilityRequest{
		UserID:  userID,
		StartAt: startAt,
		EndAt:   endAt,
		Reason:  r.Reason,
	}, nil
}
