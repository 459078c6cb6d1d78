package models

import (
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

// Request модели

// AddAvailabilityRequest запрос на добавление еженедельного окна доступности
type AddAvailabilityRequest struct {
	UserID    int64
	DayOfWeek int
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
}

// AddUnavailabilityRequest запрос на добавление разовой недоступности.
// Подтверждённые бронирования, пересекающие интервал, отменяются каскадом
// в той же транзакции.
type AddUnavailabilityRequest struct {
	UserID  int64
	StartAt time.Time
	EndAt   time.Time
	Reason  *string
}

// Response модели

// AvailabilityResponse ответ с данными окна доступности
type AvailabilityResponse struct {
	ID        int64  `json:"id"`
	TutorID   int64  `json:"tutorId"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AvailabilityListResponse ответ со списком окон доступности
type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
}

// UnavailabilityResponse ответ с данными недоступности
type UnavailabilityResponse struct {
	ID      int64     `json:"id"`
	TutorID int64     `json:"tutorId"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  *string   `json:"reason,omitempty"`

	// Количество бронирований, отменённых каскадом
	CancelledBookings int `json:"cancelledBookings"`
}

// UnavailabilityListResponse ответ со списком недоступностей
type UnavailabilityListResponse struct {
	Unavailabilities []UnavailabilityResponse `json:"unavailabilities"`
}

// Методы конвертации

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.RecurringAvailability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	return &AvailabilityResponse{
		ID:        a.ID,
		TutorID:   a.TutorID,
		DayOfWeek: a.DayOfWeek,
		StartTime: a.StartTime.String(),
		EndTime:   a.EndTime.String(),
	}
}

// FromDomainAvailabilityList конвертирует список domain моделей в DTO
func FromDomainAvailabilityList(list []*domain.RecurringAvailability) *AvailabilityListResponse {
	result := &AvailabilityListResponse{
		Availabilities: make([]AvailabilityResponse, 0, len(list)),
	}

	for _, a := range list {
		result.Availabilities = append(result.Availabilities, *FromDomainAvailability(a))
	}

	return result
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.UnavailabilityException, cancelled int) *UnavailabilityResponse {
	if e == nil {
		return nil
	}

	return &UnavailabilityResponse{
		ID:                e.ID,
		TutorID:           e.TutorID,
		StartAt:           e.StartAt,
		EndAt:             e.EndAt,
		Reason:            e.Reason,
		CancelledBookings: cancelled,
	}
}

// FromDomainExceptionList конвертирует список domain моделей в DTO
func FromDomainExceptionList(list []*domain.UnavailabilityException) *UnavailabilityListResponse {
	result := &UnavailabilityListResponse{
		Unavailabilities: make([]UnavailabilityResponse, 0, len(list)),
	}

	for _, e := range list {
		result.Unavailabilities = append(result.Unavailabilities, *FromDomainException(e, 0))
	}

	return result
}
