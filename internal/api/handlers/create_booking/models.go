package create_booking

import (
	"time"

	createBooking "github.com/m04kA/TMP-LessonService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model.
// Идентификатор студента берётся из сессии, а не из тела запроса.
type CreateBookingRequest struct {
	TutorID       int64   `json:"tutorId"`
	SubjectID     int64   `json:"subjectId"`
	StartAt       string  `json:"startAt"` // RFC3339
	Mode          string  `json:"mode"`    // ONLINE | OFFLINE | BOTH
	AddressOption *string `json:"addressOption,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID        int64   `json:"id"`
	TutorID   int64   `json:"tutorId"`
	StudentID int64   `json:"studentId"`
	SubjectID int64   `json:"subjectId"`
	Mode      string  `json:"mode"`
	Location  *string `json:"location,omitempty"`
	Address   *string `json:"address,omitempty"`
	StartAt   string  `json:"startAt"`
	EndAt     string  `json:"endAt"`
	Status    string  `json:"status"`

	TutorName   string `json:"tutorName"`
	SubjectName string `json:"subjectName"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:        userID,
		TutorID:       r.TutorID,
		SubjectID:     r.SubjectID,
		StartAt:       startAt,
		Mode:          r.Mode,
		AddressOption: r.AddressOption,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	result := &BookingResponse{
		ID:          resp.ID,
		TutorID:     resp.TutorID,
		StudentID:   resp.StudentID,
		SubjectID:   resp.SubjectID,
		Mode:        string(resp.Mode),
		Address:     resp.Address,
		StartAt:     resp.StartAt.Format(time.RFC3339),
		EndAt:       resp.EndAt.Format(time.RFC3339),
		Status:      string(resp.Status),
		TutorName:   resp.TutorName,
		SubjectName: resp.SubjectName,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.Location != nil {
		loc := string(*resp.Location)
		result.Location = &loc
	}

	return result
}
