package create_booking

import (
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

// Request модель запроса на создание бронирования.
// UserID берётся из аутентифицированной сессии (middleware),
// а не из тела запроса.
type Request struct {
	UserID        int64     // ID пользователя-студента (из сессии)
	TutorID       int64     // ID тутора
	SubjectID     int64     // ID предмета
	StartAt       time.Time // Начало занятия (UTC)
	Mode          string    // ONLINE | OFFLINE | BOTH (нормализуется к верхнему регистру)
	AddressOption *string   // "student" | "tutor", обязателен для очных занятий
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64
	TutorID   int64
	StudentID int64
	SubjectID int64
	Mode      domain.BookingMode
	Location  *domain.Location
	Address   *string
	StartAt   time.Time
	EndAt     time.Time
	Status    domain.BookingStatus

	// Денормализованные данные
	TutorName   string
	SubjectName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomainBooking(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		TutorID:     b.TutorID,
		StudentID:   b.StudentID,
		SubjectID:   b.SubjectID,
		Mode:        b.Mode,
		Location:    b.Location,
		Address:     b.Address,
		StartAt:     b.StartAt,
		EndAt:       b.EndAt,
		Status:      b.Status,
		TutorName:   b.TutorName,
		SubjectName: b.SubjectName,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
