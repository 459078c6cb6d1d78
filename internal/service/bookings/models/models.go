package models

import (
	"time"

	"github.com/m04kA/TMP-LessonService/internal/domain"
)

// Request модели

// GetMyBookingsRequest запрос на получение бронирований текущего пользователя.
// Роль определяет, по какому профилю искать: студент видит свои занятия,
// тутор видит свои календарные бронирования.
type GetMyBookingsRequest struct {
	UserID int64
	Role   domain.UserRole
}

// CancelBookingRequest запрос на отмену одного бронирования
type CancelBookingRequest struct {
	UserID int64
	Role   domain.UserRole
	Reason *string
}

// CancelManyBookingsRequest запрос на пакетную отмену бронирований.
// Пакет отменяется атомарно: либо все бронирования, либо ни одного.
type CancelManyBookingsRequest struct {
	UserID     int64
	Role       domain.UserRole
	BookingIDs []int64
	Reason     *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64     `json:"id"`
	TutorID   int64     `json:"tutorId"`
	StudentID int64     `json:"studentId"`
	SubjectID int64     `json:"subjectId"`
	Mode      string    `json:"mode"`
	Location  *string   `json:"location,omitempty"`
	Address   *string   `json:"address,omitempty"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    string    `json:"status"`

	// Денормализованные данные
	TutorName   string `json:"tutorName"`
	SubjectName string `json:"subjectName"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TutorID:            b.TutorID,
		StudentID:          b.StudentID,
		SubjectID:          b.SubjectID,
		Mode:               string(b.Mode),
		Address:            b.Address,
		StartAt:            b.StartAt,
		EndAt:              b.EndAt,
		Status:             string(b.Status),
		TutorName:          b.TutorName,
		SubjectName:        b.SubjectName,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.Location != nil {
		loc := string(*b.Location)
		resp.Location = &loc
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}

	return result
}
