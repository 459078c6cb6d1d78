package domain

import "time"

// BookingStatus статус бронирования занятия
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// BookingMode формат проведения занятия.
// В бронировании хранится только ONLINE или OFFLINE: BOTH существует лишь
// как возможность тутора (TutorCapabilityMode) и разрешается в один из двух
// форматов при создании бронирования.
type BookingMode string

const (
	ModeOnline  BookingMode = "ONLINE"
	ModeOffline BookingMode = "OFFLINE"
)

// Location место проведения очного занятия
type Location string

const (
	LocationAtStudent Location = "AT_STUDENT"
	LocationAtTutor   Location = "AT_TUTOR"
)

// Booking бронирование одного атомарного занятия (30 минут)
type Booking struct {
	ID        int64
	TutorID   int64
	StudentID int64
	SubjectID int64
	Mode      BookingMode
	Location  *Location // nil для онлайн-занятий
	Address   *string   // ссылка на встречу для ONLINE, физический адрес для OFFLINE
	StartAt   time.Time
	EndAt     time.Time
	Status    BookingStatus

	// Денормализованные данные для истории
	TutorName   string
	SubjectName string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed возвращает true, если бронирование активно
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если бронирование можно отменить.
// Переход статуса односторонний: CONFIRMED -> CANCELLED.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// Intersects проверяет пересечение бронирования с полуоткрытым интервалом [start, end).
// Граничащие интервалы пересечением не считаются.
func (b *Booking) Intersects(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// TutorBookingsFilter фильтр для выборки бронирований тутора
type TutorBookingsFilter struct {
	TutorID       int64          // Обязательный параметр
	IntersectFrom *time.Time     // Начало интервала пересечения (опционально)
	IntersectTo   *time.Time     // Конец интервала пересечения (опционально)
	Status        *BookingStatus // Фильтр по статусу (опционально)
	ForUpdate     bool           // Блокировать выбранные строки (только внутри транзакции)
}
