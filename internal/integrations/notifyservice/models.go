package notifyservice

import "time"

// CancelledBooking данные отменённого бронирования для уведомления студента
type CancelledBooking struct {
	BookingID int64     `json:"booking_id"`
	StudentID int64     `json:"student_id"`
	TutorID   int64     `json:"tutor_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
}

// BookingsCancelledEvent событие об отмене бронирований
// (каскад недоступности или отмена тутором)
type BookingsCancelledEvent struct {
	Reason   *string            `json:"reason,omitempty"`
	Bookings []CancelledBooking `json:"bookings"`
}
