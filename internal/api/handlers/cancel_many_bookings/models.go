package cancel_many_bookings

// CancelManyBookingsRequest HTTP request model
type CancelManyBookingsRequest struct {
	BookingIDs []int64 `json:"bookingIds"`
	Reason     *string `json:"reason,omitempty"`
}
