package kafka

import "time"

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingDeleted       = "booking_deleted"
	EventPaymentCompleted     = "payment_completed"
	EventPaymentExpired       = "payment_expired"
)

// BookingEvent is published on every booking or payment state change.
// The key of the message is the booking id.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"bookingId"`
	TransactionID string    `json:"transactionId,omitempty"`
	UserID        string    `json:"userId"`
	Email         string    `json:"email"`
	PackageTitle  string    `json:"packageTitle"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	OccurredAt    time.Time `json:"occurredAt"`
}
