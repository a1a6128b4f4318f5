package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPaid    TransactionStatus = "paid"
	TransactionStatusExpired TransactionStatus = "expired"
)

// Transaction mirrors one Stripe Checkout Session. Amount is in minor
// currency units.
type Transaction struct {
	ID            string            `json:"id"`
	SessionID     string            `json:"sessionId"`
	UserID        string            `json:"userId"`
	PackageID     string            `json:"packageId"`
	BookingID     string            `json:"bookingId,omitempty"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	CustomerEmail string            `json:"customerEmail"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
