package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// ParseBookingStatus accepts the canonical names plus the legacy admin labels
// Approved and Rejected.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return BookingStatusPending, true
	case "confirmed", "approved":
		return BookingStatusConfirmed, true
	case "cancelled", "canceled", "rejected":
		return BookingStatusCancelled, true
	}
	return "", false
}

type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	PackageID     string        `json:"packageId"`
	TransactionID string        `json:"transactionId,omitempty"`
	PackageTitle  string        `json:"packageTitle"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	TravelDate    time.Time     `json:"travelDate"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        BookingStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type BookingFilter struct {
	Status BookingStatus
	UserID string
}
