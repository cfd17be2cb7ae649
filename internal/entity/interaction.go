package entity

import "time"

type Interaction struct {
	ID         string
	UserID     string
	PropertyID string
	Action     string
	CreatedAt  time.Time
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type TourBooking struct {
	ID         string
	UserID     string
	PropertyID string
	Details    string
	Status     BookingStatus
	CreatedAt  time.Time
}
