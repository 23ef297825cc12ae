package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	CourtID     uuid.UUID `json:"court_id" db:"court_id"`
	BookingDate string    `json:"booking_date" db:"booking_date"`
	BookingTime string    `json:"booking_time" db:"booking_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// BookingWithCourt is a booking joined with its court for list views.
type BookingWithCourt struct {
	Booking
	CourtName string `json:"court_name" db:"court_name"`
	SportType string `json:"sport_type" db:"sport_type"`
}

// StartTime combines the booking date and the slot start into a single
// point in time in the given location.
func (b Booking) StartTime(loc *time.Location) (time.Time, error) {
	return CombineDateSlot(b.BookingDate, b.BookingTime, loc)
}

// CombineDateSlot interprets a booking date plus slot start label as a
// local point in time.
func CombineDateSlot(date, slot string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := SlotStart(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}
