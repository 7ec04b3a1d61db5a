package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation statuses. Only confirmed and checked-in reservations count
// toward committed occupancy.
const (
	ReservationStatusConfirmed  = "confirmed"
	ReservationStatusCheckedIn  = "checked-in"
	ReservationStatusCheckedOut = "checked-out"
	ReservationStatusCancelled  = "cancelled"
	ReservationStatusNoShow     = "no-show"
)

// Reservation books NumberOfRooms rooms of one room type for the half-open
// stay [CheckIn, CheckOut). Both dates are UTC midnight; the checkout day
// itself is free.
type Reservation struct {
	gorm.Model
	RoomTypeID    uint      `json:"roomTypeID" gorm:"not null;index"`
	GuestID       uint      `json:"guestID" gorm:"index"`
	CheckIn       time.Time `json:"checkIn" gorm:"not null;index"`
	CheckOut      time.Time `json:"checkOut" gorm:"not null;index"`
	NumberOfRooms int       `json:"numberOfRooms" gorm:"not null;default:1"`
	NumAdults     int       `json:"numAdults" gorm:"default:1"`
	NumChildren   int       `json:"numChildren" gorm:"default:0"`
	TotalPrice    float64   `json:"totalPrice"`
	Status        string    `json:"status" gorm:"type:varchar(20);not null;index"` // confirmed, checked-in, checked-out, cancelled, no-show
	Note          string    `json:"note"`

	// AssignedRoomIDs is a JSON array of Room IDs once units are allocated.
	AssignedRoomIDs datatypes.JSON `json:"assignedRoomIDs" gorm:"type:jsonb"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
}

// CountsTowardOccupancy reports whether the reservation consumes inventory.
func (r *Reservation) CountsTowardOccupancy() bool {
	return r.Status == ReservationStatusConfirmed || r.Status == ReservationStatusCheckedIn
}

// Occupies reports whether the stay covers the given date (half-open range).
func (r *Reservation) Occupies(date time.Time) bool {
	return !date.Before(r.CheckIn) && date.Before(r.CheckOut)
}

// RoomIDs decodes the assigned room IDs; nil when no rooms are assigned yet.
func (r *Reservation) RoomIDs() []uint {
	if len(r.AssignedRoomIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(r.AssignedRoomIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// SetRoomIDs encodes the assigned room IDs.
func (r *Reservation) SetRoomIDs(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	r.AssignedRoomIDs = datatypes.JSON(raw)
	return nil
}
