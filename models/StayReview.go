package models

import "gorm.io/gorm"

// StayReview is a guest's review of a completed stay. Verified reviews are
// linked to a checked-out reservation at the hotel.
type StayReview struct {
	gorm.Model
	HotelID       uint   `json:"hotelID" gorm:"not null;index"`
	GuestID       uint   `json:"guestID" gorm:"not null;index"`
	ReservationID *uint  `json:"reservationID" gorm:"index"`
	Title         string `json:"title"`
	Body          string `json:"body" gorm:"type:text"`
	Stars         int    `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	IsVerified    bool   `json:"isVerified" gorm:"default:false"`

	Hotel       *Hotel       `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	Guest       *User        `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
}
