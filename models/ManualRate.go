package models

import (
	"time"

	"gorm.io/gorm"
)

// ManualRate is an explicit price override for one room type on one date.
// It is the highest-priority source in price resolution. Rate fields mirror
// the room type's price model; the unused pair stays nil.
type ManualRate struct {
	gorm.Model
	RoomTypeID uint      `json:"roomTypeID" gorm:"not null;uniqueIndex:idx_manual_rate_type_date"`
	Date       time.Time `json:"date" gorm:"not null;uniqueIndex:idx_manual_rate_type_date"`

	AdultRate      *float64 `json:"adultRate"`
	ChildRate      *float64 `json:"childRate"`
	BaseRate       *float64 `json:"baseRate"`
	ExtraGuestRate *float64 `json:"extraGuestRate"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}
