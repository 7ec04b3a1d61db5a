package models

import (
	"gorm.io/gorm"
)

// Price models supported by a room type.
const (
	PriceModelPerPerson = "perPerson"
	PriceModelPerRoom   = "perRoom"
)

// RoomType is the unit of finite inventory: TotalInventory rooms of the same
// kind sold against one calendar. Base rates depend on the price model:
// perPerson uses AdultRate/ChildRate, perRoom uses BaseRate/ExtraGuestRate.
type RoomType struct {
	gorm.Model
	HotelID        uint   `json:"hotelID" gorm:"not null;index"`
	Name           string `json:"name" gorm:"not null"`
	TotalInventory int    `json:"totalInventory" gorm:"not null;default:0"`
	PriceModel     string `json:"priceModel" gorm:"type:varchar(20);not null;default:'perRoom'"` // perPerson, perRoom
	MaxOccupancy   int    `json:"maxOccupancy" gorm:"default:2"`

	AdultRate      float64 `json:"adultRate"`
	ChildRate      float64 `json:"childRate"`
	BaseRate       float64 `json:"baseRate"`
	ExtraGuestRate float64 `json:"extraGuestRate"`

	Hotel *Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:RoomTypeID"`
}

// Room statuses.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// Room is a concrete physical unit of a room type.
type Room struct {
	gorm.Model
	RoomTypeID uint   `json:"roomTypeID" gorm:"not null;index"`
	RoomNumber string `json:"roomNumber" gorm:"not null"`
	Floor      string `json:"floor"`
	Status     string `json:"status" gorm:"type:varchar(20);default:'available'"` // available, occupied, maintenance

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}
