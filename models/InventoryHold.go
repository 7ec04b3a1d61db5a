package models

import (
	"time"

	"gorm.io/gorm"
)

// InventoryHold sets aside BlockedInventory rooms of a room type on one date
// without being tied to a reservation. Group bookings write one row per stay
// date at creation time so their unassigned capacity is visible to every
// other availability check; the rows are released when the group reaches a
// terminal status.
type InventoryHold struct {
	gorm.Model
	RoomTypeID       uint      `json:"roomTypeID" gorm:"not null;index:idx_hold_type_date"`
	Date             time.Time `json:"date" gorm:"not null;index:idx_hold_type_date"`
	BlockedInventory int       `json:"blockedInventory" gorm:"not null;default:0"`
	Reason           string    `json:"reason"`

	// GroupID links holds created for a group block so they can be released
	// together.
	GroupID *uint `json:"groupID" gorm:"index"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}
