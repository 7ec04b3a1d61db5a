package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group reservation statuses. checked-out and cancelled are terminal.
const (
	GroupStatusConfirmed  = "confirmed"
	GroupStatusCheckedIn  = "checked-in"
	GroupStatusCheckedOut = "checked-out"
	GroupStatusCancelled  = "cancelled"
)

// GroupReservation commits multiple room-type blocks for one stay. Its
// unassigned capacity is backed by InventoryHold rows created together with
// the group.
type GroupReservation struct {
	gorm.Model
	HotelID          uint      `json:"hotelID" gorm:"not null;index"`
	ConfirmationCode string    `json:"confirmationCode" gorm:"type:varchar(40);uniqueIndex"`
	GroupName        string    `json:"groupName"`
	ContactEmail     string    `json:"contactEmail"`
	CheckIn          time.Time `json:"checkIn" gorm:"not null"`
	CheckOut         time.Time `json:"checkOut" gorm:"not null"`
	Status           string    `json:"status" gorm:"type:varchar(20);not null;index"` // confirmed, checked-in, checked-out, cancelled
	TotalAmount      float64   `json:"totalAmount"`
	DiscountAmount   float64   `json:"discountAmount"`

	RoomBlocks []GroupRoomBlock `json:"roomBlocks,omitempty" gorm:"foreignKey:GroupID"`
	Hotel      *Hotel           `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}

// IsTerminal reports whether no further status transition is permitted.
func (g *GroupReservation) IsTerminal() bool {
	return g.Status == GroupStatusCheckedOut || g.Status == GroupStatusCancelled
}

// GroupRoomBlock reserves NumberOfRooms rooms of one room type inside a
// group. AssignedRoomIDs grows as concrete units are allocated, up to
// NumberOfRooms.
type GroupRoomBlock struct {
	gorm.Model
	GroupID       uint `json:"groupID" gorm:"not null;index"`
	RoomTypeID    uint `json:"roomTypeID" gorm:"not null;index"`
	NumberOfRooms int  `json:"numberOfRooms" gorm:"not null"`

	AssignedRoomIDs datatypes.JSON `json:"assignedRoomIDs" gorm:"type:jsonb"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}

// RoomIDs decodes the assigned room IDs; nil when none are assigned yet.
func (b *GroupRoomBlock) RoomIDs() []uint {
	if len(b.AssignedRoomIDs) == 0 {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(b.AssignedRoomIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// SetRoomIDs encodes the assigned room IDs.
func (b *GroupRoomBlock) SetRoomIDs(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	b.AssignedRoomIDs = datatypes.JSON(raw)
	return nil
}
