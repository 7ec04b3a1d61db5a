package models

import (
	"gorm.io/gorm"
)

// Hotel is the tenant boundary. Every inventory, rate and booking row is
// scoped to one hotel through its room types.
type Hotel struct {
	gorm.Model
	OwnerID  uint   `json:"ownerID" gorm:"index"`
	Name     string `json:"name" gorm:"not null"`
	Timezone string `json:"timezone" gorm:"type:varchar(64);default:'UTC'"`
	City     string `json:"city"`
	Country  string `json:"country"`
	IsActive *bool  `json:"isActive" gorm:"default:true"`

	RoomTypes []RoomType `json:"roomTypes,omitempty" gorm:"foreignKey:HotelID"`
	Owner     *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
