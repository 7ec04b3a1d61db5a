package models

import (
	"gorm.io/gorm"
)

// Folio statuses.
const (
	FolioStatusActive = "active"
	FolioStatusClosed = "closed"
)

// Folio is the consolidated bill opened for a group when its first rooms are
// assigned. Exactly one active folio exists per group.
type Folio struct {
	gorm.Model
	GroupID     uint    `json:"groupID" gorm:"not null;index"`
	FolioNumber string  `json:"folioNumber" gorm:"type:varchar(40);uniqueIndex"`
	Status      string  `json:"status" gorm:"type:varchar(20);default:'active';index"` // active, closed
	TotalAmount float64 `json:"totalAmount"`

	Items []FolioItem `json:"items,omitempty" gorm:"foreignKey:FolioID"`
}

// FolioItem is one per-room charge line.
type FolioItem struct {
	gorm.Model
	FolioID     uint    `json:"folioID" gorm:"not null;index"`
	RoomID      uint    `json:"roomID" gorm:"index"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}
