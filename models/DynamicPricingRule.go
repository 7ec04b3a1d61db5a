package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OccupancyTier maps a percent-occupancy band to a price adjustment. Bands
// must be non-overlapping and ordered; only the first matching enabled tier
// applies, tiers never stack.
type OccupancyTier struct {
	StartPercent float64 `json:"startPercent"`
	EndPercent   float64 `json:"endPercent"`
	AddSubtract1 float64 `json:"addSubtract1"`
	Multiplier   float64 `json:"multiplier"`
	AddSubtract2 float64 `json:"addSubtract2"`
	Enabled      bool    `json:"enabled"`
}

// Matches reports whether the tier is enabled and covers the occupancy value
// (inclusive on both ends).
func (t OccupancyTier) Matches(occupancyPercent float64) bool {
	return t.Enabled && occupancyPercent >= t.StartPercent && occupancyPercent <= t.EndPercent
}

// DynamicPricingRule configures occupancy-driven pricing for one room type.
// A disabled default rule is created lazily on first read.
type DynamicPricingRule struct {
	gorm.Model
	RoomTypeID     uint           `json:"roomTypeID" gorm:"not null;uniqueIndex"`
	Enabled        bool           `json:"enabled" gorm:"default:false"`
	DemandScale    float64        `json:"demandScale" gorm:"default:1"`
	RateRoundOff   int            `json:"rateRoundOff" gorm:"default:1"`
	OccupancyRules datatypes.JSON `json:"occupancyRules" gorm:"type:jsonb"`

	RoomType *RoomType `json:"roomType,omitempty" gorm:"foreignKey:RoomTypeID"`
}

// Tiers decodes the occupancy tiers in declaration order.
func (r *DynamicPricingRule) Tiers() []OccupancyTier {
	if len(r.OccupancyRules) == 0 {
		return nil
	}
	var tiers []OccupancyTier
	if err := json.Unmarshal(r.OccupancyRules, &tiers); err != nil {
		return nil
	}
	return tiers
}

// SetTiers encodes the occupancy tiers.
func (r *DynamicPricingRule) SetTiers(tiers []OccupancyTier) error {
	raw, err := json.Marshal(tiers)
	if err != nil {
		return err
	}
	r.OccupancyRules = datatypes.JSON(raw)
	return nil
}
