package services

import (
	"errors"
	"math"
	"time"

	"hotel-ops-server/models"
	"hotel-ops-server/utils"

	"gorm.io/gorm"
)

// Price resolution sources, in priority order.
const (
	PriceSourceManual  = "manual"
	PriceSourceDynamic = "dynamic"
	PriceSourceBase    = "base"
)

// PricingService resolves the final price per date: manual override first,
// then the occupancy-driven rule, then the room type's base rates.
type PricingService struct {
	catalog      CatalogStore
	rates        RateStore
	rules        RuleStore
	availability *AvailabilityService
}

func NewPricingService(catalog CatalogStore, rates RateStore, rules RuleStore, availability *AvailabilityService) *PricingService {
	return &PricingService{catalog: catalog, rates: rates, rules: rules, availability: availability}
}

// ResolvedPrice is the price for one date. Rate fields are populated
// according to the room type's price model; OccupancyPercent is set only for
// dynamically resolved prices.
type ResolvedPrice struct {
	Date             time.Time `json:"date"`
	Source           string    `json:"source"` // manual, dynamic, base
	OccupancyPercent *float64  `json:"occupancyPercent,omitempty"`
	AdultRate        *float64  `json:"adultRate,omitempty"`
	ChildRate        *float64  `json:"childRate,omitempty"`
	BaseRate         *float64  `json:"baseRate,omitempty"`
	ExtraGuestRate   *float64  `json:"extraGuestRate,omitempty"`
}

// GetOrCreateRule returns the room type's pricing rule, lazily creating a
// disabled default on first access.
func (s *PricingService) GetOrCreateRule(roomTypeID uint) (*models.DynamicPricingRule, error) {
	if _, err := s.catalog.RoomTypeByID(roomTypeID); err != nil {
		return nil, notFoundOr(err, "room type", roomTypeID)
	}

	rule, err := s.rules.RuleByRoomType(roomTypeID)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rule = &models.DynamicPricingRule{
		RoomTypeID:   roomTypeID,
		Enabled:      false,
		DemandScale:  1,
		RateRoundOff: 1,
	}
	if err := s.rules.CreateRule(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule replaces the rule configuration after validating the tier list.
func (s *PricingService) UpdateRule(roomTypeID uint, enabled bool, demandScale float64, rateRoundOff int, tiers []models.OccupancyTier) (*models.DynamicPricingRule, error) {
	if demandScale < 0 {
		return nil, newValidationError("demandScale must not be negative")
	}
	if rateRoundOff < 1 {
		return nil, newValidationError("rateRoundOff must be at least 1")
	}
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}

	rule, err := s.GetOrCreateRule(roomTypeID)
	if err != nil {
		return nil, err
	}

	rule.Enabled = enabled
	rule.DemandScale = demandScale
	rule.RateRoundOff = rateRoundOff
	if err := rule.SetTiers(tiers); err != nil {
		return nil, err
	}
	if err := s.rules.SaveRule(rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// validateTiers enforces 0 ≤ start < end ≤ 100 per tier and non-overlapping
// bands across the list.
func validateTiers(tiers []models.OccupancyTier) error {
	for i, t := range tiers {
		if t.StartPercent < 0 || t.EndPercent > 100 || t.StartPercent >= t.EndPercent {
			return newValidationError("occupancy rule %d: require 0 <= startPercent < endPercent <= 100", i)
		}
		for j := 0; j < i; j++ {
			prev := tiers[j]
			if t.StartPercent < prev.EndPercent && prev.StartPercent < t.EndPercent {
				return newValidationError("occupancy rules %d and %d overlap", j, i)
			}
		}
	}
	return nil
}

// PriceForDate resolves one date.
func (s *PricingService) PriceForDate(roomTypeID uint, date time.Time) (*ResolvedPrice, error) {
	date = utils.NormalizeDate(date)
	prices, err := s.PriceForRange(roomTypeID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &prices[0], nil
}

// PriceForRange resolves every date in [start, end). Manual rates, the rule
// and per-day occupancy are fetched once for the whole range; resolution then
// runs in memory per day.
func (s *PricingService) PriceForRange(roomTypeID uint, start, end time.Time) ([]ResolvedPrice, error) {
	start = utils.NormalizeDate(start)
	end = utils.NormalizeDate(end)
	if err := utils.ValidateRange(start, end); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	rt, err := s.catalog.RoomTypeByID(roomTypeID)
	if err != nil {
		return nil, notFoundOr(err, "room type", roomTypeID)
	}

	manualRates, err := s.rates.RatesInRange(roomTypeID, start, end)
	if err != nil {
		return nil, err
	}
	manualByDay := make(map[time.Time]*models.ManualRate, len(manualRates))
	for i := range manualRates {
		manualByDay[utils.NormalizeDate(manualRates[i].Date)] = &manualRates[i]
	}

	rule, err := s.GetOrCreateRule(roomTypeID)
	if err != nil {
		return nil, err
	}

	var occupancy map[time.Time]float64
	if rule.Enabled {
		occupancy, err = s.availability.DailyOccupancy(roomTypeID, start, end)
		if err != nil {
			return nil, err
		}
	}
	tiers := rule.Tiers()

	var prices []ResolvedPrice
	utils.EachDay(start, end, func(day time.Time) {
		prices = append(prices, resolveDay(rt, rule, tiers, manualByDay[day], occupancy, day))
	})
	return prices, nil
}

func resolveDay(rt *models.RoomType, rule *models.DynamicPricingRule, tiers []models.OccupancyTier, manual *models.ManualRate, occupancy map[time.Time]float64, day time.Time) ResolvedPrice {
	price := ResolvedPrice{Date: day}

	if manual != nil {
		price.Source = PriceSourceManual
		if rt.PriceModel == models.PriceModelPerPerson {
			price.AdultRate = manual.AdultRate
			price.ChildRate = manual.ChildRate
		} else {
			price.BaseRate = manual.BaseRate
			price.ExtraGuestRate = manual.ExtraGuestRate
		}
		return price
	}

	if rule.Enabled {
		occ := occupancy[day]
		price.Source = PriceSourceDynamic
		price.OccupancyPercent = &occ
		// The same occupancy value drives both fields of the room type.
		if rt.PriceModel == models.PriceModelPerPerson {
			price.AdultRate = f64(applyTiers(rt.AdultRate, occ, rule, tiers))
			price.ChildRate = f64(applyTiers(rt.ChildRate, occ, rule, tiers))
		} else {
			price.BaseRate = f64(applyTiers(rt.BaseRate, occ, rule, tiers))
			price.ExtraGuestRate = f64(applyTiers(rt.ExtraGuestRate, occ, rule, tiers))
		}
		return price
	}

	price.Source = PriceSourceBase
	if rt.PriceModel == models.PriceModelPerPerson {
		price.AdultRate = f64(rt.AdultRate)
		price.ChildRate = f64(rt.ChildRate)
	} else {
		price.BaseRate = f64(rt.BaseRate)
		price.ExtraGuestRate = f64(rt.ExtraGuestRate)
	}
	return price
}

// applyTiers computes base × demandScale, applies the first matching enabled
// tier (+add1, ×multiplier when positive, +add2 — tiers never stack), rounds
// to the nearest RateRoundOff multiple and clamps at zero.
func applyTiers(base float64, occupancyPercent float64, rule *models.DynamicPricingRule, tiers []models.OccupancyTier) float64 {
	price := base * rule.DemandScale

	for _, tier := range tiers {
		if !tier.Matches(occupancyPercent) {
			continue
		}
		price += tier.AddSubtract1
		if tier.Multiplier > 0 {
			price *= tier.Multiplier
		}
		price += tier.AddSubtract2
		break
	}

	if rule.RateRoundOff > 1 {
		ro := float64(rule.RateRoundOff)
		price = math.Round(price/ro) * ro
	}
	if price < 0 {
		price = 0
	}
	return price
}

func f64(v float64) *float64 { return &v }
