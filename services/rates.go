package services

import (
	"strings"
	"time"

	"hotel-ops-server/models"
	"hotel-ops-server/utils"
)

// RateService manages manual rate overrides: date-scoped prices that win over
// every other pricing source.
type RateService struct {
	catalog CatalogStore
	rates   RateStore
}

func NewRateService(catalog CatalogStore, rates RateStore) *RateService {
	return &RateService{catalog: catalog, rates: rates}
}

// RateFields carries the price-model-specific values of one override.
type RateFields struct {
	AdultRate      *float64 `json:"adultRate,omitempty"`
	ChildRate      *float64 `json:"childRate,omitempty"`
	BaseRate       *float64 `json:"baseRate,omitempty"`
	ExtraGuestRate *float64 `json:"extraGuestRate,omitempty"`
}

// SetRatesResult reports how many rows were written and echoes the resolved
// rates per requested date. Echoing the submitted values masks read lag on
// stores with eventually consistent reads.
type SetRatesResult struct {
	Created int                   `json:"created"`
	Updated int                   `json:"updated"`
	Rates   map[string]RateFields `json:"updatedRates"`
}

// SetRates validates and upserts one override per requested date. Dates are
// normalized to UTC midnight; required fields depend on the room type's
// price model.
func (s *RateService) SetRates(roomTypeID uint, dates []string, fields RateFields) (*SetRatesResult, error) {
	if len(dates) == 0 {
		return nil, newValidationError("at least one date is required")
	}

	rt, err := s.catalog.RoomTypeByID(roomTypeID)
	if err != nil {
		return nil, notFoundOr(err, "room type", roomTypeID)
	}

	switch rt.PriceModel {
	case models.PriceModelPerPerson:
		if fields.AdultRate == nil {
			return nil, newValidationError("adultRate is required for perPerson room types")
		}
		if *fields.AdultRate < 0 || (fields.ChildRate != nil && *fields.ChildRate < 0) {
			return nil, newValidationError("rates must not be negative")
		}
		fields.BaseRate, fields.ExtraGuestRate = nil, nil
	case models.PriceModelPerRoom:
		if fields.BaseRate == nil {
			return nil, newValidationError("baseRate is required for perRoom room types")
		}
		if *fields.BaseRate < 0 || (fields.ExtraGuestRate != nil && *fields.ExtraGuestRate < 0) {
			return nil, newValidationError("rates must not be negative")
		}
		fields.AdultRate, fields.ChildRate = nil, nil
	default:
		return nil, newValidationError("room type has unknown price model %q", rt.PriceModel)
	}

	// Parse the whole list before the first write so a malformed date can
	// never leave a partial batch behind.
	days := make([]time.Time, 0, len(dates))
	for _, raw := range dates {
		day, parseErr := utils.ParseDate(raw)
		if parseErr != nil {
			return nil, &ValidationError{Message: parseErr.Error()}
		}
		days = append(days, utils.NormalizeDate(day))
	}

	result := &SetRatesResult{Rates: make(map[string]RateFields, len(days))}
	for _, day := range days {
		rate := models.ManualRate{
			RoomTypeID:     roomTypeID,
			Date:           day,
			AdultRate:      fields.AdultRate,
			ChildRate:      fields.ChildRate,
			BaseRate:       fields.BaseRate,
			ExtraGuestRate: fields.ExtraGuestRate,
		}
		created, upsertErr := s.rates.UpsertRate(&rate)
		if upsertErr != nil {
			if strings.Contains(upsertErr.Error(), "duplicate key") {
				// A concurrent writer inserted the same (roomType, date).
				return nil, &ConflictError{Message: "manual rate for " + utils.FormatDate(day) + " was written concurrently, retry"}
			}
			return nil, upsertErr
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		result.Rates[utils.FormatDate(rate.Date)] = RateFields{
			AdultRate:      rate.AdultRate,
			ChildRate:      rate.ChildRate,
			BaseRate:       rate.BaseRate,
			ExtraGuestRate: rate.ExtraGuestRate,
		}
	}
	return result, nil
}
