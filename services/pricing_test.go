package services

import (
	"errors"
	"testing"

	"hotel-ops-server/models"
)

func newPricingFixture(t *testing.T, rt models.RoomType) (*fakeStore, *PricingService, *models.RoomType) {
	t.Helper()
	store := newFakeStore()
	created := store.addRoomType(rt)
	availability := NewAvailabilityService(store, store, store)
	pricing := NewPricingService(store, store, store, availability)
	return store, pricing, created
}

func enableRule(t *testing.T, store *fakeStore, roomTypeID uint, demandScale float64, rateRoundOff int, tiers []models.OccupancyTier) {
	t.Helper()
	rule := &models.DynamicPricingRule{
		RoomTypeID:   roomTypeID,
		Enabled:      true,
		DemandScale:  demandScale,
		RateRoundOff: rateRoundOff,
	}
	if err := rule.SetTiers(tiers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.CreateRule(rule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriceForDateBaseFallback(t *testing.T) {
	_, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 4,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       1000,
		ExtraGuestRate: 150,
	})

	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.Source != PriceSourceBase {
		t.Fatalf("expected base source, got %s", price.Source)
	}
	if *price.BaseRate != 1000 || *price.ExtraGuestRate != 150 {
		t.Fatalf("expected base rates 1000/150, got %v/%v", *price.BaseRate, *price.ExtraGuestRate)
	}
	if price.OccupancyPercent != nil {
		t.Fatalf("expected no occupancy on base price, got %v", *price.OccupancyPercent)
	}
}

func TestPriceForDateManualWinsOverRule(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 4,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       1000,
	})
	enableRule(t, store, rt.ID, 2, 1, nil)
	override := 777.0
	store.rates = append(store.rates, models.ManualRate{
		RoomTypeID: rt.ID,
		Date:       date("2024-06-01"),
		BaseRate:   &override,
	})

	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.Source != PriceSourceManual {
		t.Fatalf("expected manual source, got %s", price.Source)
	}
	if *price.BaseRate != 777 {
		t.Fatalf("expected manual rate 777, got %v", *price.BaseRate)
	}
}

func TestPriceForDateTierMultiplier(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 4,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       1000,
	})
	// 3 of 4 rooms committed -> 75% occupancy
	store.reservations = append(store.reservations, models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-06-01"),
		CheckOut:      date("2024-06-02"),
		NumberOfRooms: 3,
		Status:        models.ReservationStatusConfirmed,
	})
	enableRule(t, store, rt.ID, 1, 1, []models.OccupancyTier{
		{StartPercent: 0, EndPercent: 49, Multiplier: 0.9, Enabled: true},
		{StartPercent: 50, EndPercent: 100, Multiplier: 1.2, Enabled: true},
	})

	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price.Source != PriceSourceDynamic {
		t.Fatalf("expected dynamic source, got %s", price.Source)
	}
	if *price.OccupancyPercent != 75 {
		t.Fatalf("expected 75%% occupancy, got %v", *price.OccupancyPercent)
	}
	if *price.BaseRate != 1200 {
		t.Fatalf("expected 1200 after 1.2x tier, got %v", *price.BaseRate)
	}
}

func TestPriceForDateTierAddAndRoundOff(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 10,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       123,
	})
	enableRule(t, store, rt.ID, 1, 50, nil)

	// 123 rounds to the nearest multiple of 50
	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *price.BaseRate != 100 {
		t.Fatalf("expected 100 after round-off, got %v", *price.BaseRate)
	}
}

func TestPriceForDateDisabledTierSkipped(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 10,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       500,
	})
	enableRule(t, store, rt.ID, 1, 1, []models.OccupancyTier{
		{StartPercent: 0, EndPercent: 100, Multiplier: 2, Enabled: false},
	})

	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *price.BaseRate != 500 {
		t.Fatalf("expected disabled tier to be skipped, got %v", *price.BaseRate)
	}
}

func TestPriceForDateClampsAtZero(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 10,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       100,
	})
	enableRule(t, store, rt.ID, 1, 1, []models.OccupancyTier{
		{StartPercent: 0, EndPercent: 100, AddSubtract1: -500, Enabled: true},
	})

	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *price.BaseRate != 0 {
		t.Fatalf("expected clamp at zero, got %v", *price.BaseRate)
	}
}

func TestPriceForDatePerPersonModel(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Family",
		TotalInventory: 4,
		PriceModel:     models.PriceModelPerPerson,
		AdultRate:      200,
		ChildRate:      100,
	})
	// Single occupancy value drives both rates
	store.reservations = append(store.reservations, models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-06-01"),
		CheckOut:      date("2024-06-02"),
		NumberOfRooms: 4,
		Status:        models.ReservationStatusConfirmed,
	})
	enableRule(t, store, rt.ID, 1, 1, []models.OccupancyTier{
		{StartPercent: 90, EndPercent: 100, Multiplier: 1.5, Enabled: true},
	})

	price, err := pricing.PriceForDate(rt.ID, date("2024-06-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *price.AdultRate != 300 || *price.ChildRate != 150 {
		t.Fatalf("expected 300/150, got %v/%v", *price.AdultRate, *price.ChildRate)
	}
	if price.BaseRate != nil {
		t.Fatalf("expected no perRoom fields on a perPerson type")
	}
}

func TestPriceForRangeMixedSources(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 10,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       400,
	})
	enableRule(t, store, rt.ID, 1, 1, nil)
	override := 999.0
	store.rates = append(store.rates, models.ManualRate{
		RoomTypeID: rt.ID,
		Date:       date("2024-06-02"),
		BaseRate:   &override,
	})

	prices, err := pricing.PriceForRange(rt.ID, date("2024-06-01"), date("2024-06-04"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 3 {
		t.Fatalf("expected 3 prices, got %d", len(prices))
	}
	want := []string{PriceSourceDynamic, PriceSourceManual, PriceSourceDynamic}
	for i, p := range prices {
		if p.Source != want[i] {
			t.Fatalf("day %d: expected %s source, got %s", i, want[i], p.Source)
		}
	}
	if *prices[1].BaseRate != 999 {
		t.Fatalf("expected manual 999 on day 1, got %v", *prices[1].BaseRate)
	}
}

func TestGetOrCreateRuleLazyDefault(t *testing.T) {
	store, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 10,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       400,
	})

	rule, err := pricing.GetOrCreateRule(rt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.Enabled {
		t.Fatalf("expected default rule to be disabled")
	}
	if rule.DemandScale != 1 || rule.RateRoundOff != 1 {
		t.Fatalf("expected neutral defaults, got scale=%v roundoff=%d", rule.DemandScale, rule.RateRoundOff)
	}
	if _, ok := store.rules[rt.ID]; !ok {
		t.Fatalf("expected default rule to be persisted")
	}

	again, err := pricing.GetOrCreateRule(rt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != rule.ID {
		t.Fatalf("expected the same rule on second read, got %d and %d", rule.ID, again.ID)
	}
}

func TestUpdateRuleValidation(t *testing.T) {
	_, pricing, rt := newPricingFixture(t, models.RoomType{
		Name:           "Standard",
		TotalInventory: 10,
		PriceModel:     models.PriceModelPerRoom,
		BaseRate:       400,
	})

	var verr *ValidationError
	if _, err := pricing.UpdateRule(rt.ID, true, -1, 1, nil); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for negative demandScale, got %v", err)
	}
	if _, err := pricing.UpdateRule(rt.ID, true, 1, 0, nil); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for rateRoundOff below 1, got %v", err)
	}
	if _, err := pricing.UpdateRule(rt.ID, true, 1, 1, []models.OccupancyTier{
		{StartPercent: 60, EndPercent: 40, Enabled: true},
	}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for inverted tier, got %v", err)
	}
	if _, err := pricing.UpdateRule(rt.ID, true, 1, 1, []models.OccupancyTier{
		{StartPercent: 0, EndPercent: 50, Enabled: true},
		{StartPercent: 40, EndPercent: 80, Enabled: true},
	}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for overlapping tiers, got %v", err)
	}

	rule, err := pricing.UpdateRule(rt.ID, true, 1.5, 10, []models.OccupancyTier{
		{StartPercent: 0, EndPercent: 50, Multiplier: 0.9, Enabled: true},
		{StartPercent: 51, EndPercent: 100, Multiplier: 1.3, Enabled: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rule.Enabled || rule.DemandScale != 1.5 || rule.RateRoundOff != 10 {
		t.Fatalf("rule not updated: %+v", rule)
	}
	if len(rule.Tiers()) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(rule.Tiers()))
	}
}
