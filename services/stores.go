package services

import (
	"time"

	"hotel-ops-server/models"
)

// The availability calculator and pricing resolver are pure functions of
// these stores. storage.Store implements all of them against postgres; tests
// substitute in-memory fakes.

// CatalogStore reads the room type catalog. The catalog is owned by hotel
// settings and read-only to the core engines.
type CatalogStore interface {
	RoomTypeByID(id uint) (*models.RoomType, error)
	RoomsByIDs(ids []uint) ([]models.Room, error)
}

// LedgerStore reads the reservation ledger.
type LedgerStore interface {
	// ActiveReservations returns confirmed and checked-in reservations whose
	// half-open stay overlaps [from, to).
	ActiveReservations(roomTypeID uint, from, to time.Time) ([]models.Reservation, error)
}

// HoldStore reads inventory holds.
type HoldStore interface {
	HoldsInRange(roomTypeID uint, from, to time.Time) ([]models.InventoryHold, error)
}

// RateStore reads and writes manual rate overrides.
type RateStore interface {
	RatesInRange(roomTypeID uint, from, to time.Time) ([]models.ManualRate, error)
	// UpsertRate writes one rate keyed by (roomType, date) and reports
	// whether a new row was created.
	UpsertRate(rate *models.ManualRate) (bool, error)
}

// RuleStore reads and writes dynamic pricing rules.
type RuleStore interface {
	RuleByRoomType(roomTypeID uint) (*models.DynamicPricingRule, error)
	CreateRule(rule *models.DynamicPricingRule) error
	SaveRule(rule *models.DynamicPricingRule) error
}
