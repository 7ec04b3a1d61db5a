package storage

import (
	"errors"
	"time"

	"hotel-ops-server/models"

	"gorm.io/gorm"
)

// Store is the GORM-backed implementation of the read/write interfaces the
// core services are built on (services.CatalogStore, LedgerStore, HoldStore,
// RateStore, RuleStore). Services stay DB-free so they can be unit tested
// against in-memory fakes.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) RoomTypeByID(id uint) (*models.RoomType, error) {
	var rt models.RoomType
	if err := s.db.First(&rt, id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *Store) RoomsByIDs(ids []uint) ([]models.Room, error) {
	var rooms []models.Room
	if len(ids) == 0 {
		return rooms, nil
	}
	if err := s.db.Where("id IN ?", ids).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// ActiveReservations returns confirmed and checked-in reservations whose
// half-open stay overlaps [from, to).
func (s *Store) ActiveReservations(roomTypeID uint, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.
		Where("room_type_id = ? AND status IN ? AND check_in < ? AND check_out > ?",
			roomTypeID,
			[]string{models.ReservationStatusConfirmed, models.ReservationStatusCheckedIn},
			to, from).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Store) HoldsInRange(roomTypeID uint, from, to time.Time) ([]models.InventoryHold, error) {
	var holds []models.InventoryHold
	err := s.db.
		Where("room_type_id = ? AND date >= ? AND date < ?", roomTypeID, from, to).
		Find(&holds).Error
	if err != nil {
		return nil, err
	}
	return holds, nil
}

func (s *Store) RatesInRange(roomTypeID uint, from, to time.Time) ([]models.ManualRate, error) {
	var rates []models.ManualRate
	err := s.db.
		Where("room_type_id = ? AND date >= ? AND date < ?", roomTypeID, from, to).
		Order("date ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// UpsertRate writes one manual rate keyed by (room_type_id, date). Returns
// true when a new row was created. A duplicate-key failure on Create means a
// concurrent writer won the insert race; the caller maps it to a conflict.
func (s *Store) UpsertRate(rate *models.ManualRate) (bool, error) {
	var existing models.ManualRate
	err := s.db.Where("room_type_id = ? AND date = ?", rate.RoomTypeID, rate.Date).First(&existing).Error
	if err == nil {
		existing.AdultRate = rate.AdultRate
		existing.ChildRate = rate.ChildRate
		existing.BaseRate = rate.BaseRate
		existing.ExtraGuestRate = rate.ExtraGuestRate
		if err := s.db.Save(&existing).Error; err != nil {
			return false, err
		}
		*rate = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.Create(rate).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) RuleByRoomType(roomTypeID uint) (*models.DynamicPricingRule, error) {
	var rule models.DynamicPricingRule
	if err := s.db.Where("room_type_id = ?", roomTypeID).First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *Store) CreateRule(rule *models.DynamicPricingRule) error {
	return s.db.Create(rule).Error
}

func (s *Store) SaveRule(rule *models.DynamicPricingRule) error {
	return s.db.Save(rule).Error
}
