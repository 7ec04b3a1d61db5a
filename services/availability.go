package services

import (
	"time"

	"hotel-ops-server/models"
	"hotel-ops-server/utils"
)

// AvailabilityService answers "how many rooms of this type are free on each
// date". All stay intervals are half-open [checkIn, checkOut): the checkout
// day itself is free. The same rule applies in pricing and group validation.
type AvailabilityService struct {
	catalog CatalogStore
	ledger  LedgerStore
	holds   HoldStore
}

func NewAvailabilityService(catalog CatalogStore, ledger LedgerStore, holds HoldStore) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, ledger: ledger, holds: holds}
}

// DayAvailability carries the raw signed count for one date. Raw can go
// negative when the calendar is overbooked; API responses clamp it at zero
// while the signed value stays observable internally.
type DayAvailability struct {
	Date time.Time `json:"date"`
	Raw  int       `json:"raw"`
}

// Available is the clamped count exposed to clients.
func (d DayAvailability) Available() int {
	if d.Raw < 0 {
		return 0
	}
	return d.Raw
}

// RoomType loads a room type or reports it missing.
func (s *AvailabilityService) RoomType(id uint) (*models.RoomType, error) {
	rt, err := s.catalog.RoomTypeByID(id)
	if err != nil {
		return nil, notFoundOr(err, "room type", id)
	}
	return rt, nil
}

// DailyAvailability computes, for every date in [checkIn, checkOut),
// totalInventory − committed − blocked. Reservations and holds are fetched
// once for the whole range and folded into per-day counts with a single
// sweep over delta events instead of one query per day.
func (s *AvailabilityService) DailyAvailability(roomTypeID uint, checkIn, checkOut time.Time) ([]DayAvailability, error) {
	checkIn = utils.NormalizeDate(checkIn)
	checkOut = utils.NormalizeDate(checkOut)
	if err := utils.ValidateRange(checkIn, checkOut); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	rt, err := s.RoomType(roomTypeID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.ledger.ActiveReservations(roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	holds, err := s.holds.HoldsInRange(roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	committed := committedPerDay(reservations, checkIn, checkOut, reservationRooms)
	blocked := make(map[time.Time]int)
	for _, h := range holds {
		blocked[utils.NormalizeDate(h.Date)] += h.BlockedInventory
	}

	var days []DayAvailability
	utils.EachDay(checkIn, checkOut, func(day time.Time) {
		days = append(days, DayAvailability{
			Date: day,
			Raw:  rt.TotalInventory - committed[day] - blocked[day],
		})
	})
	return days, nil
}

// OccupancyPercent returns occupied/totalInventory*100 for one date, where
// occupied counts distinct assigned units for reservations that carry an
// assignment and NumberOfRooms for those that do not. Zero inventory yields
// zero rather than a division by zero.
func (s *AvailabilityService) OccupancyPercent(roomTypeID uint, date time.Time) (float64, error) {
	date = utils.NormalizeDate(date)
	rt, err := s.RoomType(roomTypeID)
	if err != nil {
		return 0, err
	}
	if rt.TotalInventory == 0 {
		return 0, nil
	}

	reservations, err := s.ledger.ActiveReservations(roomTypeID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	assigned := make(map[uint]struct{})
	unassigned := 0
	for i := range reservations {
		res := &reservations[i]
		if !res.Occupies(date) {
			continue
		}
		ids := res.RoomIDs()
		if len(ids) == 0 {
			unassigned += res.NumberOfRooms
			continue
		}
		for _, id := range ids {
			assigned[id] = struct{}{}
		}
	}

	occupied := len(assigned) + unassigned
	return float64(occupied) / float64(rt.TotalInventory) * 100, nil
}

// DailyOccupancy is the range form of OccupancyPercent, used by the pricing
// resolver to price a whole range off one reservation fetch.
func (s *AvailabilityService) DailyOccupancy(roomTypeID uint, checkIn, checkOut time.Time) (map[time.Time]float64, error) {
	checkIn = utils.NormalizeDate(checkIn)
	checkOut = utils.NormalizeDate(checkOut)
	if err := utils.ValidateRange(checkIn, checkOut); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	rt, err := s.RoomType(roomTypeID)
	if err != nil {
		return nil, err
	}

	occupancy := make(map[time.Time]float64)
	if rt.TotalInventory == 0 {
		utils.EachDay(checkIn, checkOut, func(day time.Time) { occupancy[day] = 0 })
		return occupancy, nil
	}

	reservations, err := s.ledger.ActiveReservations(roomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	occupied := committedPerDay(reservations, checkIn, checkOut, occupiedRooms)
	utils.EachDay(checkIn, checkOut, func(day time.Time) {
		occupancy[day] = float64(occupied[day]) / float64(rt.TotalInventory) * 100
	})
	return occupancy, nil
}

// reservationRooms counts a reservation's footprint for availability math:
// the ledger commits NumberOfRooms regardless of assignment.
func reservationRooms(res *models.Reservation) int {
	return res.NumberOfRooms
}

// occupiedRooms counts assigned units when an assignment exists, matching
// OccupancyPercent. Assignments are constant over a stay and disjoint across
// reservations.
func occupiedRooms(res *models.Reservation) int {
	if ids := res.RoomIDs(); len(ids) > 0 {
		return len(ids)
	}
	return res.NumberOfRooms
}

// committedPerDay folds overlapping reservations into a per-day room count.
// It builds +n/−n delta events at the clipped stay bounds and accumulates a
// running total date by date, so the whole range costs one pass.
func committedPerDay(reservations []models.Reservation, checkIn, checkOut time.Time, rooms func(*models.Reservation) int) map[time.Time]int {
	deltas := make(map[time.Time]int)
	for i := range reservations {
		res := &reservations[i]
		start := utils.NormalizeDate(res.CheckIn)
		end := utils.NormalizeDate(res.CheckOut)
		if start.Before(checkIn) {
			start = checkIn
		}
		if end.After(checkOut) {
			end = checkOut
		}
		if !start.Before(end) {
			continue
		}
		n := rooms(res)
		deltas[start] += n
		deltas[end] -= n
	}

	counts := make(map[time.Time]int)
	running := 0
	utils.EachDay(checkIn, checkOut, func(day time.Time) {
		running += deltas[day]
		counts[day] = running
	})
	return counts
}
