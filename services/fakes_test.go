package services

import (
	"time"

	"hotel-ops-server/models"

	"gorm.io/gorm"
)

// fakeStore implements the store interfaces in memory for calculator and
// resolver tests.
type fakeStore struct {
	roomTypes    map[uint]*models.RoomType
	rooms        map[uint]*models.Room
	reservations []models.Reservation
	holds        []models.InventoryHold
	rates        []models.ManualRate
	rules        map[uint]*models.DynamicPricingRule
	nextID       uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roomTypes: map[uint]*models.RoomType{},
		rooms:     map[uint]*models.Room{},
		rules:     map[uint]*models.DynamicPricingRule{},
	}
}

func (f *fakeStore) addRoomType(rt models.RoomType) *models.RoomType {
	f.nextID++
	rt.ID = f.nextID
	f.roomTypes[rt.ID] = &rt
	return &rt
}

func (f *fakeStore) addRoom(room models.Room) *models.Room {
	f.nextID++
	room.ID = f.nextID
	f.rooms[room.ID] = &room
	return &room
}

func (f *fakeStore) RoomTypeByID(id uint) (*models.RoomType, error) {
	rt, ok := f.roomTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rt, nil
}

func (f *fakeStore) RoomsByIDs(ids []uint) ([]models.Room, error) {
	var rooms []models.Room
	for _, id := range ids {
		if room, ok := f.rooms[id]; ok {
			rooms = append(rooms, *room)
		}
	}
	return rooms, nil
}

func (f *fakeStore) ActiveReservations(roomTypeID uint, from, to time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.reservations {
		if res.RoomTypeID != roomTypeID || !res.CountsTowardOccupancy() {
			continue
		}
		if res.CheckIn.Before(to) && res.CheckOut.After(from) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeStore) HoldsInRange(roomTypeID uint, from, to time.Time) ([]models.InventoryHold, error) {
	var out []models.InventoryHold
	for _, h := range f.holds {
		if h.RoomTypeID == roomTypeID && !h.Date.Before(from) && h.Date.Before(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) RatesInRange(roomTypeID uint, from, to time.Time) ([]models.ManualRate, error) {
	var out []models.ManualRate
	for _, r := range f.rates {
		if r.RoomTypeID == roomTypeID && !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertRate(rate *models.ManualRate) (bool, error) {
	for i := range f.rates {
		existing := &f.rates[i]
		if existing.RoomTypeID == rate.RoomTypeID && existing.Date.Equal(rate.Date) {
			rate.ID = existing.ID
			*existing = *rate
			return false, nil
		}
	}
	f.nextID++
	rate.ID = f.nextID
	f.rates = append(f.rates, *rate)
	return true, nil
}

func (f *fakeStore) RuleByRoomType(roomTypeID uint) (*models.DynamicPricingRule, error) {
	rule, ok := f.rules[roomTypeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rule, nil
}

func (f *fakeStore) CreateRule(rule *models.DynamicPricingRule) error {
	f.nextID++
	rule.ID = f.nextID
	f.rules[rule.RoomTypeID] = rule
	return nil
}

func (f *fakeStore) SaveRule(rule *models.DynamicPricingRule) error {
	f.rules[rule.RoomTypeID] = rule
	return nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
