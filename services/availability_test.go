package services

import (
	"errors"
	"testing"

	"hotel-ops-server/models"
)

func TestDailyAvailabilityEmptyCalendar(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Deluxe", TotalInventory: 10})
	svc := NewAvailabilityService(store, store, store)

	days, err := svc.DailyAvailability(rt.ID, date("2024-01-01"), date("2024-01-04"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for _, day := range days {
		if day.Available() != 10 {
			t.Fatalf("expected 10 available on %s, got %d", day.Date, day.Available())
		}
	}
}

func TestDailyAvailabilityHalfOpenStay(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Deluxe", TotalInventory: 10})
	store.reservations = append(store.reservations, models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-01-01"),
		CheckOut:      date("2024-01-03"),
		NumberOfRooms: 4,
		Status:        models.ReservationStatusConfirmed,
	})
	svc := NewAvailabilityService(store, store, store)

	days, err := svc.DailyAvailability(rt.ID, date("2024-01-01"), date("2024-01-04"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The checkout day itself is free
	want := []int{6, 6, 10}
	for i, day := range days {
		if day.Available() != want[i] {
			t.Fatalf("day %d: expected %d available, got %d", i, want[i], day.Available())
		}
	}
}

func TestDailyAvailabilitySubtractsHolds(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Suite", TotalInventory: 8})
	store.reservations = append(store.reservations, models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-02-10"),
		CheckOut:      date("2024-02-12"),
		NumberOfRooms: 2,
		Status:        models.ReservationStatusCheckedIn,
	})
	store.holds = append(store.holds, models.InventoryHold{
		RoomTypeID:       rt.ID,
		Date:             date("2024-02-10"),
		BlockedInventory: 3,
	})
	svc := NewAvailabilityService(store, store, store)

	days, err := svc.DailyAvailability(rt.ID, date("2024-02-10"), date("2024-02-12"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days[0].Available() != 3 {
		t.Fatalf("expected 3 available with hold, got %d", days[0].Available())
	}
	if days[1].Available() != 6 {
		t.Fatalf("expected 6 available without hold, got %d", days[1].Available())
	}
}

func TestDailyAvailabilityIgnoresInactiveReservations(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Standard", TotalInventory: 5})
	for _, status := range []string{
		models.ReservationStatusCancelled,
		models.ReservationStatusCheckedOut,
		models.ReservationStatusNoShow,
	} {
		store.reservations = append(store.reservations, models.Reservation{
			RoomTypeID:    rt.ID,
			CheckIn:       date("2024-03-01"),
			CheckOut:      date("2024-03-05"),
			NumberOfRooms: 2,
			Status:        status,
		})
	}
	svc := NewAvailabilityService(store, store, store)

	days, err := svc.DailyAvailability(rt.ID, date("2024-03-01"), date("2024-03-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, day := range days {
		if day.Available() != 5 {
			t.Fatalf("expected full availability, got %d on %s", day.Available(), day.Date)
		}
	}
}

func TestDailyAvailabilityNegativeRawClampsToZero(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Standard", TotalInventory: 10})
	store.reservations = append(store.reservations, models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-04-01"),
		CheckOut:      date("2024-04-02"),
		NumberOfRooms: 12,
		Status:        models.ReservationStatusConfirmed,
	})
	svc := NewAvailabilityService(store, store, store)

	days, err := svc.DailyAvailability(rt.ID, date("2024-04-01"), date("2024-04-02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days[0].Raw != -2 {
		t.Fatalf("expected raw -2, got %d", days[0].Raw)
	}
	if days[0].Available() != 0 {
		t.Fatalf("expected clamped 0, got %d", days[0].Available())
	}
}

func TestDailyAvailabilityValidation(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Standard", TotalInventory: 5})
	svc := NewAvailabilityService(store, store, store)

	var verr *ValidationError
	if _, err := svc.DailyAvailability(rt.ID, date("2024-01-05"), date("2024-01-05")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty range, got %v", err)
	}
	if _, err := svc.DailyAvailability(rt.ID, date("2024-01-01"), date("2026-01-01")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for oversized range, got %v", err)
	}

	var nferr *NotFoundError
	if _, err := svc.DailyAvailability(999, date("2024-01-01"), date("2024-01-02")); !errors.As(err, &nferr) {
		t.Fatalf("expected not-found error for unknown room type, got %v", err)
	}
}

func TestOccupancyPercentMixedAssignments(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Standard", TotalInventory: 10})

	assigned := models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-05-01"),
		CheckOut:      date("2024-05-03"),
		NumberOfRooms: 2,
		Status:        models.ReservationStatusCheckedIn,
	}
	if err := assigned.SetRoomIDs([]uint{101, 102}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unassigned := models.Reservation{
		RoomTypeID:    rt.ID,
		CheckIn:       date("2024-05-01"),
		CheckOut:      date("2024-05-02"),
		NumberOfRooms: 3,
		Status:        models.ReservationStatusConfirmed,
	}
	store.reservations = append(store.reservations, assigned, unassigned)
	svc := NewAvailabilityService(store, store, store)

	occ, err := svc.OccupancyPercent(rt.ID, date("2024-05-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ != 50 {
		t.Fatalf("expected 50%% occupancy, got %v", occ)
	}

	// Checkout day of the unassigned stay: only the assigned pair remains
	occ, err = svc.OccupancyPercent(rt.ID, date("2024-05-02"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ != 20 {
		t.Fatalf("expected 20%% occupancy, got %v", occ)
	}
}

func TestOccupancyPercentZeroInventory(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Closed Wing", TotalInventory: 0})
	svc := NewAvailabilityService(store, store, store)

	occ, err := svc.OccupancyPercent(rt.ID, date("2024-05-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if occ != 0 {
		t.Fatalf("expected 0%% for zero inventory, got %v", occ)
	}
}
