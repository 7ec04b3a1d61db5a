package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hotel-ops-server/models"
)

func TestCheckAvailabilityItemizesEveryViolation(t *testing.T) {
	store := newFakeStore()
	deluxe := store.addRoomType(models.RoomType{Name: "Deluxe", TotalInventory: 5})
	suite := store.addRoomType(models.RoomType{Name: "Suite", TotalInventory: 2})
	// Deluxe is short on the second night only
	store.reservations = append(store.reservations, models.Reservation{
		RoomTypeID:    deluxe.ID,
		CheckIn:       date("2024-08-02"),
		CheckOut:      date("2024-08-03"),
		NumberOfRooms: 3,
		Status:        models.ReservationStatusConfirmed,
	})

	availability := NewAvailabilityService(store, store, store)
	svc := NewGroupService(nil, store, availability)

	result, err := svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: deluxe.ID, NumberOfRooms: 4},
		{RoomTypeID: suite.ID, NumberOfRooms: 3},
	}, date("2024-08-01"), date("2024-08-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatalf("expected the check to fail")
	}
	// Deluxe fails on one night, the suite block on both
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(result.Errors), result.Errors)
	}
	found := false
	for _, msg := range result.Errors {
		if strings.Contains(msg, `"Deluxe"`) && strings.Contains(msg, "2024-08-02") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a violation naming Deluxe on 2024-08-02, got %v", result.Errors)
	}

	if len(result.Details) != 2 {
		t.Fatalf("expected 2 block details, got %d", len(result.Details))
	}
	if result.Details[0].Available != 2 {
		t.Fatalf("expected min availability 2 for Deluxe, got %d", result.Details[0].Available)
	}
	if result.Details[1].Available != 2 {
		t.Fatalf("expected min availability 2 for Suite, got %d", result.Details[1].Available)
	}
}

func TestCheckAvailabilityAggregatesSameRoomType(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Deluxe", TotalInventory: 5})
	availability := NewAvailabilityService(store, store, store)
	svc := NewGroupService(nil, store, availability)

	// Two blocks of the same type draw from the same 5 rooms: 3+3 must fail
	// even though each block alone would fit
	result, err := svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: rt.ID, NumberOfRooms: 3},
		{RoomTypeID: rt.ID, NumberOfRooms: 3},
	}, date("2024-08-01"), date("2024-08-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatalf("expected combined 6-room request against 5 rooms to fail")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected a violation per night, got %d: %v", len(result.Errors), result.Errors)
	}
	for _, msg := range result.Errors {
		if !strings.Contains(msg, "of 6 requested") {
			t.Fatalf("expected the combined total in the violation, got %q", msg)
		}
	}
	if len(result.Details) != 1 {
		t.Fatalf("expected one detail row per room type, got %d", len(result.Details))
	}
	if result.Details[0].Requested != 6 {
		t.Fatalf("expected combined requested 6, got %d", result.Details[0].Requested)
	}

	// 2+3 fits exactly
	result, err = svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: rt.ID, NumberOfRooms: 2},
		{RoomTypeID: rt.ID, NumberOfRooms: 3},
	}, date("2024-08-01"), date("2024-08-03"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected combined 5-room request against 5 rooms to pass: %v", result.Errors)
	}
}

func TestCheckAvailabilitySucceedsAtExactCapacity(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Deluxe", TotalInventory: 5})
	availability := NewAvailabilityService(store, store, store)
	svc := NewGroupService(nil, store, availability)

	result, err := svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: rt.ID, NumberOfRooms: 5},
	}, date("2024-08-01"), date("2024-08-04"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected exact-capacity request to pass: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no violations, got %v", result.Errors)
	}
}

func TestCheckAvailabilityValidation(t *testing.T) {
	store := newFakeStore()
	rt := store.addRoomType(models.RoomType{Name: "Deluxe", TotalInventory: 5})
	availability := NewAvailabilityService(store, store, store)
	svc := NewGroupService(nil, store, availability)

	var verr *ValidationError
	if _, err := svc.CheckAvailability(nil, date("2024-08-01"), date("2024-08-02")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty blocks, got %v", err)
	}
	if _, err := svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: rt.ID, NumberOfRooms: 0},
	}, date("2024-08-01"), date("2024-08-02")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for zero rooms, got %v", err)
	}
	if _, err := svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: rt.ID, NumberOfRooms: 1},
	}, date("2024-08-02"), date("2024-08-02")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty range, got %v", err)
	}

	var nferr *NotFoundError
	if _, err := svc.CheckAvailability([]BlockRequest{
		{RoomTypeID: 999, NumberOfRooms: 1},
	}, date("2024-08-01"), date("2024-08-02")); !errors.As(err, &nferr) {
		t.Fatalf("expected not-found error for unknown room type, got %v", err)
	}
}

func TestDistributeCharges(t *testing.T) {
	blocks := []models.GroupRoomBlock{
		{NumberOfRooms: 2},
		{NumberOfRooms: 3},
	}

	perRoom := distributeCharges(1000, 0, blocks)
	if perRoom[0] != 200 || perRoom[1] != 200 {
		t.Fatalf("expected 200 per room, got %v", perRoom)
	}

	perRoom = distributeCharges(1000, 250, blocks)
	if perRoom[0] != 150 || perRoom[1] != 150 {
		t.Fatalf("expected 150 per room after discount, got %v", perRoom)
	}

	// Discount at or above the total yields no charges
	perRoom = distributeCharges(1000, 1000, blocks)
	if perRoom[0] != 0 || perRoom[1] != 0 {
		t.Fatalf("expected zero charges, got %v", perRoom)
	}

	perRoom = distributeCharges(1000, 0, nil)
	if len(perRoom) != 0 {
		t.Fatalf("expected no charges for no blocks, got %v", perRoom)
	}
}

func TestLockOrderSortedAndDistinct(t *testing.T) {
	ids := lockOrder([]BlockRequest{
		{RoomTypeID: 7, NumberOfRooms: 1},
		{RoomTypeID: 2, NumberOfRooms: 1},
		{RoomTypeID: 7, NumberOfRooms: 2},
		{RoomTypeID: 5, NumberOfRooms: 1},
	})
	want := []uint{2, 5, 7}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestNewFolioItemsChargesLateAssignments(t *testing.T) {
	group := &models.GroupReservation{
		CheckIn:     date("2024-08-01"),
		CheckOut:    date("2024-08-03"),
		TotalAmount: 1000,
		RoomBlocks: []models.GroupRoomBlock{
			{NumberOfRooms: 2},
			{NumberOfRooms: 3},
		},
	}

	// First call assigned rooms 10 and 11 to block 0; a later call assigns
	// rooms 20 and 21 to block 1 and must still produce charge lines
	items := newFolioItems(42, group, map[int][]uint{1: {20, 21}})
	if len(items) != 2 {
		t.Fatalf("expected 2 charge lines, got %d", len(items))
	}
	for _, item := range items {
		if item.FolioID != 42 {
			t.Fatalf("expected folio 42, got %d", item.FolioID)
		}
		if item.Amount != 200 {
			t.Fatalf("expected 200 per room, got %v", item.Amount)
		}
	}
	if items[0].RoomID != 20 || items[1].RoomID != 21 {
		t.Fatalf("expected rooms 20 and 21, got %d and %d", items[0].RoomID, items[1].RoomID)
	}

	// No new rooms, no new lines
	if items := newFolioItems(42, group, nil); len(items) != 0 {
		t.Fatalf("expected no charge lines without new rooms, got %d", len(items))
	}
}

func TestKeyedLockSerializesSameKey(t *testing.T) {
	locks := NewKeyedLock()
	unlock := locks.Lock("group:1")

	acquired := make(chan struct{})
	go func() {
		u := locks.Lock("group:1")
		close(acquired)
		u()
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatalf("second Lock acquired while the first was held")
	default:
	}

	unlock()
	<-acquired

	// Different keys never contend
	u2 := locks.Lock("group:2")
	u2()
}
