package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"hotel-ops-server/models"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupService validates and commits multi-room-type group blocks against the
// availability calculator. Creation is check-then-commit under a room-type
// row lock so concurrent bookings cannot both pass a stale availability
// check; assignment is serialized per group.
type GroupService struct {
	db           *gorm.DB
	catalog      CatalogStore
	availability *AvailabilityService
	assignLocks  *KeyedLock
}

func NewGroupService(db *gorm.DB, catalog CatalogStore, availability *AvailabilityService) *GroupService {
	return &GroupService{
		db:           db,
		catalog:      catalog,
		availability: availability,
		assignLocks:  NewKeyedLock(),
	}
}

// BlockRequest asks for NumberOfRooms rooms of one room type for the whole
// stay.
type BlockRequest struct {
	RoomTypeID    uint `json:"roomTypeID" validate:"required"`
	NumberOfRooms int  `json:"numberOfRooms" validate:"required,min=1"`
}

// BlockDetail reports the outcome of one room type's availability check.
// Blocks requesting the same room type are judged by their combined total.
// Available is the minimum clamped availability over the stay.
type BlockDetail struct {
	RoomTypeID     uint   `json:"roomTypeID"`
	RoomTypeName   string `json:"roomTypeName"`
	Requested      int    `json:"requested"`
	Available      int    `json:"available"`
	TotalInventory int    `json:"totalInventory"`
}

// GroupCheckResult is the full validation outcome across all blocks and all
// days. Errors itemizes every violated (room type, date) pair.
type GroupCheckResult struct {
	Available bool          `json:"available"`
	Errors    []string      `json:"errors"`
	Details   []BlockDetail `json:"details"`
}

// CheckAvailability validates every requested block across every stay date.
// It always runs to completion so the caller sees all violations, and it
// never writes.
func (s *GroupService) CheckAvailability(blocks []BlockRequest, checkIn, checkOut time.Time) (*GroupCheckResult, error) {
	checkIn = utils.NormalizeDate(checkIn)
	checkOut = utils.NormalizeDate(checkOut)
	if err := utils.ValidateRange(checkIn, checkOut); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if len(blocks) == 0 {
		return nil, newValidationError("at least one room block is required")
	}

	// Blocks of the same room type draw from the same inventory, so the
	// request is judged by the per-type total, not block by block.
	requested := make(map[uint]int, len(blocks))
	var typeOrder []uint
	for _, block := range blocks {
		if block.NumberOfRooms < 1 {
			return nil, newValidationError("numberOfRooms must be at least 1")
		}
		if _, seen := requested[block.RoomTypeID]; !seen {
			typeOrder = append(typeOrder, block.RoomTypeID)
		}
		requested[block.RoomTypeID] += block.NumberOfRooms
	}

	result := &GroupCheckResult{Available: true, Errors: []string{}}
	for _, typeID := range typeOrder {
		total := requested[typeID]

		rt, err := s.availability.RoomType(typeID)
		if err != nil {
			return nil, err
		}
		days, err := s.availability.DailyAvailability(typeID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}

		minAvailable := rt.TotalInventory
		for _, day := range days {
			if day.Available() < minAvailable {
				minAvailable = day.Available()
			}
			if total > day.Available() {
				result.Available = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"room type %q has only %d of %d requested rooms available on %s",
					rt.Name, day.Available(), total, utils.FormatDate(day.Date)))
			}
		}

		result.Details = append(result.Details, BlockDetail{
			RoomTypeID:     rt.ID,
			RoomTypeName:   rt.Name,
			Requested:      total,
			Available:      minAvailable,
			TotalInventory: rt.TotalInventory,
		})
	}
	return result, nil
}

// CreateGroupInput carries a group booking request.
type CreateGroupInput struct {
	HotelID        uint
	GroupName      string
	ContactEmail   string
	CheckIn        time.Time
	CheckOut       time.Time
	Blocks         []BlockRequest
	TotalAmount    float64
	DiscountAmount float64
}

// CreateGroup validates all blocks and commits the group together with one
// InventoryHold row per (roomType, date), so unassigned group capacity is
// visible to every other booking from creation time on. The commit takes a
// short advisory lock per hotel plus FOR UPDATE locks on the room-type rows
// and re-validates inside the transaction; any violation aborts the whole
// write.
func (s *GroupService) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.GroupReservation, error) {
	checkIn := utils.NormalizeDate(input.CheckIn)
	checkOut := utils.NormalizeDate(input.CheckOut)
	if err := utils.ValidateRange(checkIn, checkOut); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if len(input.Blocks) == 0 {
		return nil, newValidationError("at least one room block is required")
	}

	lockKey := fmt.Sprintf("group-booking:hotel:%d", input.HotelID)
	acquired, err := storage.AcquireLock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, &ConflictError{Message: "another group booking for this hotel is in progress, retry"}
	}
	defer storage.ReleaseLock(ctx, lockKey)

	group := &models.GroupReservation{
		HotelID:          input.HotelID,
		ConfirmationCode: uuid.NewString(),
		GroupName:        input.GroupName,
		ContactEmail:     input.ContactEmail,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Status:           models.GroupStatusConfirmed,
		TotalAmount:      input.TotalAmount,
		DiscountAmount:   input.DiscountAmount,
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// Serialize against reservation and group commits for the same room
		// types. Writers always lock before validating, so the re-check
		// below observes every committed competitor. Locks are taken in
		// sorted ID order so two multi-type commits cannot deadlock.
		typeIDs := lockOrder(input.Blocks)
		var locked []models.RoomType
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", typeIDs).Find(&locked).Error; err != nil {
			return err
		}

		check, err := s.CheckAvailability(input.Blocks, checkIn, checkOut)
		if err != nil {
			return err
		}
		if !check.Available {
			return &CapacityError{Errors: check.Errors, Details: check.Details}
		}

		if err := tx.Create(group).Error; err != nil {
			return err
		}

		for _, b := range input.Blocks {
			block := models.GroupRoomBlock{
				GroupID:       group.ID,
				RoomTypeID:    b.RoomTypeID,
				NumberOfRooms: b.NumberOfRooms,
			}
			if err := tx.Create(&block).Error; err != nil {
				return err
			}
			group.RoomBlocks = append(group.RoomBlocks, block)

			var holds []models.InventoryHold
			utils.EachDay(checkIn, checkOut, func(day time.Time) {
				holds = append(holds, models.InventoryHold{
					RoomTypeID:       b.RoomTypeID,
					Date:             day,
					BlockedInventory: b.NumberOfRooms,
					Reason:           "group " + group.ConfirmationCode,
					GroupID:          &group.ID,
				})
			})
			if err := tx.Create(&holds).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return group, nil
}

// lockOrder returns the distinct room type IDs of a request in ascending
// order, the order row locks are acquired in.
func lockOrder(blocks []BlockRequest) []uint {
	seen := make(map[uint]struct{}, len(blocks))
	ids := make([]uint, 0, len(blocks))
	for _, b := range blocks {
		if _, ok := seen[b.RoomTypeID]; ok {
			continue
		}
		seen[b.RoomTypeID] = struct{}{}
		ids = append(ids, b.RoomTypeID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RoomAssignment allocates concrete rooms to one block of a group.
type RoomAssignment struct {
	RoomBlockIndex int    `json:"roomBlockIndex"`
	RoomIDs        []uint `json:"roomIDs" validate:"required"`
}

// AssignRooms appends concrete units to the group's blocks. Rooms already
// assigned and rooms past the block's capacity are skipped, which keeps
// repeated calls idempotent. The first assignment moves the group to
// checked-in and opens its consolidated folio exactly once. Calls for the
// same group are serialized by a per-group lock.
func (s *GroupService) AssignRooms(groupID uint, assignments []RoomAssignment) (*models.GroupReservation, error) {
	unlock := s.assignLocks.Lock(fmt.Sprintf("group:%d", groupID))
	defer unlock()

	var group models.GroupReservation
	if err := s.db.Preload("RoomBlocks").First(&group, groupID).Error; err != nil {
		return nil, notFoundOr(err, "group reservation", groupID)
	}
	if group.IsTerminal() {
		return nil, &ConflictError{Message: "group reservation is " + group.Status + " and can no longer change"}
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		assignedAny := false
		newByBlock := make(map[int][]uint)
		for _, assignment := range assignments {
			if assignment.RoomBlockIndex < 0 || assignment.RoomBlockIndex >= len(group.RoomBlocks) {
				return newValidationError("roomBlockIndex %d is out of range", assignment.RoomBlockIndex)
			}
			block := &group.RoomBlocks[assignment.RoomBlockIndex]

			rooms, err := s.catalog.RoomsByIDs(assignment.RoomIDs)
			if err != nil {
				return err
			}
			roomsByID := make(map[uint]*models.Room, len(rooms))
			for i := range rooms {
				roomsByID[rooms[i].ID] = &rooms[i]
			}

			current := block.RoomIDs()
			present := make(map[uint]struct{}, len(current))
			for _, id := range current {
				present[id] = struct{}{}
			}

			for _, roomID := range assignment.RoomIDs {
				room, ok := roomsByID[roomID]
				if !ok {
					return &NotFoundError{Resource: "room", ID: roomID}
				}
				if room.RoomTypeID != block.RoomTypeID {
					return newValidationError("room %d does not belong to room type %d", roomID, block.RoomTypeID)
				}
				if _, dup := present[roomID]; dup {
					continue
				}
				if len(current) >= block.NumberOfRooms {
					continue
				}
				current = append(current, roomID)
				present[roomID] = struct{}{}
				newByBlock[assignment.RoomBlockIndex] = append(newByBlock[assignment.RoomBlockIndex], roomID)
				assignedAny = true

				if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
					Update("status", models.RoomStatusOccupied).Error; err != nil {
					return err
				}
			}

			if err := block.SetRoomIDs(current); err != nil {
				return err
			}
			if err := tx.Model(&models.GroupRoomBlock{}).Where("id = ?", block.ID).
				Update("assigned_room_ids", block.AssignedRoomIDs).Error; err != nil {
				return err
			}
		}

		if assignedAny && group.Status == models.GroupStatusConfirmed {
			group.Status = models.GroupStatusCheckedIn
			if err := tx.Model(&models.GroupReservation{}).Where("id = ?", group.ID).
				Update("status", group.Status).Error; err != nil {
				return err
			}
		}

		if assignedAny {
			folio, err := s.ensureFolio(tx, &group)
			if err != nil {
				return err
			}
			items := newFolioItems(folio.ID, &group, newByBlock)
			for i := range items {
				if err := tx.Create(&items[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &group, nil
}

// ensureFolio opens the group's consolidated folio once, guarded by a lookup
// on (groupID, active).
func (s *GroupService) ensureFolio(tx *gorm.DB, group *models.GroupReservation) (*models.Folio, error) {
	var existing models.Folio
	err := tx.Where("group_id = ? AND status = ?", group.ID, models.FolioStatusActive).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	folio := models.Folio{
		GroupID:     group.ID,
		FolioNumber: uuid.NewString(),
		Status:      models.FolioStatusActive,
		TotalAmount: group.TotalAmount - group.DiscountAmount,
	}
	if err := tx.Create(&folio).Error; err != nil {
		return nil, err
	}
	return &folio, nil
}

// newFolioItems builds one charge line per room assigned in this call, so
// rooms added after the folio opened are still billed. Charges distribute
// (total − discount) proportionally to each block's share of total rooms,
// then evenly across the rooms within the block.
func newFolioItems(folioID uint, group *models.GroupReservation, newByBlock map[int][]uint) []models.FolioItem {
	perRoom := distributeCharges(group.TotalAmount, group.DiscountAmount, group.RoomBlocks)

	var items []models.FolioItem
	for i := range group.RoomBlocks {
		for _, roomID := range newByBlock[i] {
			items = append(items, models.FolioItem{
				FolioID:     folioID,
				RoomID:      roomID,
				Description: fmt.Sprintf("group stay %s to %s", utils.FormatDate(group.CheckIn), utils.FormatDate(group.CheckOut)),
				Amount:      perRoom[i],
			})
		}
	}
	return items
}

// distributeCharges returns the per-room charge for each block: the net
// amount split proportionally to each block's share of total rooms, then
// evenly within the block.
func distributeCharges(totalAmount, discountAmount float64, blocks []models.GroupRoomBlock) []float64 {
	net := totalAmount - discountAmount
	totalRooms := 0
	for _, b := range blocks {
		totalRooms += b.NumberOfRooms
	}

	perRoom := make([]float64, len(blocks))
	if totalRooms == 0 || net <= 0 {
		return perRoom
	}
	for i, b := range blocks {
		blockShare := net * float64(b.NumberOfRooms) / float64(totalRooms)
		perRoom[i] = blockShare / float64(b.NumberOfRooms)
	}
	return perRoom
}

// Cancel releases the group's holds and frees its rooms. Terminal states
// reject any further transition.
func (s *GroupService) Cancel(groupID uint) (*models.GroupReservation, error) {
	return s.finish(groupID, models.GroupStatusCancelled, nil)
}

// CheckOut closes out a checked-in group: status, holds, rooms and folio.
func (s *GroupService) CheckOut(groupID uint) (*models.GroupReservation, error) {
	return s.finish(groupID, models.GroupStatusCheckedOut, func(group *models.GroupReservation) error {
		if group.Status != models.GroupStatusCheckedIn {
			return &ConflictError{Message: "only a checked-in group can check out"}
		}
		return nil
	})
}

func (s *GroupService) finish(groupID uint, target string, guard func(*models.GroupReservation) error) (*models.GroupReservation, error) {
	unlock := s.assignLocks.Lock(fmt.Sprintf("group:%d", groupID))
	defer unlock()

	var group models.GroupReservation
	if err := s.db.Preload("RoomBlocks").First(&group, groupID).Error; err != nil {
		return nil, notFoundOr(err, "group reservation", groupID)
	}
	if group.IsTerminal() {
		return nil, &ConflictError{Message: "group reservation is " + group.Status + " and can no longer change"}
	}
	if guard != nil {
		if err := guard(&group); err != nil {
			return nil, err
		}
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GroupReservation{}).Where("id = ?", group.ID).
			Update("status", target).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.InventoryHold{}).Error; err != nil {
			return err
		}
		for i := range group.RoomBlocks {
			ids := group.RoomBlocks[i].RoomIDs()
			if len(ids) == 0 {
				continue
			}
			if err := tx.Model(&models.Room{}).Where("id IN ?", ids).
				Update("status", models.RoomStatusAvailable).Error; err != nil {
				return err
			}
		}
		if target == models.GroupStatusCheckedOut {
			if err := tx.Model(&models.Folio{}).
				Where("group_id = ? AND status = ?", group.ID, models.FolioStatusActive).
				Update("status", models.FolioStatusClosed).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	group.Status = target
	return &group, nil
}
