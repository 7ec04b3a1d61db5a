package services

import (
	"context"
	"fmt"
	"time"

	"hotel-ops-server/models"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService commits individual bookings against the availability
// calculator using the same lock-then-revalidate protocol as group creation.
type ReservationService struct {
	db           *gorm.DB
	availability *AvailabilityService
}

func NewReservationService(db *gorm.DB, availability *AvailabilityService) *ReservationService {
	return &ReservationService{db: db, availability: availability}
}

// CreateReservationInput carries a booking request.
type CreateReservationInput struct {
	RoomTypeID    uint
	GuestID       uint
	CheckIn       time.Time
	CheckOut      time.Time
	NumberOfRooms int
	NumAdults     int
	NumChildren   int
	TotalPrice    float64
	Note          string
}

// CreateReservation validates the request, then re-validates and inserts
// under a room-type row lock so two concurrent bookings cannot both commit
// against the same last rooms.
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	checkIn := utils.NormalizeDate(input.CheckIn)
	checkOut := utils.NormalizeDate(input.CheckOut)
	if err := utils.ValidateRange(checkIn, checkOut); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if input.NumberOfRooms < 1 {
		return nil, newValidationError("numberOfRooms must be at least 1")
	}

	lockKey := fmt.Sprintf("booking:roomtype:%d", input.RoomTypeID)
	acquired, err := storage.AcquireLock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, &ConflictError{Message: "another booking for this room type is in progress, retry"}
	}
	defer storage.ReleaseLock(ctx, lockKey)

	reservation := &models.Reservation{
		RoomTypeID:    input.RoomTypeID,
		GuestID:       input.GuestID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		NumberOfRooms: input.NumberOfRooms,
		NumAdults:     input.NumAdults,
		NumChildren:   input.NumChildren,
		TotalPrice:    input.TotalPrice,
		Status:        models.ReservationStatusConfirmed,
		Note:          input.Note,
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var rt models.RoomType
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rt, input.RoomTypeID).Error; err != nil {
			return notFoundOr(err, "room type", input.RoomTypeID)
		}

		days, err := s.availability.DailyAvailability(input.RoomTypeID, checkIn, checkOut)
		if err != nil {
			return err
		}
		capErr := &CapacityError{}
		for _, day := range days {
			if input.NumberOfRooms > day.Available() {
				capErr.Errors = append(capErr.Errors, fmt.Sprintf(
					"room type %q has only %d of %d requested rooms available on %s",
					rt.Name, day.Available(), input.NumberOfRooms, utils.FormatDate(day.Date)))
			}
		}
		if len(capErr.Errors) > 0 {
			capErr.Details = []BlockDetail{{
				RoomTypeID:     rt.ID,
				RoomTypeName:   rt.Name,
				Requested:      input.NumberOfRooms,
				TotalInventory: rt.TotalInventory,
			}}
			return capErr
		}

		return tx.Create(reservation).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return reservation, nil
}

// reservationTransitions lists the permitted status changes. Status drives
// inclusion in committed occupancy; rows are never deleted here.
var reservationTransitions = map[string][]string{
	models.ReservationStatusConfirmed: {
		models.ReservationStatusCheckedIn,
		models.ReservationStatusCancelled,
		models.ReservationStatusNoShow,
	},
	models.ReservationStatusCheckedIn: {
		models.ReservationStatusCheckedOut,
	},
}

// UpdateStatus applies one status transition.
func (s *ReservationService) UpdateStatus(id uint, target string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, id).Error; err != nil {
		return nil, notFoundOr(err, "reservation", id)
	}

	allowed := false
	for _, next := range reservationTransitions[reservation.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &ConflictError{Message: fmt.Sprintf(
			"cannot transition reservation from %s to %s", reservation.Status, target)}
	}

	if err := s.db.Model(&reservation).Update("status", target).Error; err != nil {
		return nil, err
	}
	reservation.Status = target
	return &reservation, nil
}
