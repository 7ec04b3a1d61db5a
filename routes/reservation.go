package routes

import (
	"strconv"

	"hotel-ops-server/models"
	"hotel-ops-server/services"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateReservationInput struct {
	RoomTypeID    uint    `json:"roomTypeID" validate:"required"`
	CheckInDate   string  `json:"checkInDate" validate:"required"`
	CheckOutDate  string  `json:"checkOutDate" validate:"required"`
	NumberOfRooms int     `json:"numberOfRooms" validate:"required,min=1"`
	NumAdults     int     `json:"numAdults" validate:"min=0"`
	NumChildren   int     `json:"numChildren" validate:"min=0"`
	TotalPrice    float64 `json:"totalPrice" validate:"min=0"`
	Note          string  `json:"note"`
}

// CreateReservation books rooms of one type, re-validating availability
// under a room-type lock before committing.
func CreateReservation(ctx iris.Context) {
	guestID := ctx.Values().Get("userID").(uint)

	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	checkIn, err := utils.ParseDate(input.CheckInDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, err.Error(), ctx)
		return
	}
	checkOut, err := utils.ParseDate(input.CheckOutDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, err.Error(), ctx)
		return
	}

	reservation, svcErr := reservationSvc.CreateReservation(ctx.Request().Context(), services.CreateReservationInput{
		RoomTypeID:    input.RoomTypeID,
		GuestID:       guestID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		NumberOfRooms: input.NumberOfRooms,
		NumAdults:     input.NumAdults,
		NumChildren:   input.NumChildren,
		TotalPrice:    input.TotalPrice,
		Note:          input.Note,
	})
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(reservation)
}

type UpdateReservationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed checked-in checked-out cancelled no-show"`
}

// UpdateReservationStatus applies one status transition. Status drives
// whether the reservation counts toward committed occupancy.
func UpdateReservationStatus(ctx iris.Context) {
	idStr := ctx.Params().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid reservation ID", ctx)
		return
	}

	var input UpdateReservationStatusInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	reservation, svcErr := reservationSvc.UpdateStatus(uint(id), input.Status)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(reservation)
}

// GetReservationsByRoomType lists reservations on one calendar, newest first.
func GetReservationsByRoomType(ctx iris.Context) {
	roomTypeID := ctx.Params().Get("roomTypeID")

	var reservations []models.Reservation
	res := storage.DB.Preload("RoomType").Where("room_type_id = ?", roomTypeID).
		Order("created_at DESC").Find(&reservations)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(reservations)
}
