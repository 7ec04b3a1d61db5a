package routes

import (
	"strconv"

	"hotel-ops-server/models"
	"hotel-ops-server/services"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

type GroupAvailabilityInput struct {
	CheckInDate  string                  `json:"checkInDate" validate:"required"`
	CheckOutDate string                  `json:"checkOutDate" validate:"required"`
	RoomBlocks   []services.BlockRequest `json:"roomBlocks" validate:"required,min=1"`
}

// CheckGroupAvailability validates a multi-block request without writing.
func CheckGroupAvailability(ctx iris.Context) {
	var input GroupAvailabilityInput
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

	result, svcErr := groupSvc.CheckAvailability(input.RoomBlocks, checkIn, checkOut)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(result)
}

type CreateGroupInput struct {
	HotelID        uint                    `json:"hotelID" validate:"required"`
	GroupName      string                  `json:"groupName" validate:"required"`
	ContactEmail   string                  `json:"contactEmail" validate:"omitempty,email"`
	CheckInDate    string                  `json:"checkInDate" validate:"required"`
	CheckOutDate   string                  `json:"checkOutDate" validate:"required"`
	RoomBlocks     []services.BlockRequest `json:"roomBlocks" validate:"required,min=1"`
	TotalAmount    float64                 `json:"totalAmount" validate:"min=0"`
	DiscountAmount float64                 `json:"discountAmount" validate:"min=0"`
}

// CreateGroupReservation validates and commits a group booking with its
// inventory holds in one shot.
func CreateGroupReservation(ctx iris.Context) {
	var input CreateGroupInput
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

	group, svcErr := groupSvc.CreateGroup(ctx.Request().Context(), services.CreateGroupInput{
		HotelID:        input.HotelID,
		GroupName:      input.GroupName,
		ContactEmail:   input.ContactEmail,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Blocks:         input.RoomBlocks,
		TotalAmount:    input.TotalAmount,
		DiscountAmount: input.DiscountAmount,
	})
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(group)
}

// GetGroupReservation returns one group with its blocks.
func GetGroupReservation(ctx iris.Context) {
	id, err := groupIDParam(ctx)
	if err != nil {
		return
	}

	var group models.GroupReservation
	if dbErr := storage.DB.Preload("RoomBlocks").Preload("RoomBlocks.RoomType").First(&group, id).Error; dbErr != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(group)
}

type AssignRoomsInput struct {
	RoomAssignments []services.RoomAssignment `json:"roomAssignments" validate:"required,min=1"`
}

// AssignGroupRooms allocates concrete rooms to a group's blocks and opens
// the consolidated folio on first assignment.
func AssignGroupRooms(ctx iris.Context) {
	id, err := groupIDParam(ctx)
	if err != nil {
		return
	}

	var input AssignRoomsInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	group, svcErr := groupSvc.AssignRooms(id, input.RoomAssignments)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(group)
}

// CheckOutGroupReservation closes out a checked-in group.
func CheckOutGroupReservation(ctx iris.Context) {
	id, err := groupIDParam(ctx)
	if err != nil {
		return
	}

	group, svcErr := groupSvc.CheckOut(id)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(group)
}

// CancelGroupReservation cancels a group and releases its holds.
func CancelGroupReservation(ctx iris.Context) {
	id, err := groupIDParam(ctx)
	if err != nil {
		return
	}

	group, svcErr := groupSvc.Cancel(id)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(group)
}

func groupIDParam(ctx iris.Context) (uint, error) {
	idStr := ctx.Params().Get("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid group ID", ctx)
		return 0, err
	}
	return uint(id), nil
}
