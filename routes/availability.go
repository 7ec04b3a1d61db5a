package routes

import (
	"strconv"

	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

// GetRoomTypeAvailability returns per-day available counts for a half-open
// date range.
func GetRoomTypeAvailability(ctx iris.Context) {
	roomTypeIDStr := ctx.Params().Get("roomTypeID")
	roomTypeID, err := strconv.ParseUint(roomTypeIDStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid room type ID", ctx)
		return
	}

	checkInStr := ctx.URLParam("checkIn")
	checkOutStr := ctx.URLParam("checkOut")
	if checkInStr == "" || checkOutStr == "" {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "checkIn and checkOut are required", ctx)
		return
	}

	checkIn, err := utils.ParseDate(checkInStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, err.Error(), ctx)
		return
	}
	checkOut, err := utils.ParseDate(checkOutStr)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, err.Error(), ctx)
		return
	}

	days, err := availabilitySvc.DailyAvailability(uint(roomTypeID), checkIn, checkOut)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	daily := make(map[string]int, len(days))
	minAvailable := -1
	for _, day := range days {
		daily[utils.FormatDate(day.Date)] = day.Available()
		if minAvailable < 0 || day.Available() < minAvailable {
			minAvailable = day.Available()
		}
	}

	ctx.JSON(iris.Map{
		"overallAvailable":  minAvailable > 0,
		"minAvailableCount": minAvailable,
		"dailyAvailability": daily,
	})
}

// GetRoomTypeOccupancy exposes the occupancy percentage for one date.
func GetRoomTypeOccupancy(ctx iris.Context) {
	roomTypeIDStr := ctx.Params().Get("roomTypeID")
	roomTypeID, err := strconv.ParseUint(roomTypeIDStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid room type ID", ctx)
		return
	}

	date, err := utils.ParseDate(ctx.URLParam("date"))
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, err.Error(), ctx)
		return
	}

	occupancy, err := availabilitySvc.OccupancyPercent(uint(roomTypeID), date)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"roomTypeID":       roomTypeID,
		"date":             utils.FormatDate(date),
		"occupancyPercent": occupancy,
	})
}
