package routes

import (
	"fmt"

	"hotel-ops-server/services"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

type SetManualRatesInput struct {
	RoomTypeID     uint     `json:"roomTypeID" validate:"required"`
	Dates          []string `json:"dates" validate:"required,min=1"`
	AdultRate      *float64 `json:"adultRate"`
	ChildRate      *float64 `json:"childRate"`
	BaseRate       *float64 `json:"baseRate"`
	ExtraGuestRate *float64 `json:"extraGuestRate"`
}

// SetManualRates bulk-upserts date-scoped rate overrides for one room type.
func SetManualRates(ctx iris.Context) {
	var input SetManualRatesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result, err := rateSvc.SetRates(input.RoomTypeID, input.Dates, services.RateFields{
		AdultRate:      input.AdultRate,
		ChildRate:      input.ChildRate,
		BaseRate:       input.BaseRate,
		ExtraGuestRate: input.ExtraGuestRate,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message":      fmt.Sprintf("%d rates created, %d updated", result.Created, result.Updated),
		"created":      result.Created,
		"updated":      result.Updated,
		"updatedRates": result.Rates,
	})
}
