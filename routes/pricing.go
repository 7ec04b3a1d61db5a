package routes

import (
	"strconv"

	"hotel-ops-server/models"
	"hotel-ops-server/services"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

// GetResolvedPrice resolves prices for a single date (?date=) or a half-open
// range (?startDate=&endDate=). Each day reports which source won: manual,
// dynamic or base.
func GetResolvedPrice(ctx iris.Context) {
	roomTypeIDStr := ctx.Params().Get("roomTypeID")
	roomTypeID, err := strconv.ParseUint(roomTypeIDStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid room type ID", ctx)
		return
	}

	if dateStr := ctx.URLParam("date"); dateStr != "" {
		date, parseErr := utils.ParseDate(dateStr)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, parseErr.Error(), ctx)
			return
		}
		price, svcErr := pricingSvc.PriceForDate(uint(roomTypeID), date)
		if svcErr != nil {
			handleServiceError(svcErr, ctx)
			return
		}
		ctx.JSON(pricePayload(*price))
		return
	}

	startStr := ctx.URLParam("startDate")
	endStr := ctx.URLParam("endDate")
	if startStr == "" || endStr == "" {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "date or startDate/endDate is required", ctx)
		return
	}
	start, parseErr := utils.ParseDate(startStr)
	if parseErr != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, parseErr.Error(), ctx)
		return
	}
	end, parseErr := utils.ParseDate(endStr)
	if parseErr != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, parseErr.Error(), ctx)
		return
	}

	prices, svcErr := pricingSvc.PriceForRange(uint(roomTypeID), start, end)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}

	payload := make(map[string]iris.Map, len(prices))
	for _, p := range prices {
		payload[utils.FormatDate(p.Date)] = pricePayload(p)
	}
	ctx.JSON(iris.Map{"roomTypeID": roomTypeID, "prices": payload})
}

func pricePayload(p services.ResolvedPrice) iris.Map {
	payload := iris.Map{
		"date":   utils.FormatDate(p.Date),
		"source": p.Source,
	}
	if p.OccupancyPercent != nil {
		payload["occupancyPercent"] = *p.OccupancyPercent
	}
	if p.AdultRate != nil {
		payload["adultRate"] = *p.AdultRate
	}
	if p.ChildRate != nil {
		payload["childRate"] = *p.ChildRate
	}
	if p.BaseRate != nil {
		payload["baseRate"] = *p.BaseRate
	}
	if p.ExtraGuestRate != nil {
		payload["extraGuestRate"] = *p.ExtraGuestRate
	}
	return payload
}

// GetPricingRule returns the room type's dynamic pricing rule, creating a
// disabled default on first read.
func GetPricingRule(ctx iris.Context) {
	roomTypeIDStr := ctx.Params().Get("roomTypeID")
	roomTypeID, err := strconv.ParseUint(roomTypeIDStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid room type ID", ctx)
		return
	}

	rule, svcErr := pricingSvc.GetOrCreateRule(uint(roomTypeID))
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(rulePayload(rule))
}

type UpdatePricingRuleInput struct {
	Enabled        bool                   `json:"enabled"`
	DemandScale    float64                `json:"demandScale" validate:"min=0"`
	RateRoundOff   int                    `json:"rateRoundOff" validate:"min=1"`
	OccupancyRules []models.OccupancyTier `json:"occupancyRules"`
}

// UpdatePricingRule replaces the rule configuration.
func UpdatePricingRule(ctx iris.Context) {
	roomTypeIDStr := ctx.Params().Get("roomTypeID")
	roomTypeID, err := strconv.ParseUint(roomTypeIDStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid room type ID", ctx)
		return
	}

	var input UpdatePricingRuleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	rule, svcErr := pricingSvc.UpdateRule(uint(roomTypeID), input.Enabled, input.DemandScale, input.RateRoundOff, input.OccupancyRules)
	if svcErr != nil {
		handleServiceError(svcErr, ctx)
		return
	}
	ctx.JSON(rulePayload(rule))
}

func rulePayload(rule *models.DynamicPricingRule) iris.Map {
	return iris.Map{
		"roomTypeID":     rule.RoomTypeID,
		"enabled":        rule.Enabled,
		"demandScale":    rule.DemandScale,
		"rateRoundOff":   rule.RateRoundOff,
		"occupancyRules": rule.Tiers(),
	}
}
