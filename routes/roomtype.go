package routes

import (
	"strconv"

	"hotel-ops-server/models"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

// Room type catalog endpoints. The catalog is owned by hotel settings; the
// core engines only ever read it.

type CreateHotelInput struct {
	Name     string `json:"name" validate:"required"`
	Timezone string `json:"timezone"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

func CreateHotel(ctx iris.Context) {
	ownerID := ctx.Values().Get("userID").(uint)

	var input CreateHotelInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hotel := models.Hotel{
		OwnerID:  ownerID,
		Name:     input.Name,
		Timezone: input.Timezone,
		City:     input.City,
		Country:  input.Country,
	}
	if err := storage.DB.Create(&hotel).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(hotel)
}

type CreateRoomTypeInput struct {
	HotelID        uint    `json:"hotelID" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	TotalInventory int     `json:"totalInventory" validate:"min=0"`
	PriceModel     string  `json:"priceModel" validate:"required,oneof=perPerson perRoom"`
	MaxOccupancy   int     `json:"maxOccupancy" validate:"min=1"`
	AdultRate      float64 `json:"adultRate" validate:"min=0"`
	ChildRate      float64 `json:"childRate" validate:"min=0"`
	BaseRate       float64 `json:"baseRate" validate:"min=0"`
	ExtraGuestRate float64 `json:"extraGuestRate" validate:"min=0"`
}

func CreateRoomType(ctx iris.Context) {
	var input CreateRoomTypeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var hotel models.Hotel
	if err := storage.DB.First(&hotel, input.HotelID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, utils.ErrCodeNotFound, "hotel not found", ctx)
		return
	}

	roomType := models.RoomType{
		HotelID:        input.HotelID,
		Name:           input.Name,
		TotalInventory: input.TotalInventory,
		PriceModel:     input.PriceModel,
		MaxOccupancy:   input.MaxOccupancy,
		AdultRate:      input.AdultRate,
		ChildRate:      input.ChildRate,
		BaseRate:       input.BaseRate,
		ExtraGuestRate: input.ExtraGuestRate,
	}
	if err := storage.DB.Create(&roomType).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(roomType)
}

func GetHotelRoomTypes(ctx iris.Context) {
	hotelID := ctx.Params().Get("hotelID")

	var roomTypes []models.RoomType
	res := storage.DB.Where("hotel_id = ?", hotelID).Order("name ASC").Find(&roomTypes)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(roomTypes)
}

type CreateRoomInput struct {
	RoomTypeID uint   `json:"roomTypeID" validate:"required"`
	RoomNumber string `json:"roomNumber" validate:"required"`
	Floor      string `json:"floor"`
}

func CreateRoom(ctx iris.Context) {
	var input CreateRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var roomType models.RoomType
	if err := storage.DB.First(&roomType, input.RoomTypeID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, utils.ErrCodeNotFound, "room type not found", ctx)
		return
	}

	room := models.Room{
		RoomTypeID: input.RoomTypeID,
		RoomNumber: input.RoomNumber,
		Floor:      input.Floor,
		Status:     models.RoomStatusAvailable,
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(room)
}

func GetRoomsByRoomType(ctx iris.Context) {
	roomTypeIDStr := ctx.Params().Get("roomTypeID")
	if _, err := strconv.ParseUint(roomTypeIDStr, 10, 32); err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid room type ID", ctx)
		return
	}

	var rooms []models.Room
	res := storage.DB.Where("room_type_id = ?", roomTypeIDStr).Order("room_number ASC").Find(&rooms)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(rooms)
}
