package routes

import (
	"errors"

	"hotel-ops-server/models"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Stars         int    `json:"stars" validate:"required,min=1,max=5"`
	Title         string `json:"title" validate:"max=100"`
	Body          string `json:"body" validate:"max=1000"`
	ReservationID uint   `json:"reservationID" validate:"required"`
}

// ListHotelReviews returns a hotel's reviews with the average rating.
func ListHotelReviews(ctx iris.Context) {
	hotelID := ctx.Params().GetUintDefault("hotelID", 0)
	if hotelID == 0 {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid hotel ID", ctx)
		return
	}

	var reviews []models.StayReview
	if err := storage.DB.Preload("Guest").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var totalStars float64
	for _, review := range reviews {
		totalStars += float64(review.Stars)
	}
	avgRating := 0.0
	if len(reviews) > 0 {
		avgRating = totalStars / float64(len(reviews))
	}

	ctx.JSON(iris.Map{
		"reviews":       reviews,
		"averageRating": avgRating,
		"reviewCount":   len(reviews),
	})
}

// CreateHotelReview creates a verified review for a guest's completed stay.
// The reservation must belong to the guest, be checked out, and be for a room
// type of this hotel; one review per guest per hotel.
func CreateHotelReview(ctx iris.Context) {
	guestID, ok := ctx.Values().Get("userID").(uint)
	if !ok {
		utils.CreateError(iris.StatusUnauthorized, utils.ErrCodeUnauthorized, "not authenticated", ctx)
		return
	}

	hotelID := ctx.Params().GetUintDefault("hotelID", 0)
	if hotelID == 0 {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid hotel ID", ctx)
		return
	}

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.
		Joins("JOIN room_types ON room_types.id = reservations.room_type_id").
		Where("reservations.id = ? AND reservations.guest_id = ? AND room_types.hotel_id = ? AND reservations.status = ?",
			input.ReservationID, guestID, hotelID, models.ReservationStatusCheckedOut).
		First(&reservation).Error; err != nil {
		utils.CreateError(iris.StatusForbidden, utils.ErrCodeForbidden, "only completed stays at this hotel can be reviewed", ctx)
		return
	}

	var existing models.StayReview
	err := storage.DB.Where("hotel_id = ? AND guest_id = ?", hotelID, guestID).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, utils.ErrCodeConflict, "you have already reviewed this hotel", ctx)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.StayReview{
		HotelID:       hotelID,
		GuestID:       guestID,
		ReservationID: &input.ReservationID,
		Title:         input.Title,
		Body:          input.Body,
		Stars:         input.Stars,
		IsVerified:    true,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}
