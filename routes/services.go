package routes

import (
	"errors"
	"log"

	"hotel-ops-server/services"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

// Package-level service singletons, wired once from main after storage is up.
var (
	availabilitySvc *services.AvailabilityService
	pricingSvc      *services.PricingService
	rateSvc         *services.RateService
	groupSvc        *services.GroupService
	reservationSvc  *services.ReservationService
)

// InitServices wires the core engines into the handlers.
func InitServices(
	availability *services.AvailabilityService,
	pricing *services.PricingService,
	rates *services.RateService,
	groups *services.GroupService,
	reservations *services.ReservationService,
) {
	availabilitySvc = availability
	pricingSvc = pricing
	rateSvc = rates
	groupSvc = groups
	reservationSvc = reservations
}

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Capacity failures itemize every offending date; internal failures never
// leak detail.
func handleServiceError(err error, ctx iris.Context) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var capacityErr *services.CapacityError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, validationErr.Message, ctx)
	case errors.As(err, &notFoundErr):
		utils.CreateError(iris.StatusNotFound, utils.ErrCodeNotFound, notFoundErr.Error(), ctx)
	case errors.As(err, &capacityErr):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{
			"error":   utils.ErrCodeCapacity,
			"message": "requested rooms exceed availability",
			"errors":  capacityErr.Errors,
			"details": capacityErr.Details,
		})
	case errors.As(err, &conflictErr):
		utils.CreateError(iris.StatusConflict, utils.ErrCodeConflict, conflictErr.Message, ctx)
	default:
		log.Printf("internal error: %v", err)
		utils.CreateInternalServerError(ctx)
	}
}
