package main

import (
	"fmt"
	"log"
	"os"

	"hotel-ops-server/routes"
	"hotel-ops-server/services"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	db := storage.InitializeDB()
	storage.InitializeRedis()

	// Wire the core engines over the shared store
	store := storage.NewStore(db)
	availabilitySvc := services.NewAvailabilityService(store, store, store)
	pricingSvc := services.NewPricingService(store, store, store, availabilitySvc)
	rateSvc := services.NewRateService(store, store)
	groupSvc := services.NewGroupService(db, store, availabilitySvc)
	reservationSvc := services.NewReservationService(db, availabilitySvc)
	routes.InitServices(availabilitySvc, pricingSvc, rateSvc, groupSvc, reservationSvc)

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
	}

	hotel := app.Party("/api/hotel")
	{
		hotel.Post("/", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CreateHotel)
		hotel.Get("/{hotelID}/room-types", routes.GetHotelRoomTypes)
		hotel.Get("/{hotelID}/reviews", routes.ListHotelReviews)
		hotel.Post("/{hotelID}/reviews", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateHotelReview)
	}

	roomType := app.Party("/api/room-types")
	{
		roomType.Post("/", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CreateRoomType)
		roomType.Get("/{roomTypeID}/rooms", routes.GetRoomsByRoomType)
		roomType.Post("/rooms", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CreateRoom)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/room-type/{roomTypeID}", routes.GetRoomTypeAvailability)
		availability.Get("/room-type/{roomTypeID}/occupancy", routes.GetRoomTypeOccupancy)
	}

	pricing := app.Party("/api/pricing")
	{
		pricing.Get("/room-type/{roomTypeID}", routes.GetResolvedPrice)
		pricing.Get("/rules/{roomTypeID}", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.GetPricingRule)
		pricing.Put("/rules/{roomTypeID}", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.UpdatePricingRule)
	}

	rates := app.Party("/api/rates")
	{
		rates.Post("/manual", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.SetManualRates)
	}

	reservations := app.Party("/api/reservations")
	{
		reservations.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReservation)
		reservations.Patch("/{id}/status", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.UpdateReservationStatus)
		reservations.Get("/room-type/{roomTypeID}", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.GetReservationsByRoomType)
	}

	groups := app.Party("/api/groups")
	{
		groups.Post("/check-availability", routes.CheckGroupAvailability)
		groups.Post("/", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CreateGroupReservation)
		groups.Get("/{id}", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.GetGroupReservation)
		groups.Post("/{id}/assign-rooms", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.AssignGroupRooms)
		groups.Post("/{id}/checkout", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CheckOutGroupReservation)
		groups.Post("/{id}/cancel", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CancelGroupReservation)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id}/role", routes.AdminChangeUserRole)
		admin.Get("/stats", routes.AdminOpsStats)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
