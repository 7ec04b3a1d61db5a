package routes

import (
	"strings"

	"hotel-ops-server/models"
	"hotel-ops-server/storage"
	"hotel-ops-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers - GET /admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"data": users,
		"meta": iris.Map{"page": page, "per_page": perPage, "total": total},
	})
}

// AdminChangeUserRole - PATCH /admin/users/{id}/role
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, utils.ErrCodeValidation, "invalid user ID", ctx)
		return
	}

	var body struct {
		Role string `json:"role" validate:"required,oneof=staff manager admin super_admin"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": user})
}

// AdminOpsStats - GET /admin/stats
// Counts per entity plus reservation and group breakdowns by status, for the
// operations dashboard.
func AdminOpsStats(ctx iris.Context) {
	var hotels, roomTypes, rooms, reservations, groups int64
	storage.DB.Model(&models.Hotel{}).Count(&hotels)
	storage.DB.Model(&models.RoomType{}).Count(&roomTypes)
	storage.DB.Model(&models.Room{}).Count(&rooms)
	storage.DB.Model(&models.Reservation{}).Count(&reservations)
	storage.DB.Model(&models.GroupReservation{}).Count(&groups)

	reservationsByStatus := countByStatus(&models.Reservation{})
	groupsByStatus := countByStatus(&models.GroupReservation{})

	var activeHolds int64
	storage.DB.Model(&models.InventoryHold{}).Count(&activeHolds)

	ctx.JSON(iris.Map{
		"hotels":               hotels,
		"roomTypes":            roomTypes,
		"rooms":                rooms,
		"reservations":         reservations,
		"reservationsByStatus": reservationsByStatus,
		"groupReservations":    groups,
		"groupsByStatus":       groupsByStatus,
		"activeHolds":          activeHolds,
	})
}

func countByStatus(model interface{}) map[string]int64 {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	storage.DB.Model(model).Select("status, count(*) as count").Group("status").Scan(&rows)

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out
}
