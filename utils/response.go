package utils

import (
	"github.com/kataras/iris/v12"
)

// Error codes surfaced to clients. Internal detail never leaks through
// ErrCodeInternal responses.
const (
	ErrCodeValidation   = "validation_error"
	ErrCodeNotFound     = "not_found"
	ErrCodeCapacity     = "capacity_exceeded"
	ErrCodeConflict     = "conflict"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeInternal     = "internal_error"
)

func CreateError(statusCode int, code string, message string, ctx iris.Context) {
	ctx.StatusCode(statusCode)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, ErrCodeNotFound, "resource not found", ctx)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, ErrCodeInternal, "an unexpected error occurred", ctx)
}

// HandleValidationErrors converts iris ReadJSON/validator failures into a 400
// response listing the offending fields.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(interface{ Errors() []string }); ok {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": ErrCodeValidation, "message": "validation failed", "fields": errs.Errors()})
		return
	}
	CreateError(iris.StatusBadRequest, ErrCodeValidation, err.Error(), ctx)
}
