// Package controllers holds the thin HTTP adapters: bind input, call the
// service, shape the envelope. Status-code policy lives in the error
// middleware.
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/services"
)

// Controllers holds all HTTP controllers.
type Controllers struct {
	Student    *StudentController
	Course     *CourseController
	Enrollment *EnrollmentController
	Stats      *StatsController
}

// NewControllers creates all controllers over the given services.
func NewControllers(svcs *services.Services) *Controllers {
	return &Controllers{
		Student:    NewStudentController(svcs.Student),
		Course:     NewCourseController(svcs.Course),
		Enrollment: NewEnrollmentController(svcs.Enrollment),
		Stats:      NewStatsController(svcs.Stats),
	}
}

func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: data, Timestamp: time.Now()})
}

func respondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: data, Timestamp: time.Now()})
}

func respondBadRequest(ctx *gin.Context, message string, details interface{}) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if details != nil {
		errorDetail = errorDetail.WithDetails(details)
	}
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// parseIDParam reads a numeric path parameter, reporting a validation error
// to the client on failure.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(ctx, "Invalid identifier", name+" must be a valid number")
		return 0, false
	}
	return id, true
}
