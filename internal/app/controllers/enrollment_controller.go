package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/services"
	"github.com/yusuf/schoolregistry/internal/middleware"
)

// EnrollmentController handles enrollment endpoints and the course rosters.
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController.
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// CreateEnrollment handles POST /enrollments.
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid enrollment data", err.Error())
		return
	}

	resp, err := c.enrollmentService.Enroll(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// GetEnrollments handles GET /enrollments.
func (c *EnrollmentController) GetEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ListEnrollments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, enrollments)
}

// GetCourseRoster handles GET /enrollments/course/:courseId.
func (c *EnrollmentController) GetCourseRoster(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	students, err := c.enrollmentService.StudentsInCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// GetCourseRosterByName handles GET /courses/:name/students.
func (c *EnrollmentController) GetCourseRosterByName(ctx *gin.Context) {
	students, err := c.enrollmentService.StudentsInCourseByName(ctx, ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}
