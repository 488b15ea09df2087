package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/services"
	"github.com/yusuf/schoolregistry/internal/middleware"
)

// CourseController handles course endpoints.
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse handles POST /courses.
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid course data", err.Error())
		return
	}

	course, err := c.courseService.CreateCourse(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, course)
}

// GetCourses handles GET /courses.
func (c *CourseController) GetCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, courses)
}
