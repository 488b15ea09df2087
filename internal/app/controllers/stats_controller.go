package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/services"
	"github.com/yusuf/schoolregistry/internal/middleware"
)

// StatsController handles the aggregated views and reports.
type StatsController struct {
	statsService *services.StatsService
}

// NewStatsController creates a new StatsController.
func NewStatsController(statsService *services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// GetGradeDistribution handles GET /stats/grades.
func (c *StatsController) GetGradeDistribution(ctx *gin.Context) {
	distribution, err := c.statsService.GradeDistribution(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, distribution)
}

// GetTopCourses handles GET /stats/top-courses.
func (c *StatsController) GetTopCourses(ctx *gin.Context) {
	courses, err := c.statsService.TopCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, courses)
}

// GetStudentsCoursesReport handles GET /reports/students-courses.
func (c *StatsController) GetStudentsCoursesReport(ctx *gin.Context) {
	rows, err := c.statsService.StudentsWithCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, rows)
}

// GetNotEnrolledStudents handles GET /students/not-enrolled.
func (c *StatsController) GetNotEnrolledStudents(ctx *gin.Context) {
	students, err := c.statsService.NotEnrolledStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}
