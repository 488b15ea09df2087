package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/auth"
	"github.com/yusuf/schoolregistry/internal/app/controllers"
	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/middleware"
	"github.com/yusuf/schoolregistry/internal/pkg/accesslog"
)

// SetupRouter configures all application routes. Everything under /api/v1
// passes the API-key gate; /health and /welcome stay public.
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	gate *auth.Gate,
	recorder accesslog.Recorder,
) {
	router.Use(middleware.RequestLogger(recorder))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/welcome", func(c *gin.Context) {
		name := c.DefaultQuery("name", "student")
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      dto.SuccessResponse{Message: "Welcome to the school registry, " + name},
			Timestamp: time.Now(),
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAPIKey(gate))

	students := v1.Group("/students")
	{
		students.POST("", ctrls.Student.CreateStudent)
		students.GET("", ctrls.Student.GetStudents)
		students.GET("/paginated", ctrls.Student.GetStudentsPaginated)
		students.GET("/filter", ctrls.Student.FilterStudents)
		students.GET("/search/:name", ctrls.Student.SearchStudents)
		students.GET("/not-enrolled", ctrls.Stats.GetNotEnrolledStudents)
		students.GET("/export", ctrls.Student.ExportCSV)
		students.POST("/upload-csv", ctrls.Student.UploadCSV)
		students.POST("/form", ctrls.Student.CreateStudentForm)
		students.GET("/:id", ctrls.Student.GetStudent)
		students.PUT("/:id", ctrls.Student.UpdateStudent)
		students.DELETE("/:id", ctrls.Student.DeleteStudent)
	}

	courses := v1.Group("/courses")
	{
		courses.POST("", ctrls.Course.CreateCourse)
		courses.GET("", ctrls.Course.GetCourses)
		courses.GET("/:name/students", ctrls.Enrollment.GetCourseRosterByName)
	}

	enrollments := v1.Group("/enrollments")
	{
		enrollments.POST("", ctrls.Enrollment.CreateEnrollment)
		enrollments.GET("", ctrls.Enrollment.GetEnrollments)
		enrollments.GET("/course/:courseId", ctrls.Enrollment.GetCourseRoster)
	}

	stats := v1.Group("/stats")
	{
		stats.GET("/grades", ctrls.Stats.GetGradeDistribution)
		stats.GET("/top-courses", ctrls.Stats.GetTopCourses)
	}

	v1.GET("/reports/students-courses", ctrls.Stats.GetStudentsCoursesReport)

	// Minimal gated probe: succeeds only with a valid key.
	v1.GET("/secure/data", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      dto.SuccessResponse{Message: "You have access to protected data"},
			Timestamp: time.Now(),
		})
	})
}
