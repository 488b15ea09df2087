package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/services"
	"github.com/yusuf/schoolregistry/internal/middleware"
	"github.com/yusuf/schoolregistry/internal/pkg/helpers"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

// StudentController handles student endpoints, including the CSV import and
// export flows.
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController.
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// CreateStudent handles POST /students.
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid student data", err.Error())
		return
	}

	resp, err := c.studentService.CreateStudent(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// CreateStudentForm handles POST /students/form. The identifier is assigned
// server-side; the body may be a form or JSON.
func (c *StudentController) CreateStudentForm(ctx *gin.Context) {
	var req dto.StudentFormRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondBadRequest(ctx, "Invalid student data", err.Error())
		return
	}

	student, err := c.studentService.CreateStudentFromForm(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, student)
}

// GetStudents handles GET /students.
func (c *StudentController) GetStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// GetStudentsPaginated handles GET /students/paginated.
func (c *StudentController) GetStudentsPaginated(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	students, err := c.studentService.ListStudentsPaginated(ctx, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// SearchStudents handles GET /students/search/:name.
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	students, err := c.studentService.SearchStudents(ctx, ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// FilterStudents handles GET /students/filter?min_age=&sort=.
func (c *StudentController) FilterStudents(ctx *gin.Context) {
	minAge, err := strconv.Atoi(ctx.DefaultQuery("min_age", "0"))
	if err != nil {
		respondBadRequest(ctx, "Invalid filter", "min_age must be a valid number")
		return
	}
	order := ctx.DefaultQuery("sort", "asc")

	students, err := c.studentService.FilterStudentsByAge(ctx, minAge, order)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// GetStudent handles GET /students/:id.
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student)
}

// UpdateStudent handles PUT /students/:id.
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid update data", err.Error())
		return
	}

	resp, err := c.studentService.UpdateStudent(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// DeleteStudent handles DELETE /students/:id. A delete blocked by an
// enrollment is still a 200 with an explanatory message.
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.studentService.DeleteStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// UploadCSV handles POST /students/upload-csv with a multipart "file" part.
func (c *StudentController) UploadCSV(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		respondBadRequest(ctx, "Missing CSV file", "request must carry a multipart 'file' part")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(ctx, "Unreadable CSV file", err.Error())
		return
	}
	defer file.Close()

	resp, err := c.studentService.ImportCSV(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, resp)
}

// ExportCSV handles GET /students/export, streaming all students as a CSV
// attachment.
func (c *StudentController) ExportCSV(ctx *gin.Context) {
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="students.csv"`)
	ctx.Status(http.StatusOK)

	if err := c.studentService.ExportCSV(ctx, ctx.Writer); err != nil {
		// The status line is already out, so the error can only be logged.
		logger.Error().Err(err).Msg("Failed to stream student CSV export")
	}
}
