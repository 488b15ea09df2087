package dto

// CreateStudentRequest carries a direct student insert with a caller-supplied
// domain identifier.
type CreateStudentRequest struct {
	StudentID int64  `json:"student_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Age       int    `json:"age" binding:"required,gte=0"`
	Grade     string `json:"grade" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// StudentFormRequest carries a form-style student submission; the identifier
// is allocator-assigned server-side.
type StudentFormRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Age   int    `json:"age" form:"age" binding:"required,gte=0"`
	Grade string `json:"grade" form:"grade" binding:"required"`
	Email string `json:"email" form:"email" binding:"required,email"`
}

// UpdateStudentRequest is a partial update; only non-nil fields are applied.
type UpdateStudentRequest struct {
	Name  *string `json:"name,omitempty"`
	Age   *int    `json:"age,omitempty" binding:"omitempty,gte=0"`
	Grade *string `json:"grade,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// CreateCourseRequest carries a course creation; course_id is
// allocator-assigned server-side.
type CreateCourseRequest struct {
	CourseName string `json:"course_name" binding:"required"`
	Instructor string `json:"instructor,omitempty"`
}

// CreateEnrollmentRequest enrolls an existing student into an existing
// course.
type CreateEnrollmentRequest struct {
	StudentID int64 `json:"student_id" binding:"required"`
	CourseID  int64 `json:"course_id" binding:"required"`
}
