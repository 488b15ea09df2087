package dto

import "time"

// APIResponse is the standard envelope for API endpoints.
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// InsertedResponse reports the store-assigned identifier of a new document.
type InsertedResponse struct {
	InsertedID string `json:"inserted_id"`
}

// UpdateResponse reports how many documents a partial update touched.
type UpdateResponse struct {
	Modified int64  `json:"modified"`
	Message  string `json:"message"`
}

// DeleteResponse reports the outcome of a guarded delete. A blocked delete is
// a normal response with Deleted == 0 and an explanatory message, not an
// error.
type DeleteResponse struct {
	Deleted int64  `json:"deleted"`
	Message string `json:"message"`
}

// BulkInsertResponse reports the number of rows imported.
type BulkInsertResponse struct {
	Inserted int64  `json:"inserted"`
	Message  string `json:"message"`
}

// TopCourse is one row of the top-courses ranking.
type TopCourse struct {
	CourseID        int64  `bson:"course_id" json:"course_id"`
	CourseName      string `bson:"course_name" json:"course_name"`
	EnrollmentCount int64  `bson:"enrollment_count" json:"enrollment_count"`
}

// StudentCourseRow is one row of the joined students-and-courses report.
type StudentCourseRow struct {
	StudentID  int64  `bson:"student_id" json:"student_id"`
	Name       string `bson:"name" json:"name"`
	CourseID   int64  `bson:"course_id" json:"course_id"`
	CourseName string `bson:"course_name" json:"course_name"`
}
