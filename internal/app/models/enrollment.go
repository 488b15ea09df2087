package models

// Enrollment is the many-to-many join between students and courses. The pair
// has no identity of its own beyond the store-assigned document id.
type Enrollment struct {
	DocumentID string `bson:"-" json:"_id,omitempty"`

	StudentID int64 `bson:"student_id" json:"student_id"`
	CourseID  int64 `bson:"course_id" json:"course_id"`
}
