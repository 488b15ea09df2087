package models

// Course represents a course in the 'courses' collection. Courses are
// immutable once created and never deleted.
type Course struct {
	DocumentID string `bson:"-" json:"_id,omitempty"`

	CourseID   int64  `bson:"course_id" json:"course_id"`
	CourseName string `bson:"course_name" json:"course_name"`
	Instructor string `bson:"instructor,omitempty" json:"instructor,omitempty"`
}
