package models

// Student defines a student record in the 'students' collection.
type Student struct {
	// DocumentID is the store-assigned identifier, surfaced as text. It is
	// never used for lookups; student_id is the domain key.
	DocumentID string `bson:"-" json:"_id,omitempty"`

	StudentID int64  `bson:"student_id" json:"student_id"`
	Name      string `bson:"name" json:"name"`
	Age       int    `bson:"age" json:"age"`
	Grade     string `bson:"grade" json:"grade"`
	Email     string `bson:"email" json:"email"` // globally unique
}
