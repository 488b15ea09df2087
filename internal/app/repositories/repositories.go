package repositories

import "github.com/yusuf/schoolregistry/internal/store"

// Repositories holds all repository implementations.
type Repositories struct {
	Student    *StudentRepository
	Course     *CourseRepository
	Enrollment *EnrollmentRepository
	AccessLog  *AccessLogRepository
}

// NewRepositories creates all repositories against the given database.
func NewRepositories(db store.Database) *Repositories {
	return &Repositories{
		Student:    NewStudentRepository(db),
		Course:     NewCourseRepository(db),
		Enrollment: NewEnrollmentRepository(db),
		AccessLog:  NewAccessLogRepository(db),
	}
}
