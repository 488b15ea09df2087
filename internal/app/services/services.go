// Package services holds the business rules between the HTTP controllers
// and the repositories: input validation, identifier allocation, guarded
// deletes, and the CSV transfer flows.
package services

import "github.com/yusuf/schoolregistry/internal/app/repositories"

// Services holds all service implementations.
type Services struct {
	Student    *StudentService
	Course     *CourseService
	Enrollment *EnrollmentService
	Stats      *StatsService
}

// NewServices creates all services over the given repositories.
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		Student:    NewStudentService(repos.Student),
		Course:     NewCourseService(repos.Course),
		Enrollment: NewEnrollmentService(repos.Enrollment, repos.Course),
		Stats:      NewStatsService(repos.Student, repos.Enrollment),
	}
}
