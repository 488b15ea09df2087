package services

import (
	"context"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

// EnrollmentService implements enrollment creation and the course roster
// lookup.
type EnrollmentService struct {
	enrollmentRepo *repositories.EnrollmentRepository
	courseRepo     *repositories.CourseRepository
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(enrollmentRepo *repositories.EnrollmentRepository, courseRepo *repositories.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

// Enroll records that a student takes a course. Both sides must exist; the
// pair itself is not deduplicated.
func (s *EnrollmentService) Enroll(ctx context.Context, req dto.CreateEnrollmentRequest) (*dto.InsertedResponse, error) {
	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
	}

	insertedID, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("student_id", req.StudentID).Int64("course_id", req.CourseID).Msg("Student enrolled")
	return &dto.InsertedResponse{InsertedID: insertedID}, nil
}

// ListEnrollments retrieves all enrollments.
func (s *EnrollmentService) ListEnrollments(ctx context.Context) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.GetAll(ctx)
}

// StudentsInCourse returns the students enrolled in the course with the
// given identifier. An empty roster reports not found; a missing course and
// a course nobody takes are indistinguishable here.
func (s *EnrollmentService) StudentsInCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return s.enrollmentRepo.StudentsInCourse(ctx, courseID)
}

// StudentsInCourseByName resolves a course by name and returns the students
// enrolled in it.
func (s *EnrollmentService) StudentsInCourseByName(ctx context.Context, courseName string) ([]*models.Student, error) {
	course, err := s.courseRepo.GetByName(ctx, courseName)
	if err != nil {
		return nil, err
	}
	return s.enrollmentRepo.StudentsInCourse(ctx, course.CourseID)
}
