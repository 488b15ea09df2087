package services

import (
	"context"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
)

// StatsService exposes the derived views computed by aggregation: grade
// distribution, course rankings, and the cross-entity reports.
type StatsService struct {
	studentRepo    *repositories.StudentRepository
	enrollmentRepo *repositories.EnrollmentRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(studentRepo *repositories.StudentRepository, enrollmentRepo *repositories.EnrollmentRepository) *StatsService {
	return &StatsService{
		studentRepo:    studentRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// GradeDistribution returns the number of students holding each grade.
func (s *StatsService) GradeDistribution(ctx context.Context) (map[string]int64, error) {
	return s.studentRepo.GradeDistribution(ctx)
}

// TopCourses returns courses ranked by enrollment count, most enrolled first.
func (s *StatsService) TopCourses(ctx context.Context) ([]dto.TopCourse, error) {
	return s.enrollmentRepo.TopCourses(ctx)
}

// StudentsWithCourses returns one row per enrollment joining student and
// course names.
func (s *StatsService) StudentsWithCourses(ctx context.Context) ([]dto.StudentCourseRow, error) {
	return s.enrollmentRepo.StudentsWithCourses(ctx)
}

// NotEnrolledStudents returns students referenced by no enrollment.
func (s *StatsService) NotEnrolledStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.NotEnrolled(ctx)
}
