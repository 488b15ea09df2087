package services

import (
	"context"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

// CourseService implements course creation and retrieval. Courses are never
// updated or removed once created.
type CourseService struct {
	courseRepo *repositories.CourseRepository
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo *repositories.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

// CreateCourse inserts a course with an allocator-assigned identifier and
// returns the created record.
func (s *CourseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		CourseName: req.CourseName,
		Instructor: req.Instructor,
	}

	insertedID, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.DocumentID = insertedID

	logger.Info().Int64("course_id", course.CourseID).Str("course_name", course.CourseName).Msg("Course created")
	return course, nil
}

// ListCourses retrieves all courses.
func (s *CourseService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}
