package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
	"github.com/yusuf/schoolregistry/internal/pkg/doccodec"
	"github.com/yusuf/schoolregistry/internal/store"
)

// CourseRepository handles document-store operations for courses.
type CourseRepository struct {
	courses  store.Collection
	sequence *Sequence
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db store.Database) *CourseRepository {
	courses := db.Collection(store.CoursesCollection)
	return &CourseRepository{
		courses:  courses,
		sequence: NewSequence(courses, "course_id"),
	}
}

// Create allocates a course identifier, inserts the course, and returns the
// store-assigned identifier as text. The course_id is always assigned
// server-side.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (string, error) {
	courseID, err := r.sequence.Next(ctx)
	if err != nil {
		return "", err
	}
	course.CourseID = courseID

	insertedID, err := r.courses.InsertOne(ctx, course)
	if err != nil {
		return "", fmt.Errorf("creating course: %w", err)
	}
	return insertedID, nil
}

// GetAll retrieves every course.
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	docs, err := r.courses.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving courses: %w", err)
	}

	courses := make([]*models.Course, 0, len(docs))
	for _, doc := range docs {
		course, err := courseFromDoc(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// GetByCourseID retrieves a course by domain identifier.
func (r *CourseRepository) GetByCourseID(ctx context.Context, courseID int64) (*models.Course, error) {
	doc, err := r.courses.FindOne(ctx, bson.M{"course_id": courseID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("retrieving course %d: %w", courseID, err)
	}
	return courseFromDoc(doc)
}

// GetByName retrieves a course by name, matching case-insensitively against
// the full name.
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	filter := bson.M{"course_name": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(name) + "$",
		Options: "i",
	}}

	doc, err := r.courses.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("retrieving course %q: %w", name, err)
	}
	return courseFromDoc(doc)
}

// Exists reports whether a course with the given identifier is stored. Used
// for referential checks; the document itself is not normalized or returned.
func (r *CourseRepository) Exists(ctx context.Context, courseID int64) (bool, error) {
	count, err := r.courses.CountDocuments(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return false, fmt.Errorf("checking course %d existence: %w", courseID, err)
	}
	return count > 0, nil
}

func courseFromDoc(doc bson.M) (*models.Course, error) {
	doc = doccodec.Normalize(doc)

	var course models.Course
	if err := decodeDoc(doc, &course); err != nil {
		return nil, err
	}
	course.DocumentID = documentID(doc)
	return &course, nil
}
