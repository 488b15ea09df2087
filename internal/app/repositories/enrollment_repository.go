package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
	"github.com/yusuf/schoolregistry/internal/pkg/doccodec"
	"github.com/yusuf/schoolregistry/internal/store"
)

// EnrollmentRepository handles document-store operations for enrollments,
// including the joins that relate students and courses.
type EnrollmentRepository struct {
	enrollments store.Collection
	students    store.Collection
	courses     store.Collection
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db store.Database) *EnrollmentRepository {
	return &EnrollmentRepository{
		enrollments: db.Collection(store.EnrollmentsCollection),
		students:    db.Collection(store.StudentsCollection),
		courses:     db.Collection(store.CoursesCollection),
	}
}

// Create verifies both referenced entities exist and then inserts the
// enrollment. The same student and course pair may be enrolled more than
// once; no uniqueness is enforced on the pair.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (string, error) {
	studentCount, err := r.students.CountDocuments(ctx, bson.M{"student_id": enrollment.StudentID})
	if err != nil {
		return "", fmt.Errorf("checking student %d: %w", enrollment.StudentID, err)
	}
	if studentCount == 0 {
		return "", apperrors.ErrStudentNotFound
	}

	courseCount, err := r.courses.CountDocuments(ctx, bson.M{"course_id": enrollment.CourseID})
	if err != nil {
		return "", fmt.Errorf("checking course %d: %w", enrollment.CourseID, err)
	}
	if courseCount == 0 {
		return "", apperrors.ErrCourseNotFound
	}

	insertedID, err := r.enrollments.InsertOne(ctx, enrollment)
	if err != nil {
		return "", fmt.Errorf("creating enrollment: %w", err)
	}
	return insertedID, nil
}

// GetAll retrieves every enrollment.
func (r *EnrollmentRepository) GetAll(ctx context.Context) ([]*models.Enrollment, error) {
	docs, err := r.enrollments.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving enrollments: %w", err)
	}

	enrollments := make([]*models.Enrollment, 0, len(docs))
	for _, doc := range docs {
		doc = doccodec.Normalize(doc)

		var enrollment models.Enrollment
		if err := decodeDoc(doc, &enrollment); err != nil {
			return nil, err
		}
		enrollment.DocumentID = documentID(doc)
		enrollments = append(enrollments, &enrollment)
	}
	return enrollments, nil
}

// StudentsInCourse returns the full student documents enrolled in the given
// course. An empty join result is reported as not found, whether the course
// is missing or merely has no enrollments.
func (r *EnrollmentRepository) StudentsInCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	pipeline := store.Pipeline{
		{"$match": bson.M{"course_id": courseID}},
		{"$lookup": bson.M{
			"from":         store.StudentsCollection,
			"localField":   "student_id",
			"foreignField": "student_id",
			"as":           "student",
		}},
		{"$unwind": "$student"},
		{"$replaceRoot": bson.M{"newRoot": "$student"}},
	}

	docs, err := r.enrollments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("retrieving course %d roster: %w", courseID, err)
	}
	if len(docs) == 0 {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("No students found for course %d", courseID))
	}
	return studentsFromDocs(docs), nil
}

// TopCourses returns courses ranked by enrollment count, most enrolled
// first. Courses without enrollments are not listed.
func (r *EnrollmentRepository) TopCourses(ctx context.Context) ([]dto.TopCourse, error) {
	pipeline := store.Pipeline{
		{"$group": bson.M{"_id": "$course_id", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$lookup": bson.M{
			"from":         store.CoursesCollection,
			"localField":   "_id",
			"foreignField": "course_id",
			"as":           "course",
		}},
		{"$unwind": "$course"},
		{"$project": bson.M{
			"_id":              0,
			"course_id":        "$_id",
			"course_name":      "$course.course_name",
			"enrollment_count": "$count",
		}},
	}

	docs, err := r.enrollments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ranking courses: %w", err)
	}

	courses := make([]dto.TopCourse, 0, len(docs))
	for _, doc := range docs {
		courseID, _ := asInt64(doc["course_id"])
		enrollmentCount, _ := asInt64(doc["enrollment_count"])
		name, _ := doc["course_name"].(string)
		courses = append(courses, dto.TopCourse{
			CourseID:        courseID,
			CourseName:      name,
			EnrollmentCount: enrollmentCount,
		})
	}
	return courses, nil
}

// StudentsWithCourses returns one row per enrollment joining the student
// name with the course name.
func (r *EnrollmentRepository) StudentsWithCourses(ctx context.Context) ([]dto.StudentCourseRow, error) {
	pipeline := store.Pipeline{
		{"$lookup": bson.M{
			"from":         store.StudentsCollection,
			"localField":   "student_id",
			"foreignField": "student_id",
			"as":           "student",
		}},
		{"$unwind": "$student"},
		{"$lookup": bson.M{
			"from":         store.CoursesCollection,
			"localField":   "course_id",
			"foreignField": "course_id",
			"as":           "course",
		}},
		{"$unwind": "$course"},
		{"$project": bson.M{
			"_id":         0,
			"student_id":  "$student.student_id",
			"name":        "$student.name",
			"course_id":   "$course.course_id",
			"course_name": "$course.course_name",
		}},
	}

	docs, err := r.enrollments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("joining students and courses: %w", err)
	}

	rows := make([]dto.StudentCourseRow, 0, len(docs))
	for _, doc := range docs {
		studentID, _ := asInt64(doc["student_id"])
		courseID, _ := asInt64(doc["course_id"])
		name, _ := doc["name"].(string)
		courseName, _ := doc["course_name"].(string)
		rows = append(rows, dto.StudentCourseRow{
			StudentID:  studentID,
			Name:       name,
			CourseID:   courseID,
			CourseName: courseName,
		})
	}
	return rows, nil
}
