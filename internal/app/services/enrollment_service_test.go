package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
)

func TestEnrollRequiresExistingStudentAndCourse(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	createStudent(t, svcs.Student, 1, "Ada", 20, "A", "ada@example.com")
	courseID := createCourse(t, svcs.Course, "Algorithms")

	_, err := svcs.Enrollment.Enroll(ctx, dto.CreateEnrollmentRequest{StudentID: 99, CourseID: courseID})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = svcs.Enrollment.Enroll(ctx, dto.CreateEnrollmentRequest{StudentID: 1, CourseID: 99})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	resp, err := svcs.Enrollment.Enroll(ctx, dto.CreateEnrollmentRequest{StudentID: 1, CourseID: courseID})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.InsertedID)
}

func TestStudentsInCourseByName(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	createStudent(t, svcs.Student, 1, "Ada", 20, "A", "ada@example.com")
	createStudent(t, svcs.Student, 2, "Alan", 24, "A", "alan@example.com")
	courseID := createCourse(t, svcs.Course, "Algorithms")

	_, err := svcs.Enrollment.Enroll(ctx, dto.CreateEnrollmentRequest{StudentID: 1, CourseID: courseID})
	require.NoError(t, err)

	roster, err := svcs.Enrollment.StudentsInCourseByName(ctx, "Algorithms")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Ada", roster[0].Name)
}

func TestStudentsInCourseByNameMissingCourse(t *testing.T) {
	svcs := newTestServices(t)

	_, err := svcs.Enrollment.StudentsInCourseByName(context.Background(), "Basket Weaving")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestStudentsInCourseByNameNoEnrollments(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	createCourse(t, svcs.Course, "Algorithms")

	_, err := svcs.Enrollment.StudentsInCourseByName(ctx, "Algorithms")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStatsViews(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	createStudent(t, svcs.Student, 1, "Ada", 20, "A", "ada@example.com")
	createStudent(t, svcs.Student, 2, "Alan", 24, "A", "alan@example.com")
	createStudent(t, svcs.Student, 3, "Grace", 22, "B", "grace@example.com")
	algorithms := createCourse(t, svcs.Course, "Algorithms")
	databases := createCourse(t, svcs.Course, "Databases")

	for _, pair := range []dto.CreateEnrollmentRequest{
		{StudentID: 1, CourseID: algorithms},
		{StudentID: 2, CourseID: algorithms},
		{StudentID: 1, CourseID: databases},
	} {
		_, err := svcs.Enrollment.Enroll(ctx, pair)
		require.NoError(t, err)
	}

	distribution, err := svcs.Stats.GradeDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 2, "B": 1}, distribution)

	top, err := svcs.Stats.TopCourses(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Algorithms", top[0].CourseName)
	assert.Equal(t, int64(2), top[0].EnrollmentCount)

	rows, err := svcs.Stats.StudentsWithCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	unenrolled, err := svcs.Stats.NotEnrolledStudents(ctx)
	require.NoError(t, err)
	require.Len(t, unenrolled, 1)
	assert.Equal(t, "Grace", unenrolled[0].Name)
}
