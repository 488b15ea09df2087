package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
)

func TestCourseCreateAssignsIdentifiers(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	first := mustCreateCourse(t, repos.Course, models.Course{CourseName: "Algorithms", Instructor: "Knuth"})
	second := mustCreateCourse(t, repos.Course, models.Course{CourseName: "Databases"})

	assert.Equal(t, int64(1), first.CourseID)
	assert.Equal(t, int64(2), second.CourseID)

	stored, err := repos.Course.GetByCourseID(ctx, first.CourseID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", stored.CourseName)
	assert.Equal(t, "Knuth", stored.Instructor)
	assert.NotEmpty(t, stored.DocumentID)
}

func TestCourseGetMissing(t *testing.T) {
	repos, _ := newTestRepositories(t)

	_, err := repos.Course.GetByCourseID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseGetAll(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateCourse(t, repos.Course, models.Course{CourseName: "Algorithms"})
	mustCreateCourse(t, repos.Course, models.Course{CourseName: "Databases"})

	courses, err := repos.Course.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Algorithms", courses[0].CourseName)
	assert.Equal(t, "Databases", courses[1].CourseName)
}

func TestCourseGetByName(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	course := mustCreateCourse(t, repos.Course, models.Course{CourseName: "Algorithms"})

	found, err := repos.Course.GetByName(ctx, "algorithms")
	require.NoError(t, err)
	assert.Equal(t, course.CourseID, found.CourseID)

	// The match is against the whole name, not a substring.
	_, err = repos.Course.GetByName(ctx, "algo")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseExists(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	course := mustCreateCourse(t, repos.Course, models.Course{CourseName: "Algorithms"})

	ok, err := repos.Course.Exists(ctx, course.CourseID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Course.Exists(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}
