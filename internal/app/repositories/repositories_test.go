package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
	"github.com/yusuf/schoolregistry/internal/db"
	"github.com/yusuf/schoolregistry/internal/store"
	"github.com/yusuf/schoolregistry/internal/store/memory"
)

func newTestRepositories(t *testing.T) (*repositories.Repositories, store.Database) {
	t.Helper()

	database := memory.NewDatabase()
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return repositories.NewRepositories(database), database
}

func mustCreateStudent(t *testing.T, repo *repositories.StudentRepository, student models.Student) string {
	t.Helper()

	id, err := repo.Create(context.Background(), &student)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func mustCreateCourse(t *testing.T, repo *repositories.CourseRepository, course models.Course) *models.Course {
	t.Helper()

	_, err := repo.Create(context.Background(), &course)
	require.NoError(t, err)
	require.NotZero(t, course.CourseID)
	return &course
}

func mustEnroll(t *testing.T, repo *repositories.EnrollmentRepository, studentID, courseID int64) {
	t.Helper()

	_, err := repo.Create(context.Background(), &models.Enrollment{StudentID: studentID, CourseID: courseID})
	require.NoError(t, err)
}
