package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
	"github.com/yusuf/schoolregistry/internal/app/services"
	"github.com/yusuf/schoolregistry/internal/db"
	"github.com/yusuf/schoolregistry/internal/store/memory"
)

func newTestServices(t *testing.T) *services.Services {
	t.Helper()

	database := memory.NewDatabase()
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return services.NewServices(repositories.NewRepositories(database))
}

func createStudent(t *testing.T, svc *services.StudentService, id int64, name string, age int, grade, email string) {
	t.Helper()

	_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
		StudentID: id, Name: name, Age: age, Grade: grade, Email: email,
	})
	require.NoError(t, err)
}

func createCourse(t *testing.T, svc *services.CourseService, name string) int64 {
	t.Helper()

	course, err := svc.CreateCourse(context.Background(), dto.CreateCourseRequest{CourseName: name})
	require.NoError(t, err)
	return course.CourseID
}
