package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
)

func TestStudentCreateAndGet(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	id := mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada Lovelace", Age: 20, Grade: "A", Email: "ada@example.com",
	})

	student, err := repos.Student.GetByStudentID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, id, student.DocumentID)
	assert.Equal(t, "Ada Lovelace", student.Name)
	assert.Equal(t, 20, student.Age)
	assert.Equal(t, "ada@example.com", student.Email)
}

func TestStudentGetMissing(t *testing.T) {
	repos, _ := newTestRepositories(t)

	_, err := repos.Student.GetByStudentID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudentDuplicateEmail(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})

	_, err := repos.Student.Create(ctx, &models.Student{
		StudentID: 2, Name: "Impostor", Age: 30, Grade: "F", Email: "ada@example.com",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	// The first record is untouched by the rejected insert.
	original, err := repos.Student.GetByStudentID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", original.Name)

	all, err := repos.Student.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStudentIDAllocatorNeverRepeats(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		id, err := repos.Student.NextStudentID(ctx)
		require.NoError(t, err)
		assert.False(t, seen[id], "identifier %d allocated twice", id)
		seen[id] = true

		mustCreateStudent(t, repos.Student, models.Student{
			StudentID: id,
			Name:      fmt.Sprintf("Student %d", id),
			Age:       20,
			Grade:     "B",
			Email:     fmt.Sprintf("s%d@example.com", id),
		})
	}
}

func TestStudentIDAllocatorSkipsDeletedValues(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})
	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 2, Name: "Alan", Age: 24, Grade: "A", Email: "alan@example.com",
	})

	deleted, blocked, err := repos.Student.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, int64(1), deleted)

	next, err := repos.Student.NextStudentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next, "freed identifier must not be reissued")
}

func TestStudentPagination(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		mustCreateStudent(t, repos.Student, models.Student{
			StudentID: int64(i),
			Name:      fmt.Sprintf("Student %d", i),
			Age:       18 + i%10,
			Grade:     "B",
			Email:     fmt.Sprintf("s%d@example.com", i),
		})
	}

	page, err := repos.Student.Paginated(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, int64(11), page[0].StudentID)
	assert.Equal(t, int64(20), page[9].StudentID)

	last, err := repos.Student.Paginated(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last, 5)

	beyond, err := repos.Student.Paginated(ctx, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestStudentFilterByAge(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com"})
	mustCreateStudent(t, repos.Student, models.Student{StudentID: 2, Name: "Alan", Age: 24, Grade: "A", Email: "alan@example.com"})
	mustCreateStudent(t, repos.Student, models.Student{StudentID: 3, Name: "Grace", Age: 22, Grade: "B", Email: "grace@example.com"})

	asc, err := repos.Student.FilterByAge(ctx, 22, repositories.SortAscending)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, "Grace", asc[0].Name)
	assert.Equal(t, "Alan", asc[1].Name)

	desc, err := repos.Student.FilterByAge(ctx, 0, repositories.SortDescending)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, "Alan", desc[0].Name)
	assert.Equal(t, "Ada", desc[2].Name)
}

func TestStudentSearchByName(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{StudentID: 1, Name: "Ada Lovelace", Age: 20, Grade: "A", Email: "ada@example.com"})
	mustCreateStudent(t, repos.Student, models.Student{StudentID: 2, Name: "Alan Turing", Age: 24, Grade: "A", Email: "alan@example.com"})

	matches, err := repos.Student.SearchByName(ctx, "lovelace")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ada Lovelace", matches[0].Name)

	matches, err = repos.Student.SearchByName(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = repos.Student.SearchByName(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStudentPartialUpdate(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})

	modified, err := repos.Student.Update(ctx, 1, bson.M{"age": 21})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	student, err := repos.Student.GetByStudentID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 21, student.Age)
	assert.Equal(t, "Ada", student.Name)
	assert.Equal(t, "A", student.Grade)
	assert.Equal(t, "ada@example.com", student.Email)
}

func TestStudentUpdateUnknownID(t *testing.T) {
	repos, _ := newTestRepositories(t)

	modified, err := repos.Student.Update(context.Background(), 99, bson.M{"age": 30})
	require.NoError(t, err)
	assert.Zero(t, modified)
}

func TestStudentUpdateNoFields(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})

	modified, err := repos.Student.Update(ctx, 1, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, modified)
}

func TestStudentDeleteBlockedByEnrollment(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})
	course := mustCreateCourse(t, repos.Course, models.Course{CourseName: "Algorithms"})
	mustEnroll(t, repos.Enrollment, 1, course.CourseID)

	deleted, blocked, err := repos.Student.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Zero(t, deleted)

	// The guarded delete leaves both the student and the enrollment intact.
	student, err := repos.Student.GetByStudentID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", student.Name)

	enrollments, err := repos.Enrollment.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, enrollments, 1)
}

func TestStudentDeleteUnenrolled(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})
	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 2, Name: "Alan", Age: 24, Grade: "A", Email: "alan@example.com",
	})

	deleted, blocked, err := repos.Student.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, int64(1), deleted)

	_, err = repos.Student.GetByStudentID(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	remaining, err := repos.Student.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestStudentDeleteMissing(t *testing.T) {
	repos, _ := newTestRepositories(t)

	deleted, blocked, err := repos.Student.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, deleted)
}

func TestStudentGradeDistribution(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com"})
	mustCreateStudent(t, repos.Student, models.Student{StudentID: 2, Name: "Alan", Age: 24, Grade: "A", Email: "alan@example.com"})
	mustCreateStudent(t, repos.Student, models.Student{StudentID: 3, Name: "Grace", Age: 22, Grade: "B", Email: "grace@example.com"})

	distribution, err := repos.Student.GradeDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 2, "B": 1}, distribution)
}

func TestStudentGradeDistributionEmpty(t *testing.T) {
	repos, _ := newTestRepositories(t)

	distribution, err := repos.Student.GradeDistribution(context.Background())
	require.NoError(t, err)
	assert.Empty(t, distribution)
}

func TestStudentBulkInsertAndExport(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	rows := []bson.M{
		{"student_id": int64(1), "name": "Ada", "age": int64(20), "grade": "A", "email": "ada@example.com"},
		{"student_id": int64(2), "name": "Alan", "age": int64(24), "grade": "A", "email": "alan@example.com"},
	}

	inserted, err := repos.Student.BulkInsert(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	exported, err := repos.Student.ExportAll(ctx)
	require.NoError(t, err)
	require.Len(t, exported, 2)
	for _, doc := range exported {
		// The store identifier is surfaced as text after normalization.
		_, ok := doc["_id"].(string)
		assert.True(t, ok)
	}
	assert.Equal(t, "Ada", exported[0]["name"])
}

func TestStudentListingToleratesMistypedBulkRow(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})

	// Bulk imports store rows verbatim, so a text value can land in a
	// numeric column. Listings must still serve every record.
	_, err := repos.Student.BulkInsert(ctx, []bson.M{
		{"student_id": int64(9), "name": "Casey", "age": "twenty", "grade": "C", "email": "casey@example.com"},
	})
	require.NoError(t, err)

	all, err := repos.Student.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	casey, err := repos.Student.GetByStudentID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Casey", casey.Name)
	assert.Equal(t, "casey@example.com", casey.Email)
	assert.Zero(t, casey.Age)

	matches, err := repos.Student.SearchByName(ctx, "casey")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestStudentUpdateDuplicateEmail(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})
	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 2, Name: "Alan", Age: 24, Grade: "A", Email: "alan@example.com",
	})

	_, err := repos.Student.Update(ctx, 2, bson.M{"email": "ada@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	// The rejected update leaves the record untouched.
	alan, err := repos.Student.GetByStudentID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "alan@example.com", alan.Email)

	// Re-asserting a record's own email is not a collision.
	modified, err := repos.Student.Update(ctx, 2, bson.M{"email": "alan@example.com"})
	require.NoError(t, err)
	assert.Zero(t, modified)
}

func TestStudentBulkInsertDuplicateEmail(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{
		StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com",
	})

	_, err := repos.Student.BulkInsert(ctx, []bson.M{
		{"student_id": int64(2), "name": "Impostor", "email": "ada@example.com"},
	})
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))
}

func TestStudentNotEnrolled(t *testing.T) {
	repos, _ := newTestRepositories(t)
	ctx := context.Background()

	mustCreateStudent(t, repos.Student, models.Student{StudentID: 1, Name: "Ada", Age: 20, Grade: "A", Email: "ada@example.com"})
	mustCreateStudent(t, repos.Student, models.Student{StudentID: 2, Name: "Alan", Age: 24, Grade: "A", Email: "alan@example.com"})
	course := mustCreateCourse(t, repos.Course, models.Course{CourseName: "Algorithms"})
	mustEnroll(t, repos.Enrollment, 1, course.CourseID)

	unenrolled, err := repos.Student.NotEnrolled(ctx)
	require.NoError(t, err)
	require.Len(t, unenrolled, 1)
	assert.Equal(t, "Alan", unenrolled[0].Name)
}
