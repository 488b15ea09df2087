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

// SortAscending and SortDescending select the age-sort direction for
// FilterByAge.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// StudentRepository handles document-store operations for students.
type StudentRepository struct {
	students    store.Collection
	enrollments store.Collection
	sequence    *Sequence
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db store.Database) *StudentRepository {
	students := db.Collection(store.StudentsCollection)
	return &StudentRepository{
		students:    students,
		enrollments: db.Collection(store.EnrollmentsCollection),
		sequence:    NewSequence(students, "student_id"),
	}
}

// NextStudentID allocates the next student identifier.
func (r *StudentRepository) NextStudentID(ctx context.Context) (int64, error) {
	return r.sequence.Next(ctx)
}

// Create inserts a student and returns the store-assigned identifier as text.
// A duplicate email surfaces as apperrors.ErrEmailAlreadyExists.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (string, error) {
	insertedID, err := r.students.InsertOne(ctx, student)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return "", apperrors.ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("creating student: %w", err)
	}
	return insertedID, nil
}

// GetByStudentID retrieves a student by domain identifier.
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.Student, error) {
	doc, err := r.students.FindOne(ctx, bson.M{"student_id": studentID})
	if err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("retrieving student %d: %w", studentID, err)
	}
	return studentFromDoc(doc), nil
}

// GetAll retrieves every student.
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	docs, err := r.students.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving students: %w", err)
	}
	return studentsFromDocs(docs), nil
}

// SearchByName retrieves students whose name contains the given text,
// case-insensitively.
func (r *StudentRepository) SearchByName(ctx context.Context, name string) ([]*models.Student, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	docs, err := r.students.Find(ctx, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("searching students by name: %w", err)
	}
	return studentsFromDocs(docs), nil
}

// Paginated retrieves one page in natural store order. Pages are 1-indexed;
// skip = (page-1) * limit.
func (r *StudentRepository) Paginated(ctx context.Context, page, limit int64) ([]*models.Student, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	opts := &store.FindOptions{Skip: (page - 1) * limit, Limit: limit}
	docs, err := r.students.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("retrieving students page %d: %w", page, err)
	}
	return studentsFromDocs(docs), nil
}

// FilterByAge retrieves students at or above minAge, sorted by age in the
// given order ("asc" or "desc").
func (r *StudentRepository) FilterByAge(ctx context.Context, minAge int, order string) ([]*models.Student, error) {
	sortOrder := 1
	if order == SortDescending {
		sortOrder = -1
	}

	opts := &store.FindOptions{Sort: bson.D{{Key: "age", Value: sortOrder}}}
	docs, err := r.students.Find(ctx, bson.M{"age": bson.M{"$gte": minAge}}, opts)
	if err != nil {
		return nil, fmt.Errorf("filtering students by age: %w", err)
	}
	return studentsFromDocs(docs), nil
}

// Update applies the given fields to the student and returns the count of
// documents actually modified. An unknown identifier yields 0, not an error.
func (r *StudentRepository) Update(ctx context.Context, studentID int64, fields bson.M) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	modified, err := r.students.UpdateOne(ctx, bson.M{"student_id": studentID}, bson.M{"$set": fields})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("updating student %d: %w", studentID, err)
	}
	return modified, nil
}

// Delete removes a student unless an enrollment still references it. A
// referenced student is reported as blocked with zero deletions, not as an
// error.
func (r *StudentRepository) Delete(ctx context.Context, studentID int64) (deleted int64, blocked bool, err error) {
	count, err := r.enrollments.CountDocuments(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, false, fmt.Errorf("checking enrollments for student %d: %w", studentID, err)
	}
	if count > 0 {
		return 0, true, nil
	}

	deleted, err = r.students.DeleteOne(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, false, fmt.Errorf("deleting student %d: %w", studentID, err)
	}
	return deleted, false, nil
}

// BulkInsert inserts rows verbatim, with no validation against the student
// shape, and returns the count inserted.
func (r *StudentRepository) BulkInsert(ctx context.Context, rows []bson.M) (int64, error) {
	docs := make([]interface{}, len(rows))
	for i := range rows {
		docs[i] = rows[i]
	}

	inserted, err := r.students.InsertMany(ctx, docs)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return inserted, apperrors.ErrEmailAlreadyExists
		}
		return inserted, fmt.Errorf("bulk inserting students: %w", err)
	}
	return inserted, nil
}

// ExportAll returns every student document, codec-normalized, for tabular
// encoding.
func (r *StudentRepository) ExportAll(ctx context.Context) ([]bson.M, error) {
	docs, err := r.students.Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, fmt.Errorf("exporting students: %w", err)
	}
	return doccodec.NormalizeAll(docs), nil
}

// GradeDistribution groups students by grade and counts members per group.
// Groups with a null or absent grade are omitted.
func (r *StudentRepository) GradeDistribution(ctx context.Context) (map[string]int64, error) {
	pipeline := store.Pipeline{
		{"$group": bson.M{"_id": "$grade", "count": bson.M{"$sum": 1}}},
	}

	docs, err := r.students.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating grade distribution: %w", err)
	}

	distribution := make(map[string]int64, len(docs))
	for _, doc := range docs {
		grade, ok := doc["_id"].(string)
		if !ok {
			continue
		}
		count, _ := asInt64(doc["count"])
		distribution[grade] = count
	}
	return distribution, nil
}

// NotEnrolled retrieves students referenced by no enrollment.
func (r *StudentRepository) NotEnrolled(ctx context.Context) ([]*models.Student, error) {
	pipeline := store.Pipeline{
		{"$lookup": bson.M{
			"from":         store.EnrollmentsCollection,
			"localField":   "student_id",
			"foreignField": "student_id",
			"as":           "enrollments",
		}},
		{"$match": bson.M{"enrollments": bson.M{"$size": 0}}},
		{"$project": bson.M{"enrollments": 0}},
	}

	docs, err := r.students.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating unenrolled students: %w", err)
	}
	return studentsFromDocs(docs), nil
}

// studentFromDoc decodes field by field. Bulk-imported rows carry arbitrary
// tabular shapes, so a field of the wrong type is left at its zero value
// instead of failing the whole listing.
func studentFromDoc(doc bson.M) *models.Student {
	doc = doccodec.Normalize(doc)

	student := &models.Student{DocumentID: documentID(doc)}
	if id, ok := asInt64(doc["student_id"]); ok {
		student.StudentID = id
	}
	if name, ok := doc["name"].(string); ok {
		student.Name = name
	}
	if age, ok := asInt64(doc["age"]); ok {
		student.Age = int(age)
	}
	if grade, ok := doc["grade"].(string); ok {
		student.Grade = grade
	}
	if email, ok := doc["email"].(string); ok {
		student.Email = email
	}
	return student
}

func studentsFromDocs(docs []bson.M) []*models.Student {
	students := make([]*models.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, studentFromDoc(doc))
	}
	return students
}
