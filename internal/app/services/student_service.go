package services

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/app/models/dto"
	"github.com/yusuf/schoolregistry/internal/app/repositories"
	"github.com/yusuf/schoolregistry/internal/pkg/apperrors"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
	"github.com/yusuf/schoolregistry/internal/pkg/transfer"
)

// StudentService implements student lifecycle operations and the bulk
// CSV import and export flows.
type StudentService struct {
	studentRepo *repositories.StudentRepository
}

// NewStudentService creates a new student service.
func NewStudentService(studentRepo *repositories.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// CreateStudent inserts a student with a caller-supplied identifier.
func (s *StudentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.InsertedResponse, error) {
	student := &models.Student{
		StudentID: req.StudentID,
		Name:      req.Name,
		Age:       req.Age,
		Grade:     req.Grade,
		Email:     req.Email,
	}

	insertedID, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("student_id", student.StudentID).Msg("Student created")
	return &dto.InsertedResponse{InsertedID: insertedID}, nil
}

// CreateStudentFromForm inserts a student with an allocator-assigned
// identifier and returns the created record.
func (s *StudentService) CreateStudentFromForm(ctx context.Context, req dto.StudentFormRequest) (*models.Student, error) {
	studentID, err := s.studentRepo.NextStudentID(ctx)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentID: studentID,
		Name:      req.Name,
		Age:       req.Age,
		Grade:     req.Grade,
		Email:     req.Email,
	}

	insertedID, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	student.DocumentID = insertedID

	logger.Info().Int64("student_id", studentID).Msg("Student created from form")
	return student, nil
}

// GetStudent retrieves one student by domain identifier.
func (s *StudentService) GetStudent(ctx context.Context, studentID int64) (*models.Student, error) {
	return s.studentRepo.GetByStudentID(ctx, studentID)
}

// ListStudents retrieves all students.
func (s *StudentService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// ListStudentsPaginated retrieves one page of students in store order.
func (s *StudentService) ListStudentsPaginated(ctx context.Context, page, limit int64) ([]*models.Student, error) {
	return s.studentRepo.Paginated(ctx, page, limit)
}

// SearchStudents retrieves students whose name contains the given text.
func (s *StudentService) SearchStudents(ctx context.Context, name string) ([]*models.Student, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("Search name must not be empty")
	}
	return s.studentRepo.SearchByName(ctx, name)
}

// FilterStudentsByAge retrieves students at or above minAge sorted by age.
// Any order value other than "desc" sorts ascending.
func (s *StudentService) FilterStudentsByAge(ctx context.Context, minAge int, order string) ([]*models.Student, error) {
	if minAge < 0 {
		return nil, apperrors.NewValidationError("Minimum age must not be negative")
	}
	if order != repositories.SortDescending {
		order = repositories.SortAscending
	}
	return s.studentRepo.FilterByAge(ctx, minAge, order)
}

// UpdateStudent applies the non-nil fields of the request. An unknown
// identifier reports zero modifications, not an error.
func (s *StudentService) UpdateStudent(ctx context.Context, studentID int64, req dto.UpdateStudentRequest) (*dto.UpdateResponse, error) {
	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Grade != nil {
		fields["grade"] = *req.Grade
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("No fields to update")
	}

	modified, err := s.studentRepo.Update(ctx, studentID, fields)
	if err != nil {
		return nil, err
	}

	message := "Student updated"
	if modified == 0 {
		message = "No student modified"
	}
	return &dto.UpdateResponse{Modified: modified, Message: message}, nil
}

// DeleteStudent removes a student unless an enrollment references it. A
// blocked delete is a normal outcome carrying an explanatory message.
func (s *StudentService) DeleteStudent(ctx context.Context, studentID int64) (*dto.DeleteResponse, error) {
	deleted, blocked, err := s.studentRepo.Delete(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if blocked {
		return &dto.DeleteResponse{
			Deleted: 0,
			Message: "Student is enrolled in a course and cannot be deleted",
		}, nil
	}

	message := "Student deleted"
	if deleted == 0 {
		message = "No student deleted"
	}
	return &dto.DeleteResponse{Deleted: deleted, Message: message}, nil
}

// ImportCSV bulk-inserts the rows of a CSV document verbatim.
func (s *StudentService) ImportCSV(ctx context.Context, r io.Reader) (*dto.BulkInsertResponse, error) {
	rows, err := transfer.ParseCSV(r)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("CSV contains no data rows")
	}

	inserted, err := s.studentRepo.BulkInsert(ctx, rows)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("inserted", inserted).Msg("Students imported from CSV")
	return &dto.BulkInsertResponse{
		Inserted: inserted,
		Message:  fmt.Sprintf("%d students imported", inserted),
	}, nil
}

// ExportCSV writes every student document as CSV.
func (s *StudentService) ExportCSV(ctx context.Context, w io.Writer) error {
	docs, err := s.studentRepo.ExportAll(ctx)
	if err != nil {
		return err
	}
	return transfer.WriteCSV(w, docs)
}
