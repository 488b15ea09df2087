// Package store abstracts the document database behind narrow interfaces so
// repositories can run against the real MongoDB deployment or the in-memory
// implementation used in tests.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Pipeline is a declarative aggregation pipeline: an ordered list of stages.
type Pipeline []bson.M

// FindOptions carries the optional query modifiers repositories use.
type FindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// Collection is the subset of document-collection operations the repositories
// depend on.
type Collection interface {
	// InsertOne inserts a single document and returns the hex form of the
	// store-assigned identifier. Unique-index violations surface as
	// ErrDuplicateKey.
	InsertOne(ctx context.Context, doc interface{}) (string, error)

	// InsertMany inserts documents verbatim and returns the count inserted.
	InsertMany(ctx context.Context, docs []interface{}) (int64, error)

	// FindOne returns the first document matching filter, or ErrNoDocuments.
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)

	// Find returns all documents matching filter, honoring opts when non-nil.
	Find(ctx context.Context, filter bson.M, opts *FindOptions) ([]bson.M, error)

	// UpdateOne applies update to the first matching document and returns the
	// count of documents actually modified.
	UpdateOne(ctx context.Context, filter, update bson.M) (int64, error)

	// DeleteOne removes the first matching document and returns the count
	// deleted.
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)

	// CountDocuments returns the number of documents matching filter.
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)

	// Aggregate executes the pipeline and returns the resulting documents.
	Aggregate(ctx context.Context, pipeline Pipeline) ([]bson.M, error)

	// EnsureUniqueIndex creates a unique index on field if it does not exist.
	EnsureUniqueIndex(ctx context.Context, field string) error
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
}

// Collection names used across the service.
const (
	StudentsCollection    = "students"
	CoursesCollection     = "courses"
	EnrollmentsCollection = "enrollments"
	LogsCollection        = "logs"
)
