package store

import "errors"

var (
	// ErrNoDocuments is returned by FindOne when no document matches.
	ErrNoDocuments = errors.New("no documents in result")

	// ErrDuplicateKey is returned when an insert or update violates a unique
	// index.
	ErrDuplicateKey = errors.New("duplicate key")
)
