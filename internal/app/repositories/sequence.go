package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yusuf/schoolregistry/internal/store"
)

// Sequence allocates integer identifiers for a collection by reading the
// current maximum on every call. Recomputing fresh tolerates out-of-band
// deletions, though deleting the record holding the maximum lets its value be
// handed out again. Two concurrent allocations can observe the same maximum
// and collide; that race is accepted at this system's scale instead of a
// transactional counter.
type Sequence struct {
	coll  store.Collection
	field string
}

// NewSequence creates an allocator over the given collection and identifier
// field.
func NewSequence(coll store.Collection, field string) *Sequence {
	return &Sequence{coll: coll, field: field}
}

// Next returns the next identifier: current maximum + 1, or 1 when the
// collection holds no documents.
func (s *Sequence) Next(ctx context.Context) (int64, error) {
	pipeline := store.Pipeline{
		{"$group": bson.M{"_id": nil, "max": bson.M{"$max": "$" + s.field}}},
	}

	docs, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("reading current maximum for %s: %w", s.field, err)
	}

	if len(docs) == 0 {
		return 1, nil
	}

	max, ok := asInt64(docs[0]["max"])
	if !ok {
		return 1, nil
	}
	return max + 1, nil
}
