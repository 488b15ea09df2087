// Package repositories owns all document-store access: entity CRUD, the
// relational invariants the store does not enforce on its own, and the
// aggregation pipelines that compute derived statistics and joins.
package repositories

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// decodeDoc converts a raw document into a typed entity via a bson
// round-trip.
func decodeDoc(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}

// documentID extracts the normalized store identifier, if present.
func documentID(doc bson.M) string {
	if id, ok := doc["_id"].(string); ok {
		return id
	}
	return ""
}

// asInt64 coerces the numeric types bson documents carry.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
