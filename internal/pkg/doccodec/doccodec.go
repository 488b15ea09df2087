// Package doccodec normalizes raw store documents before they cross the
// service boundary: the store-native identifier becomes its hex string form
// and non-representable numeric values become explicit nulls.
package doccodec

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the key the store-native identifier is surfaced under.
const IDField = "_id"

// Normalize rewrites doc in place and returns it. The ObjectID under _id is
// replaced by its hex string; NaN and infinite floats (tabular imports with
// missing numeric cells produce these) are replaced with nil. Applied on
// every read path that returns a document to a caller, never on documents
// used only for internal existence checks.
func Normalize(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}

	if oid, ok := doc[IDField].(primitive.ObjectID); ok {
		doc[IDField] = oid.Hex()
	}

	for key, value := range doc {
		switch v := value.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				doc[key] = nil
			}
		case float32:
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				doc[key] = nil
			}
		}
	}
	return doc
}

// NormalizeAll applies Normalize to every document.
func NormalizeAll(docs []bson.M) []bson.M {
	for i := range docs {
		docs[i] = Normalize(docs[i])
	}
	return docs
}
