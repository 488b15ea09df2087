// Package memory provides an in-memory implementation of the store
// interfaces. It backs repository and service tests so they run without a
// MongoDB instance, mirroring the operations and error mapping of the real
// adapter, including the aggregation stages this service uses.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yusuf/schoolregistry/internal/store"
)

// Database is an in-memory document database.
type Database struct {
	mu          sync.RWMutex
	collections map[string]*collectionState
}

type collectionState struct {
	docs          []bson.M
	uniqueIndexes []string
}

// NewDatabase creates an empty in-memory database.
func NewDatabase() *Database {
	return &Database{collections: make(map[string]*collectionState)}
}

// Collection returns a handle for name, creating the collection lazily.
func (d *Database) Collection(name string) store.Collection {
	return &Collection{db: d, name: name}
}

func (d *Database) state(name string) *collectionState {
	cs, ok := d.collections[name]
	if !ok {
		cs = &collectionState{}
		d.collections[name] = cs
	}
	return cs
}

// Collection implements store.Collection over the shared database state.
type Collection struct {
	db   *Database
	name string
}

func (c *Collection) InsertOne(ctx context.Context, doc interface{}) (string, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	copied, err := toDoc(doc)
	if err != nil {
		return "", err
	}
	return c.insertLocked(copied)
}

func (c *Collection) InsertMany(ctx context.Context, docs []interface{}) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	var inserted int64
	for _, doc := range docs {
		copied, err := toDoc(doc)
		if err != nil {
			return inserted, err
		}
		if _, err := c.insertLocked(copied); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// insertLocked assigns a store identifier, enforces unique indexes, and
// appends the document in natural (insertion) order.
func (c *Collection) insertLocked(doc bson.M) (string, error) {
	cs := c.db.state(c.name)

	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}

	for _, field := range cs.uniqueIndexes {
		value, ok := doc[field]
		if !ok {
			continue
		}
		for _, existing := range cs.docs {
			if equalValues(existing[field], value) {
				return "", fmt.Errorf("inserting into %s: %w", c.name, store.ErrDuplicateKey)
			}
		}
	}

	cs.docs = append(cs.docs, doc)

	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", doc["_id"]), nil
}

func (c *Collection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	for _, doc := range c.db.state(c.name).docs {
		if matchDoc(doc, filter) {
			return copyDoc(doc), nil
		}
	}
	return nil, store.ErrNoDocuments
}

func (c *Collection) Find(ctx context.Context, filter bson.M, opts *store.FindOptions) ([]bson.M, error) {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	var results []bson.M
	for _, doc := range c.db.state(c.name).docs {
		if matchDoc(doc, filter) {
			results = append(results, copyDoc(doc))
		}
	}

	if opts != nil {
		if len(opts.Sort) > 0 {
			sortDocs(results, opts.Sort[0].Key, toSortOrder(opts.Sort[0].Value))
		}
		if opts.Skip > 0 {
			if opts.Skip >= int64(len(results)) {
				results = nil
			} else {
				results = results[opts.Skip:]
			}
		}
		if opts.Limit > 0 && int64(len(results)) > opts.Limit {
			results = results[:opts.Limit]
		}
	}
	return results, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	set, ok := update["$set"].(bson.M)
	if !ok {
		return 0, fmt.Errorf("updating %s: only $set updates are supported", c.name)
	}

	cs := c.db.state(c.name)
	for i, doc := range cs.docs {
		if !matchDoc(doc, filter) {
			continue
		}

		for _, field := range cs.uniqueIndexes {
			value, ok := set[field]
			if !ok {
				continue
			}
			for j, other := range cs.docs {
				if j == i {
					continue
				}
				if equalValues(other[field], value) {
					return 0, fmt.Errorf("updating %s: %w", c.name, store.ErrDuplicateKey)
				}
			}
		}

		var modified bool
		for k, v := range set {
			if !equalValues(doc[k], v) {
				doc[k] = normalizeValue(v)
				modified = true
			}
		}
		if modified {
			return 1, nil
		}
		return 0, nil
	}
	return 0, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	cs := c.db.state(c.name)
	for i, doc := range cs.docs {
		if matchDoc(doc, filter) {
			cs.docs = append(cs.docs[:i], cs.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *Collection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	var count int64
	for _, doc := range c.db.state(c.name).docs {
		if matchDoc(doc, filter) {
			count++
		}
	}
	return count, nil
}

func (c *Collection) Aggregate(ctx context.Context, pipeline store.Pipeline) ([]bson.M, error) {
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()

	docs := make([]bson.M, 0, len(c.db.state(c.name).docs))
	for _, doc := range c.db.state(c.name).docs {
		docs = append(docs, copyDoc(doc))
	}
	return c.runPipeline(docs, pipeline)
}

func (c *Collection) EnsureUniqueIndex(ctx context.Context, field string) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	cs := c.db.state(c.name)
	for _, existing := range cs.uniqueIndexes {
		if existing == field {
			return nil
		}
	}
	cs.uniqueIndexes = append(cs.uniqueIndexes, field)
	return nil
}

// toDoc deep-copies an arbitrary document through bson marshalling so stored
// state shares nothing with the caller and value types match what the real
// driver would round-trip.
func toDoc(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return out, nil
}

func copyDoc(doc bson.M) bson.M {
	copied, err := toDoc(doc)
	if err != nil {
		// Documents in the store already round-tripped once; a second pass
		// cannot fail.
		panic(err)
	}
	return copied
}

// matchDoc evaluates a top-level filter document against doc.
func matchDoc(doc, filter bson.M) bool {
	for field, expected := range filter {
		actual, present := doc[field]

		switch cond := expected.(type) {
		case bson.M:
			if !matchOperators(actual, present, cond) {
				return false
			}
		case primitive.Regex:
			s, ok := actual.(string)
			if !ok || !matchRegex(s, cond) {
				return false
			}
		default:
			if !present || !equalValues(actual, expected) {
				return false
			}
		}
	}
	return true
}

func matchOperators(actual interface{}, present bool, cond bson.M) bool {
	for op, operand := range cond {
		switch op {
		case "$gte":
			cmp, ok := compareValues(actual, operand)
			if !ok || cmp < 0 {
				return false
			}
		case "$size":
			length, ok := arrayLen(actual)
			if !ok {
				return false
			}
			want, ok := toFloat(operand)
			if !ok || float64(length) != want {
				return false
			}
		case "$exists":
			want, _ := operand.(bool)
			if present != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchRegex(s string, re primitive.Regex) bool {
	pattern := re.Pattern
	if strings.Contains(re.Options, "i") {
		pattern = "(?i)" + pattern
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return compiled.MatchString(s)
}

func arrayLen(v interface{}) (int, bool) {
	switch arr := v.(type) {
	case primitive.A:
		return len(arr), true
	case []interface{}:
		return len(arr), true
	case []bson.M:
		return len(arr), true
	}
	return 0, false
}

// toFloat normalizes the numeric types bson round-trips produce.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues orders numbers and strings; ok is false for mixed or
// unsupported types.
func compareValues(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}

	if oa, ok := a.(primitive.ObjectID); ok {
		if ob, ok := b.(primitive.ObjectID); ok {
			return oa == ob
		}
		return false
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toSortOrder(v interface{}) int {
	if f, ok := toFloat(v); ok && f < 0 {
		return -1
	}
	return 1
}

// sortDocs sorts in place by a single key; the sort is stable so documents
// with equal keys keep natural order.
func sortDocs(docs []bson.M, key string, order int) {
	sort.SliceStable(docs, func(i, j int) bool {
		cmp, ok := compareValues(docs[i][key], docs[j][key])
		if !ok {
			return false
		}
		if order < 0 {
			return cmp > 0
		}
		return cmp < 0
	})
}

func normalizeValue(v interface{}) interface{} {
	wrapped, err := toDoc(bson.M{"v": v})
	if err != nil {
		return v
	}
	return wrapped["v"]
}
