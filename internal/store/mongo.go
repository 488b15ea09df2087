package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDatabase adapts *mongo.Database to the Database interface.
type mongoDatabase struct {
	db *mongo.Database
}

// NewMongoDatabase wraps a connected mongo database handle.
func NewMongoDatabase(db *mongo.Database) Database {
	return &mongoDatabase{db: db}
}

func (d *mongoDatabase) Collection(name string) Collection {
	return &mongoCollection{coll: d.db.Collection(name)}
}

// mongoCollection adapts *mongo.Collection to the Collection interface and
// maps driver errors onto the store sentinels.
type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc interface{}) (string, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("inserting into %s: %w", c.coll.Name(), ErrDuplicateKey)
		}
		return "", fmt.Errorf("inserting into %s: %w", c.coll.Name(), err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return oid.Hex(), nil
}

func (c *mongoCollection) InsertMany(ctx context.Context, docs []interface{}) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	res, err := c.coll.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("inserting into %s: %w", c.coll.Name(), ErrDuplicateKey)
		}
		return 0, fmt.Errorf("inserting into %s: %w", c.coll.Name(), err)
	}
	return int64(len(res.InsertedIDs)), nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocuments
		}
		return nil, fmt.Errorf("querying %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M, opts *FindOptions) ([]bson.M, error) {
	findOpts := options.Find()
	if opts != nil {
		if len(opts.Sort) > 0 {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Skip > 0 {
			findOpts.SetSkip(opts.Skip)
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := c.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading %s cursor: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("updating %s: %w", c.coll.Name(), ErrDuplicateKey)
		}
		return 0, fmt.Errorf("updating %s: %w", c.coll.Name(), err)
	}
	return res.ModifiedCount, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", c.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	count, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.coll.Name(), err)
	}
	return count, nil
}

func (c *mongoCollection) Aggregate(ctx context.Context, pipeline Pipeline) ([]bson.M, error) {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading %s aggregation cursor: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *mongoCollection) EnsureUniqueIndex(ctx context.Context, field string) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := c.coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		return fmt.Errorf("creating unique index on %s.%s: %w", c.coll.Name(), field, err)
	}
	return nil
}
