package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yusuf/schoolregistry/internal/config"
	"github.com/yusuf/schoolregistry/internal/store"
)

// MongoDB holds the client and database handle. The handle is constructed at
// startup and injected into the repositories; nothing reads a package-level
// connection.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to the configured MongoDB deployment and verifies the
// connection with a ping.
func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.Database.URI)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database.Name),
	}, nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the service relies on. Runs through the
// store interface so tests can apply the same constraints to the in-memory
// database.
func EnsureIndexes(ctx context.Context, database store.Database) error {
	students := database.Collection(store.StudentsCollection)
	if err := students.EnsureUniqueIndex(ctx, "email"); err != nil {
		return fmt.Errorf("ensuring student email uniqueness: %w", err)
	}
	return nil
}
