package repositories

import (
	"context"
	"fmt"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/store"
)

// AccessLogRepository persists per-request access log entries.
type AccessLogRepository struct {
	logs store.Collection
}

// NewAccessLogRepository creates a new access log repository.
func NewAccessLogRepository(db store.Database) *AccessLogRepository {
	return &AccessLogRepository{logs: db.Collection(store.LogsCollection)}
}

// Insert stores a single access log entry.
func (r *AccessLogRepository) Insert(ctx context.Context, entry *models.AccessLog) error {
	if _, err := r.logs.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("storing access log: %w", err)
	}
	return nil
}
