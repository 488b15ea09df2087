// Package accesslog persists one record per handled request as a
// fire-and-forget side channel. Recording never blocks the response and a
// failed write never fails the request it describes.
package accesslog

import (
	"context"
	"time"

	"github.com/yusuf/schoolregistry/internal/app/models"
	"github.com/yusuf/schoolregistry/internal/pkg/logger"
)

const writeTimeout = 5 * time.Second

// Inserter stores a single access log entry.
type Inserter interface {
	Insert(ctx context.Context, entry *models.AccessLog) error
}

// Recorder accepts access log entries for asynchronous persistence.
type Recorder interface {
	Record(entry models.AccessLog)
}

// StoreRecorder writes entries to the document store in the background. Each
// write runs under its own deadline, detached from the request context,
// which is already done by the time the entry is recorded.
type StoreRecorder struct {
	inserter Inserter
}

// NewStoreRecorder creates a recorder over the given inserter.
func NewStoreRecorder(inserter Inserter) *StoreRecorder {
	return &StoreRecorder{inserter: inserter}
}

// Record persists the entry in the background. Failures are logged and
// dropped.
func (r *StoreRecorder) Record(entry models.AccessLog) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error().Interface("panic", rec).Msg("Access log write panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := r.inserter.Insert(ctx, &entry); err != nil {
			logger.Warn().Err(err).
				Str("request_id", entry.RequestID).
				Msg("Failed to persist access log entry")
		}
	}()
}

// NopRecorder discards every entry.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(models.AccessLog) {}
