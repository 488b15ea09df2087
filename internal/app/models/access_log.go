package models

import "time"

// AccessLog is one request-log record in the 'logs' collection, written by
// the observability side-channel, never by the core repositories.
type AccessLog struct {
	RequestID string    `bson:"request_id" json:"request_id"`
	Method    string    `bson:"method" json:"method"`
	Path      string    `bson:"path" json:"path"`
	Status    int       `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
