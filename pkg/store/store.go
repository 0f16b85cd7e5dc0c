// Package store persists chat messages. Every adapter keeps messages
// append-only and orders them by creation time, ties broken by insertion
// order.
package store

import (
	"context"
	"fmt"

	"dalal-chat-api/pkg/models"
)

// SortOrder is the createdAt direction of a Find.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Filter selects messages. An empty ConversationID matches every message.
type Filter struct {
	ConversationID string
}

// FindOptions controls ordering and size of a Find. Limit <= 0 means no cap.
type FindOptions struct {
	Sort  SortOrder
	Limit int
}

// MessageStore is the persistence port used by the services.
type MessageStore interface {
	// Insert assigns ID and CreatedAt and stores msg.
	Insert(ctx context.Context, msg models.Message) (models.Message, error)
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Message, error)
	// DeleteMany removes every message matching filter and returns the count.
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
	// LatestPerConversation returns one summary per conversation, newest
	// first, capped at limit.
	LatestPerConversation(ctx context.Context, limit int) ([]models.ConversationSummary, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Driver names accepted by Open.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Options configures Open.
type Options struct {
	Driver      string
	MongoURI    string
	MongoDBName string
	DatabaseURL string
}

// Open connects the adapter named by opts.Driver.
func Open(ctx context.Context, opts Options) (MessageStore, error) {
	switch opts.Driver {
	case DriverMongo, "mongodb", "":
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDBName)
	case DriverPostgres, "postgresql":
		return NewPostgresStore(opts.DatabaseURL)
	case DriverSQLite:
		dsn := opts.DatabaseURL
		if dsn == "" {
			dsn = "dalal.db"
		}
		return NewSQLiteStore(dsn)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
