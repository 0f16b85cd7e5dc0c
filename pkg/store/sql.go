package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"dalal-chat-api/pkg/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// sqlMessage is the row shape. Seq records insertion order and breaks
// createdAt ties.
type sqlMessage struct {
	Seq            uint64    `gorm:"primaryKey;autoIncrement"`
	ID             string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	ConversationID string    `gorm:"type:varchar(255);not null;index:idx_messages_conversation_created,priority:1"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Text           string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null;index:idx_messages_conversation_created,priority:2"`
}

func (sqlMessage) TableName() string { return "messages" }

func (r sqlMessage) toModel() models.Message {
	return models.Message{
		ID:             r.ID,
		ConversationID: models.NormalizeConversationID(r.ConversationID),
		Role:           models.Role(r.Role),
		Text:           r.Text,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

// SQLStore persists messages in a relational database through gorm.
type SQLStore struct {
	db *gorm.DB
}

// NewPostgresStore opens a PostgreSQL database from a DSN or URL.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres store")
	}
	return openSQLStore(postgres.Open(dsn))
}

// NewSQLiteStore opens (or creates) a SQLite database file.
func NewSQLiteStore(dsn string) (*SQLStore, error) {
	return openSQLStore(sqlite.Open(dsn))
}

// NewSQLStore wraps an existing gorm handle and migrates the schema.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&sqlMessage{}); err != nil {
		return nil, fmt.Errorf("failed to migrate messages table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func openSQLStore(dialector gorm.Dialector) (*SQLStore, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewSQLStore(db)
}

func (s *SQLStore) Insert(ctx context.Context, msg models.Message) (models.Message, error) {
	row := sqlMessage{
		ID:             uuid.New().String(),
		ConversationID: models.NormalizeConversationID(msg.ConversationID),
		Role:           string(msg.Role),
		Text:           msg.Text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return row.toModel(), nil
}

func (s *SQLStore) Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Message, error) {
	order := "created_at ASC, seq ASC"
	if opts.Sort == Descending {
		order = "created_at DESC, seq DESC"
	}
	q := s.scoped(ctx, filter).Order(order)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var rows []sqlMessage
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	result := make([]models.Message, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.toModel())
	}
	return result, nil
}

func (s *SQLStore) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	res := s.scoped(ctx, filter).Where("1 = 1").Delete(&sqlMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete messages: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// latestPerConversationSQL keeps, per conversation, the row whose seq is
// that conversation's newest. Selected columns come straight from the table
// so drivers keep their declared types.
const latestPerConversationSQL = `
SELECT m.conversation_id, m.created_at, m.text
FROM messages m
WHERE m.seq = (
	SELECT m2.seq FROM messages m2
	WHERE m2.conversation_id = m.conversation_id
	ORDER BY m2.created_at DESC, m2.seq DESC
	LIMIT 1
)
ORDER BY m.created_at DESC, m.seq DESC`

func (s *SQLStore) LatestPerConversation(ctx context.Context, limit int) ([]models.ConversationSummary, error) {
	query := latestPerConversationSQL
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []struct {
		ConversationID string
		CreatedAt      time.Time
		Text           string
	}
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate conversations: %w", err)
	}
	result := make([]models.ConversationSummary, 0, len(rows))
	for _, r := range rows {
		result = append(result, models.ConversationSummary{
			ConversationID: models.NormalizeConversationID(r.ConversationID),
			LastAt:         r.CreatedAt.UTC(),
			LastText:       r.Text,
		})
	}
	return result, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) scoped(ctx context.Context, filter Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&sqlMessage{})
	if filter.ConversationID != "" {
		q = q.Where("conversation_id = ?", filter.ConversationID)
	}
	return q
}
