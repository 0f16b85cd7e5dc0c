package store

import (
	"context"
	"fmt"
	"time"

	"dalal-chat-api/pkg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const messagesCollection = "messages"

// mongoMessage is the document shape. It matches documents written by the
// earlier Node backend (createdAt/updatedAt timestamps, conversationId may
// be null).
type mongoMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ConversationID *string            `bson:"conversationId"`
	Role           string             `bson:"role"`
	Text           string             `bson:"text"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (d mongoMessage) toModel() models.Message {
	cid := ""
	if d.ConversationID != nil {
		cid = *d.ConversationID
	}
	return models.Message{
		ID:             d.ID.Hex(),
		ConversationID: models.NormalizeConversationID(cid),
		Role:           models.Role(d.Role),
		Text:           d.Text,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

// MongoStore persists messages in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// conversation/time index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(messagesCollection),
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversationId", Value: 1},
			{Key: "createdAt", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create messages index: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, msg models.Message) (models.Message, error) {
	// BSON dates carry millisecond precision; truncate so the returned value
	// equals what a later read yields.
	now := time.Now().UTC().Truncate(time.Millisecond)
	cid := models.NormalizeConversationID(msg.ConversationID)
	doc := mongoMessage{
		ConversationID: &cid,
		Role:           string(msg.Role),
		Text:           msg.Text,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Message, error) {
	dir := 1
	if opts.Sort == Descending {
		dir = -1
	}
	findOpts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: dir},
		{Key: "_id", Value: dir},
	})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := s.coll.Find(ctx, mongoFilter(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoMessage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	result := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toModel())
	}
	return result, nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) LatestPerConversation(ctx context.Context, limit int) ([]models.ConversationSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$conversationId", models.DefaultConversationID}}}},
			{Key: "lastAt", Value: bson.D{{Key: "$first", Value: "$createdAt"}}},
			{Key: "lastText", Value: bson.D{{Key: "$first", Value: "$text"}}},
			{Key: "lastId", Value: bson.D{{Key: "$first", Value: "$_id"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastAt", Value: -1}, {Key: "lastId", Value: -1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "conversationId", Value: "$_id"},
			{Key: "lastAt", Value: 1},
			{Key: "lastText", Value: 1},
		}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(limit)}})
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate conversations: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ConversationID string    `bson:"conversationId"`
		LastAt         time.Time `bson:"lastAt"`
		LastText       string    `bson:"lastText"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	result := make([]models.ConversationSummary, 0, len(rows))
	for _, r := range rows {
		result = append(result, models.ConversationSummary{
			ConversationID: models.NormalizeConversationID(r.ConversationID),
			LastAt:         r.LastAt.UTC(),
			LastText:       r.LastText,
		})
	}
	return result, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoFilter matches null or missing conversationId when asked for the
// default conversation, mirroring the $ifNull coalescing above.
func mongoFilter(f Filter) bson.M {
	switch f.ConversationID {
	case "":
		return bson.M{}
	case models.DefaultConversationID:
		return bson.M{"conversationId": bson.M{"$in": bson.A{models.DefaultConversationID, nil}}}
	default:
		return bson.M{"conversationId": f.ConversationID}
	}
}
