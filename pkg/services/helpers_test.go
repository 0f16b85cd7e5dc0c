package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/predictor"
	"dalal-chat-api/pkg/store"
)

func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore() *store.MemoryStore {
	return store.NewMemoryStore().WithClock(tickingClock())
}

var errStoreDown = errors.New("store down")

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Insert(context.Context, models.Message) (models.Message, error) {
	return models.Message{}, errStoreDown
}
func (failingStore) Find(context.Context, store.Filter, store.FindOptions) ([]models.Message, error) {
	return nil, errStoreDown
}
func (failingStore) DeleteMany(context.Context, store.Filter) (int64, error) { return 0, errStoreDown }
func (failingStore) LatestPerConversation(context.Context, int) ([]models.ConversationSummary, error) {
	return nil, errStoreDown
}
func (failingStore) Ping(context.Context) error  { return errStoreDown }
func (failingStore) Close(context.Context) error { return nil }

// fakePredictor records the batch it receives and answers with resp/err.
type fakePredictor struct {
	resp  predictor.Response
	err   error
	calls int
	got   []models.Item
}

func (f *fakePredictor) Predict(_ context.Context, items []models.Item) (predictor.Response, error) {
	f.calls++
	f.got = items
	return f.resp, f.err
}

// fullItem returns an item carrying every required field.
func fullItem() map[string]any {
	item := make(map[string]any, len(models.RequiredItemFields))
	for _, f := range models.RequiredItemFields {
		item[f] = 1.0
	}
	return item
}
