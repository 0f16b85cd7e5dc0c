package services

import (
	"context"

	"dalal-chat-api/pkg/apierr"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/store"
)

const (
	// MaxConversations caps the sidebar listing.
	MaxConversations = 50
	// HistoryLimit caps GET /api/messages.
	HistoryLimit = 200
	// ContextLimit caps the history sent to the reply generator.
	ContextLimit = 40
)

// ConversationService reads and deletes stored conversations.
type ConversationService struct {
	store store.MessageStore
}

func NewConversationService(s store.MessageStore) *ConversationService {
	return &ConversationService{store: s}
}

// ListConversations returns the newest conversations, most recent first.
func (s *ConversationService) ListConversations(ctx context.Context) ([]models.ConversationSummary, error) {
	rows, err := s.store.LatestPerConversation(ctx, MaxConversations)
	if err != nil {
		return nil, apierr.Store("Failed to list conversations", err)
	}
	return rows, nil
}

// DeleteConversation removes every message of id. Deleting an unknown id
// succeeds.
func (s *ConversationService) DeleteConversation(ctx context.Context, id string) error {
	cid := models.NormalizeConversationID(id)
	if _, err := s.store.DeleteMany(ctx, store.Filter{ConversationID: cid}); err != nil {
		return apierr.Store("Failed to delete conversation", err)
	}
	return nil
}

// GetHistory returns up to limit messages of id, oldest first. A blank id
// means the default conversation and limit <= 0 means HistoryLimit.
func (s *ConversationService) GetHistory(ctx context.Context, id string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = HistoryLimit
	}
	msgs, err := s.store.Find(ctx,
		store.Filter{ConversationID: models.NormalizeConversationID(id)},
		store.FindOptions{Sort: store.Ascending, Limit: limit},
	)
	if err != nil {
		return nil, apierr.Store("Failed to fetch messages", err)
	}
	return msgs, nil
}

// GetContext returns the history window handed to the reply generator.
func (s *ConversationService) GetContext(ctx context.Context, id string) ([]models.Message, error) {
	return s.GetHistory(ctx, id, ContextLimit)
}
