package services

import (
	"context"
	"strings"

	"dalal-chat-api/pkg/apierr"
	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/store"
)

// ChatService runs one chat turn: read context, store the user message,
// generate a reply, store the reply.
type ChatService struct {
	store         store.MessageStore
	conversations *ConversationService
	replies       ReplyGenerator
	log           *logger.Logger
}

func NewChatService(s store.MessageStore, conversations *ConversationService, replies ReplyGenerator, log *logger.Logger) *ChatService {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatService{
		store:         s,
		conversations: conversations,
		replies:       replies,
		log:           log,
	}
}

// PostChat returns the stored user message followed by the stored assistant
// message. Blank text is rejected before anything is read or written.
func (s *ChatService) PostChat(ctx context.Context, text, conversationID string, lang models.Language) ([]models.Message, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return nil, apierr.Validation("Text is required", "text")
	}
	cid := models.NormalizeConversationID(conversationID)

	// Context is read before the new user message exists.
	history, err := s.conversations.GetContext(ctx, cid)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.store.Insert(ctx, models.Message{
		ConversationID: cid,
		Role:           models.RoleUser,
		Text:           prompt,
	})
	if err != nil {
		return nil, apierr.Store("Failed to save message", err)
	}

	reply := s.replies.GenerateReply(ctx, prompt, history, lang)

	botMsg, err := s.store.Insert(ctx, models.Message{
		ConversationID: cid,
		Role:           models.RoleAssistant,
		Text:           reply,
	})
	if err != nil {
		return nil, apierr.Store("Failed to save reply", err)
	}

	s.log.Debug("chat turn stored", "conversationId", cid, "historyLen", len(history), "lang", string(lang))
	return []models.Message{userMsg, botMsg}, nil
}
