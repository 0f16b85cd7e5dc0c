package handlers

import (
	"context"
	"net/http"

	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves POST /api/chat.
type ChatHandler struct {
	service *services.ChatService
	log     *logger.Logger
}

func NewChatHandler(service *services.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, log: log}
}

// PostChat stores the user's message and the generated reply. The request
// context is detached so a client hanging up does not abort the writes.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req models.ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	cid := ""
	if req.ConversationID != nil {
		cid = *req.ConversationID
	}

	ctx := context.WithoutCancel(c.Request.Context())
	msgs, err := h.service.PostChat(ctx, req.Text, cid, models.ParseLanguage(req.Lang))
	if err != nil {
		respondError(c, h.log, err, "Something went wrong")
		return
	}
	c.JSON(http.StatusOK, models.ChatResponse{Messages: msgs})
}
