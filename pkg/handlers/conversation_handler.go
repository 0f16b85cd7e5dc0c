package handlers

import (
	"context"
	"net/http"

	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/models"
	"dalal-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ConversationHandler serves the sidebar listing, deletion and history.
type ConversationHandler struct {
	service *services.ConversationService
	log     *logger.Logger
}

func NewConversationHandler(service *services.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{service: service, log: log}
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	rows, err := h.service.ListConversations(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to list conversations")
		return
	}
	if rows == nil {
		rows = []models.ConversationSummary{}
	}
	c.JSON(http.StatusOK, rows)
}

// Delete handles DELETE /api/conversations/:cid.
func (h *ConversationHandler) Delete(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.service.DeleteConversation(ctx, c.Param("cid")); err != nil {
		respondError(c, h.log, err, "Failed to delete conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Messages handles GET /api/messages?cid=.
func (h *ConversationHandler) Messages(c *gin.Context) {
	msgs, err := h.service.GetHistory(c.Request.Context(), c.Query("cid"), services.HistoryLimit)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch messages")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}
