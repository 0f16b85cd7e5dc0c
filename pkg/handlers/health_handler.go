package handlers

import (
	"net/http"

	"dalal-chat-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and the secret-free configuration view.
type HealthHandler struct {
	env models.EnvStatus
}

func NewHealthHandler(env models.EnvStatus) *HealthHandler {
	return &HealthHandler{env: env}
}

// Health always answers {ok: true}.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Env reports whether an LLM key and prediction URL are configured, never
// their values.
func (h *HealthHandler) Env(c *gin.Context) {
	c.JSON(http.StatusOK, h.env)
}
