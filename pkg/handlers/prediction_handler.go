package handlers

import (
	"context"
	"errors"
	"net/http"

	"dalal-chat-api/pkg/logger"
	"dalal-chat-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// PredictionHandler proxies item batches to the prediction service.
type PredictionHandler struct {
	service *services.PredictionService
	log     *logger.Logger
}

func NewPredictionHandler(service *services.PredictionService, log *logger.Logger) *PredictionHandler {
	return &PredictionHandler{service: service, log: log}
}

// Predict handles POST /api/predict.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var body any
	if !bindJSON(c, &body) {
		return
	}

	result, err := h.service.Predict(context.WithoutCancel(c.Request.Context()), body)
	if err != nil {
		respondError(c, h.log, err, "Prediction failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Upload handles POST /api/predict/upload with a multipart "file" field
// holding an .xlsx or .csv item sheet.
func (h *PredictionHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file field is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.service.PredictSheet(context.WithoutCancel(c.Request.Context()), fileHeader.Filename, file)
	if err != nil {
		respondError(c, h.log, err, "Prediction failed")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ModelHealth handles GET /api/model/health.
func (h *PredictionHandler) ModelHealth(c *gin.Context) {
	health, err := h.service.ModelHealth(c.Request.Context())
	if err != nil {
		h.log.Error("model health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Model health check failed"})
		return
	}
	c.JSON(http.StatusOK, health)
}
