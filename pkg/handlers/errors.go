package handlers

import (
	"errors"
	"io"
	"net/http"

	"dalal-chat-api/pkg/apierr"
	"dalal-chat-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError writes err as JSON. Classified errors carry their own status
// and client-safe message; anything else becomes a 500 with fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	_ = c.Error(err)

	e, ok := apierr.As(err)
	if !ok {
		log.Error("unexpected error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}

	switch e.Kind {
	case apierr.KindValidation:
		body := gin.H{"error": e.Message}
		if e.Index >= 0 {
			body["index"] = e.Index
			body["missing"] = e.Fields
		}
		c.JSON(e.Status, body)
	case apierr.KindUpstream:
		body := gin.H{"error": e.Message}
		if e.Detail != nil {
			body["detail"] = e.Detail
		}
		if e.Err != nil {
			log.Error("upstream failure", "path", c.FullPath(), "error", e.Err)
		}
		c.JSON(e.Status, body)
	default:
		log.Error(e.Message, "path", c.FullPath(), "kind", string(e.Kind), "error", e.Err)
		c.JSON(e.Status, gin.H{"error": e.Message})
	}
}

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched. It writes the error response itself and reports false when
// the body is unusable.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
	return false
}

// limitBody caps the number of bytes a handler may read from the body.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
