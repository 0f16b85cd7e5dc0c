package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerServesClient(t *testing.T) {
	h := Handler()

	tests := []struct {
		path     string
		contains string
	}{
		{"/", `<script src="/assets/app.js">`},
		{"/assets/app.js", "function selectConversation"},
		{"/assets/style.css", ".chat-form"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestHandlerUnknownAsset(t *testing.T) {
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
