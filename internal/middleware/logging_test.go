package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestLogging_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	t.Run("generates_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		id := rec.Header().Get("X-Request-ID")
		if id == "" || id != rec.Body.String() {
			t.Errorf("X-Request-ID = %q, body = %q", id, rec.Body.String())
		}
	})

	t.Run("keeps_valid_incoming_id", func(t *testing.T) {
		const incoming = "3f2c1b0a-9d8e-4f7a-8b6c-5d4e3f2a1b0c"
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("X-Request-ID", incoming)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != incoming {
			t.Errorf("X-Request-ID = %q, want %q", got, incoming)
		}
	})
}

func TestNewRequestID_IsVersion7(t *testing.T) {
	id, err := uuid.Parse(newRequestID())
	if err != nil {
		t.Fatalf("request id does not parse: %v", err)
	}
	if id.Version() != 7 {
		t.Errorf("expected UUID version 7, got %d", id.Version())
	}
}
