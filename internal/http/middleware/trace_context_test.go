package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/healthcheck", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("echoes incoming ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.Header.Set("X-Request-Id", "req-1")
		req.Header.Set("X-Trace-Id", "trace-1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if seen == nil || seen.RequestID != "req-1" || seen.TraceID != "trace-1" {
			t.Fatalf("unexpected trace data: %+v", seen)
		}
		if rec.Header().Get("X-Request-Id") != "req-1" || rec.Header().Get("X-Trace-Id") != "trace-1" {
			t.Fatalf("ids not echoed: %v", rec.Header())
		}
	})

	t.Run("generates missing ids", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
		if seen == nil || seen.RequestID == "" || seen.TraceID == "" {
			t.Fatalf("ids not generated: %+v", seen)
		}
		if rec.Header().Get("X-Request-Id") != seen.RequestID {
			t.Fatalf("generated request id not echoed")
		}
	})

	t.Run("replaces malformed ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		req.Header.Set("X-Request-Id", "bad id\nwith newline")
		req.Header.Set("X-Trace-Id", strings.Repeat("a", 200))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if seen == nil || seen.RequestID == "" || strings.Contains(seen.RequestID, " ") {
			t.Fatalf("malformed request id kept: %+v", seen)
		}
		if len(seen.TraceID) > maxCorrelationIDLen {
			t.Fatalf("oversized trace id kept: %q", seen.TraceID)
		}
	})
}

func TestCorrelationID(t *testing.T) {
	cases := map[string]string{
		" req-1 ":    "req-1",
		"a.b_c-9":    "a.b_c-9",
		"":           "",
		"has space":  "",
		"semi;colon": "",
		"ünïcode":    "",
	}
	for in, want := range cases {
		if got := correlationID(in); got != want {
			t.Fatalf("correlationID(%q): want=%q got=%q", in, want, got)
		}
	}
}
