package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"default localhost", nil, "http://localhost:5173", "http://localhost:5173"},
		{"default loopback", nil, "http://127.0.0.1:3000", "http://127.0.0.1:3000"},
		{"configured", []string{"https://contacts.example.com"}, "https://contacts.example.com", "https://contacts.example.com"},
		{"not configured", []string{"https://contacts.example.com"}, "http://localhost:5173", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := gin.New()
			r.Use(CORS(tc.allowed))
			r.OPTIONS("/contacts/search", func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodOptions, "/contacts/search", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.want {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, tc.want)
			}
		})
	}
}
