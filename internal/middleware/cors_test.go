package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS_Origins(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"listed origin", []string{"https://app.example.com", " https://ops.example.com"}, "https://ops.example.com", http.StatusOK, "https://ops.example.com"},
		{"unlisted origin", []string{"https://app.example.com"}, "https://evil.example.com", http.StatusForbidden, ""},
		{"any origin", []string{"*"}, "https://evil.example.com", http.StatusOK, "*"},
		{"none configured", nil, "https://app.example.com", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			corsRouter(tt.origins).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
