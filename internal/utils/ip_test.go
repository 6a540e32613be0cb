package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded-for from trusted proxy", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "10.0.0.1:1234", "198.51.100.1"},
		{"x-real-ip from trusted proxy", map[string]string{"X-Real-IP": "203.0.113.7"}, "10.0.0.1:1234", "203.0.113.7"},
		{"forwarded-for from untrusted peer", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "192.0.2.9:1234", "192.0.2.9"},
		{"x-real-ip from untrusted peer", map[string]string{"X-Real-IP": "203.0.113.7"}, "192.0.2.9:1234", "192.0.2.9"},
		{"remote addr", nil, "10.0.0.1:1234", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, engine := gin.CreateTestContext(w)
			require.NoError(t, engine.SetTrustedProxies([]string{"10.0.0.1"}))

			c.Request = httptest.NewRequest(http.MethodPost, "/api/contact", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, GetRealIP(c))
		})
	}
}
