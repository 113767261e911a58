package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func identityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity("/api/v1/health"))
	router.GET("/api/v1/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/v1/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFromContext(c))
	})
	router.OPTIONS("/api/v1/interviews", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestIdentityAllowsOptionsWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/interviews", nil)
	resp := httptest.NewRecorder()
	identityRouter().ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestIdentityResolvesCaller(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		status  int
		want    string
	}{
		{name: "user header", headers: map[string]string{"X-User-Id": "user-7"}, status: http.StatusOK, want: "user-7"},
		{name: "guest header", headers: map[string]string{"X-Guest-Id": "abc"}, status: http.StatusOK, want: "guest:abc"},
		{name: "user wins over guest", headers: map[string]string{"X-User-Id": "user-7", "X-Guest-Id": "abc"}, status: http.StatusOK, want: "user-7"},
		{name: "missing", headers: nil, status: http.StatusUnauthorized},
		{name: "blank", headers: map[string]string{"X-User-Id": "  "}, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp := httptest.NewRecorder()
			identityRouter().ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if tt.want != "" && resp.Body.String() != tt.want {
				t.Fatalf("expected user %q, got %q", tt.want, resp.Body.String())
			}
		})
	}
}

func TestIdentitySkipsPublicPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	identityRouter().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public path, got %d", resp.Code)
	}
}
