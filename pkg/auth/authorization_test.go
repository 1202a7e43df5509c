package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(verifier Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(verifier))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := newRouter(StaticVerifier{Token: "secret"})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantBody: "Authorization header is missing"},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "bearer token"},
		{name: "empty bearer", header: "Bearer  ", wantStatus: http.StatusUnauthorized, wantBody: "bearer token"},
		{name: "wrong token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "invalid token"},
		{name: "valid token", header: "Bearer secret", wantStatus: http.StatusOK, wantBody: "static"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestStaticVerifierRejectsWhenUnset(t *testing.T) {
	_, err := StaticVerifier{}.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
