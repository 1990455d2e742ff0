package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.GetString(SessionKey)) }
	r.GET("/header", JWTAuth(secret), echo)
	r.GET("/query", QueryTokenAuth(secret), echo)
	return r
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()
	token, err := IssueToken(secret, "s1", time.Minute)
	require.NoError(t, err)

	expired, err := IssueToken(secret, "s1", -time.Minute)
	require.NoError(t, err)

	foreign, err := IssueToken("other-secret", "s1", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "s1"},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "bad format", header: "Token " + token, status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/header", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestQueryTokenAuth(t *testing.T) {
	r := newRouter()
	token, err := IssueToken(secret, "s2", time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/query?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s2", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/query", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseTokenRejectsMissingSession(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(secret, signed)
	require.Error(t, err)
}
