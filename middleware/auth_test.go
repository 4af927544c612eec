package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpclub/clubhub/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	router := gin.New()
	router.GET("/protected", AuthRequired(), func(ctx *gin.Context) {
		principal, ok := CurrentPrincipal(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"user_id": principal.UserID, "role": principal.Role})
	})
	return router
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	router := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	router := newAuthTestRouter(t)

	for _, header := range []string{"Basic abc", "Bearer", "tokenwithoutscheme"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	router := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredValidTokenSetsPrincipal(t *testing.T) {
	router := newAuthTestRouter(t)

	token, err := utils.GenerateToken(42, "alice", "alice@diu.edu.bd", "admin", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	router := newAuthTestRouter(t)

	token, err := utils.GenerateToken(42, "alice", "alice@diu.edu.bd", "admin", -time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
