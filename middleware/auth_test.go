package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/auth"
	"shopapi/models"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})
	r.GET("/admin", AuthMiddleware(), AdminMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := doRequest(newTestRouter(), "/me", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "auth", body.Error.Kind)
}

func TestAuthMiddlewareBadScheme(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := doRequest(newTestRouter(), "/me", "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := doRequest(newTestRouter(), "/me", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := models.User{ID: primitive.NewObjectID(), Email: "jane@mail.com"}
	token, err := auth.CreateAccessToken(user)
	require.NoError(t, err)

	w := doRequest(newTestRouter(), "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, user.ID.Hex(), body.UserID)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.CreateAccessToken(models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	w := doRequest(newTestRouter(), "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.CreateAccessToken(models.User{ID: primitive.NewObjectID(), IsAdmin: true})
	require.NoError(t, err)

	w := doRequest(newTestRouter(), "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
