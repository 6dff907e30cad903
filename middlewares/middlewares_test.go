package middlewares

import (
	"TeleClinic/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestValidateBearerToken(t *testing.T) {
	router := newRouter()
	router.POST("/hook", ValidateBearerToken("shared-secret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic shared-secret", http.StatusUnauthorized},
		{"wrong secret", "Bearer other-secret!", http.StatusUnauthorized},
		{"valid", "Bearer shared-secret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/hook", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestTokenAndRoleAuth(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	router := newRouter()
	router.GET("/doctor-only",
		TokenAuthMiddleware(),
		RoleAuthMiddleware("Doctor"),
		func(c *gin.Context) {
			userID, err := ExtractUserIDFromContext(c.Request.Context())
			require.NoError(t, err)
			c.JSON(http.StatusOK, gin.H{"user_id": userID})
		})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor-only", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor-only?accessToken=not-a-token", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		token, err := utils.GenerateAccessToken("42", "Patient")
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor-only?accessToken="+token, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("doctor passes", func(t *testing.T) {
		token, err := utils.GenerateAccessToken("42", "Doctor")
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor-only?accessToken="+token, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":"42"`)
	})
}
